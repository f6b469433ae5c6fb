package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/storyboard-app/storyboard/internal/client"
)

var authors = []string{
	"Ada",
	"Basil",
	"Corvid",
	"Delphine",
	"Ember",
}

var topics = []string{
	"General Discussion",
	"Story Ideas",
	"Feedback Corner",
}

var posts = []struct {
	title string
	body  string
}{
	{"Welcome to the board", "This is the first post. Say hello, share a story, and be kind to each other."},
	{"The lighthouse keeper", "Every night she climbed the ninety steps, and every night the sea asked her the same question."},
	{"Looking for co-writers", "I have half an outline for a serialized mystery and no discipline. Anyone want to pick up alternating chapters?"},
	{"On writing short", "A story does not need a thousand words to land. Sometimes three sentences carry more weight than three pages."},
	{"The cartographer's mistake", "He drew an island that did not exist, and ten years later a ship came back swearing it did."},
	{"Morning pages, day 30", "One month of writing every morning before coffee. The pages are bad. I am keeping all of them."},
	{"A door in the orchard", "The apple trees had grown around it so long ago that the frame was more bark than wood."},
	{"Feedback wanted: opening line", "Which lands harder: 'The rain stopped the day she left' or 'She left the day the rain stopped'?"},
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Storyboard server URL")
	apiKey := flag.String("key", "dev-api-key", "Shared write secret")
	flag.Parse()

	log.Printf("Seeding board at %s...\n", *baseURL)

	c := client.New(*baseURL, *apiKey)

	// Create topics, then read them back for their IDs
	for _, title := range topics {
		if err := c.CreateTopic(title); err != nil {
			log.Fatalf("create topic %q: %v", title, err)
		}
		log.Printf("✓ Created topic: %s", title)
	}

	created, err := c.ListTopics()
	if err != nil {
		log.Fatalf("list topics: %v", err)
	}

	// Each author gets one durable edit code for all their posts
	codes := make(map[string]string, len(authors))
	for _, name := range authors {
		codes[name] = client.GenerateAuthorCode()
	}

	posted := 0
	for i, p := range posts {
		author := authors[rand.Intn(len(authors))]

		// Roughly a third of the posts stay outside any topic
		var topicID int64
		if len(created) > 0 && rand.Float32() < 0.66 {
			topicID = created[rand.Intn(len(created))].ID
		}

		if err := c.CreatePost(author, codes[author], p.title, p.body, topicID); err != nil {
			log.Printf("✗ Failed to post %q: %v", p.title, err)
			continue
		}
		posted++
		log.Printf("✓ Posted: %s (by %s)", p.title, author)

		// Small delay to spread out created_at times
		if i < len(posts)-1 {
			time.Sleep(50 * time.Millisecond)
		}
	}

	stats, err := c.GetStats()
	if err != nil {
		log.Fatalf("get stats: %v", err)
	}

	fmt.Println("\n=== Seed Complete ===")
	fmt.Printf("Topics: %d\n", stats.Topics)
	fmt.Printf("Posts:  %d (%d new)\n", stats.Posts, posted)
	fmt.Println("\nView at:", *baseURL)
}
