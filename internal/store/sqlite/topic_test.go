package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/storyboard-app/storyboard/internal/model"
)

func TestTopicsAndScopedPosts(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	general := model.Topic{Title: "General", CreatedAt: time.Now()}
	ideas := model.Topic{Title: "Ideas", CreatedAt: time.Now()}

	generalID, err := st.CreateTopic(context.Background(), &general)
	if err != nil {
		t.Fatalf("create topic: %v", err)
	}
	ideasID, err := st.CreateTopic(context.Background(), &ideas)
	if err != nil {
		t.Fatalf("create topic: %v", err)
	}

	topics, err := st.ListTopics(context.Background())
	if err != nil {
		t.Fatalf("list topics: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}

	inGeneral := model.Post{Author: "Ada", AuthorCode: testCode('a'), Title: "On topic", Body: "body", TopicID: generalID, CreatedAt: time.Now()}
	inIdeas := model.Post{Author: "Ada", AuthorCode: testCode('a'), Title: "Elsewhere", Body: "body", TopicID: ideasID, CreatedAt: time.Now()}
	loose := model.Post{Author: "Ada", AuthorCode: testCode('a'), Title: "No topic", Body: "body", CreatedAt: time.Now()}
	for _, p := range []*model.Post{&inGeneral, &inIdeas, &loose} {
		if _, err := st.CreatePost(context.Background(), p); err != nil {
			t.Fatalf("create post: %v", err)
		}
	}

	posts, err := st.ListPostsByTopic(context.Background(), generalID)
	if err != nil {
		t.Fatalf("list posts by topic: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "On topic" {
		t.Fatalf("expected only the scoped post, got %+v", posts)
	}
	if posts[0].TopicID != generalID {
		t.Fatalf("expected topic_id %d, got %d", generalID, posts[0].TopicID)
	}
}

func TestHideTopic(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	topic := model.Topic{Title: "Ephemeral", CreatedAt: time.Now()}
	id, err := st.CreateTopic(context.Background(), &topic)
	if err != nil {
		t.Fatalf("create topic: %v", err)
	}
	if err := st.HideTopic(context.Background(), id); err != nil {
		t.Fatalf("hide topic: %v", err)
	}

	topics, err := st.ListTopics(context.Background())
	if err != nil {
		t.Fatalf("list topics: %v", err)
	}
	if len(topics) != 0 {
		t.Fatalf("expected no visible topics, got %+v", topics)
	}
}

func TestBoardStats(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	topic := model.Topic{Title: "Counted", CreatedAt: time.Now()}
	if _, err := st.CreateTopic(context.Background(), &topic); err != nil {
		t.Fatalf("create topic: %v", err)
	}
	post := model.Post{Author: "Ada", AuthorCode: testCode('a'), Title: "Counted", Body: "body", CreatedAt: time.Now()}
	postID, err := st.CreatePost(context.Background(), &post)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	stats, err := st.GetBoardStats(context.Background())
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.Topics != 1 || stats.Posts != 1 {
		t.Fatalf("expected 1/1, got %+v", stats)
	}

	// Hidden rows drop out of the counters too
	if err := st.HidePost(context.Background(), postID); err != nil {
		t.Fatalf("hide post: %v", err)
	}
	stats, _ = st.GetBoardStats(context.Background())
	if stats.Posts != 0 {
		t.Fatalf("expected hidden post excluded from stats, got %+v", stats)
	}
}
