package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/storyboard-app/storyboard/internal/client"
	"github.com/storyboard-app/storyboard/internal/config"
	"github.com/storyboard-app/storyboard/internal/gate"
	httpapp "github.com/storyboard-app/storyboard/internal/http"
	"github.com/storyboard-app/storyboard/internal/store/sqlite"
)

// CLIConfig holds the CLI client configuration persisted to disk. The author
// code is the only credential for editing past posts, so it lives here.
type CLIConfig struct {
	BaseURL    string `json:"base_url"`
	APIKey     string `json:"api_key"`
	Author     string `json:"author"`
	AuthorCode string `json:"author_code"`
}

func main() {
	if len(os.Args) < 2 {
		runServer()
		return
	}

	cmd := os.Args[1]

	// Handle --help and -h before defaulting to server
	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage()
		return
	}

	if cmd == "-v" || cmd == "--version" || cmd == "version" {
		fmt.Println("storyboard v0.1.0")
		return
	}

	if strings.HasPrefix(cmd, "-") {
		runServer()
		return
	}

	args := os.Args[2:]

	switch cmd {
	case "server", "serve":
		runServer()
	case "init":
		cmdInit(args)
	case "post", "submit":
		cmdPost(args)
	case "update", "edit":
		cmdUpdate(args)
	case "read", "list":
		cmdRead(args)
	case "topics":
		cmdTopics(args)
	case "topic":
		cmdTopic(args)
	case "stats":
		cmdStats(args)
	case "status", "whoami":
		cmdStatus(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`storyboard - Minimal message board

Usage: storyboard <command> [options]

Quick Start:
  storyboard init --author "Ada" --key <secret>     # Setup author + edit code
  storyboard post --title "Hello" --body "First!"

Client Commands:
  init                Save server URL, author name and write secret; generates your edit code
  post                Create a new post
  update              Rewrite a post you created
  read                List posts (or a single post)
  topics              List topics
  topic               Create a topic
  stats               Show board-wide counters
  status              Show current config

Server:
  server              Start the Storyboard server (default if no command)

Examples:
  storyboard init --author "Ada" --key not-very-secret
  storyboard post --title "Cool Story" --body "Once upon a time..."
  storyboard post --title "On Topic" --body "..." --topic 3
  storyboard update --post 7 --title "Cooler Story" --body "..."
  storyboard read --post 7
  storyboard topic --title "General Discussion"

Environment Variables (server):
  STORYBOARD_ADDR           Listen address (default: :8080)
  STORYBOARD_DB             Database path (default: storyboard.db)
  STORYBOARD_API_KEY        Shared write secret
  STORYBOARD_ADMIN_SECRET   Admin API secret
  STORYBOARD_TOPICS         Enable topic routes (default: true)`)
}

// ============================================================================
// SERVER
// ============================================================================

func runServer() {
	cfg := config.Load()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer store.Close()

	server := httpapp.NewServer(store, gate.New(cfg.APIKey), cfg)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("storyboard listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}

// ============================================================================
// CLIENT COMMANDS
// ============================================================================

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	author := fs.String("author", "", "Author name shown on your posts (required)")
	key := fs.String("key", "", "Shared write secret (required)")
	url := fs.String("url", "http://localhost:8080", "Storyboard server URL")
	fs.Parse(args)

	if *author == "" || *key == "" {
		fmt.Fprintln(os.Stderr, "Error: --author and --key are required")
		fmt.Fprintln(os.Stderr, "Usage: storyboard init --author <name> --key <secret> [--url <server-url>]")
		os.Exit(1)
	}

	cfg := CLIConfig{
		BaseURL:    strings.TrimSuffix(*url, "/"),
		APIKey:     *key,
		Author:     *author,
		AuthorCode: client.GenerateAuthorCode(),
	}

	if err := saveCLIConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Initialized author '%s'\n", *author)
	fmt.Printf("  Config: %s\n", cliConfigPath())
	fmt.Printf("  Server: %s\n", cfg.BaseURL)
	fmt.Printf("  Code:   %s...\n", cfg.AuthorCode[:16])
	fmt.Println("\nNext: storyboard post --title \"Hello\" --body \"My first post\"")
}

func cmdPost(args []string) {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	title := fs.String("title", "", "Post title (required, 3-60 chars)")
	body := fs.String("body", "", "Post body (required, 3-2000 chars)")
	topic := fs.Int64("topic", 0, "Topic ID (optional)")
	fs.Parse(args)

	if *title == "" || *body == "" {
		fmt.Fprintln(os.Stderr, "Error: --title and --body are required")
		os.Exit(1)
	}

	cfg, c, err := loadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := c.CreatePost(cfg.Author, cfg.AuthorCode, *title, *body, *topic); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Posted: %s\n", *title)
}

func cmdUpdate(args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	postID := fs.Int64("post", 0, "Post ID to update (required)")
	title := fs.String("title", "", "New title (required)")
	body := fs.String("body", "", "New body (required)")
	fs.Parse(args)

	if *postID == 0 || *title == "" || *body == "" {
		fmt.Fprintln(os.Stderr, "Error: --post, --title and --body are required")
		fmt.Fprintln(os.Stderr, "Usage: storyboard update --post <id> --title <title> --body <body>")
		os.Exit(1)
	}

	cfg, c, err := loadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := c.UpdatePost(*postID, cfg.AuthorCode, *title, cfg.Author, *body); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Updated post %d\n", *postID)
}

func cmdRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	postID := fs.Int64("post", 0, "Get a specific post")
	topic := fs.Int64("topic", 0, "List posts in a topic")
	fs.Parse(args)

	c := readOnlyClient()

	if *postID != 0 {
		post, err := c.GetPost(*postID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if post == nil {
			fmt.Printf("No post with id %d\n", *postID)
			return
		}
		printPost(*post)
		return
	}

	var posts []client.Post
	var err error
	if *topic != 0 {
		posts, err = c.PostsByTopic(*topic)
	} else {
		posts, err = c.ListPosts()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(posts) == 0 {
		fmt.Println("No posts yet")
		return
	}
	for _, p := range posts {
		printPost(p)
	}
}

func cmdTopics(args []string) {
	c := readOnlyClient()

	topics, err := c.ListTopics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(topics) == 0 {
		fmt.Println("No topics yet")
		fmt.Println("\nRun: storyboard topic --title <title>")
		return
	}
	fmt.Println("Topics:")
	for _, t := range topics {
		fmt.Printf("  [%d] %s\n", t.ID, t.Title)
	}
}

func cmdTopic(args []string) {
	fs := flag.NewFlagSet("topic", flag.ExitOnError)
	title := fs.String("title", "", "Topic title (required, 3-100 chars)")
	fs.Parse(args)

	if *title == "" {
		fmt.Fprintln(os.Stderr, "Error: --title is required")
		fmt.Fprintln(os.Stderr, "Usage: storyboard topic --title <title>")
		os.Exit(1)
	}

	c := readOnlyClient()
	if err := c.CreateTopic(*title); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Created topic: %s\n", *title)
}

func cmdStats(args []string) {
	c := readOnlyClient()

	stats, err := c.GetStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Topics: %d\n", stats.Topics)
	fmt.Printf("Posts:  %d\n", stats.Posts)
}

func cmdStatus(args []string) {
	cfg, err := loadCLIConfig()
	if err != nil {
		fmt.Println("Status: Not initialized")
		fmt.Println("\nRun: storyboard init --author <name> --key <secret>")
		return
	}

	fmt.Printf("Author: %s\n", cfg.Author)
	fmt.Printf("Server: %s\n", cfg.BaseURL)
	fmt.Printf("Code:   %s...\n", cfg.AuthorCode[:16])
	if cfg.APIKey == "" {
		fmt.Println("Key:    Not set (read-only)")
	} else {
		fmt.Println("Key:    Set")
	}
}

func printPost(p client.Post) {
	fmt.Printf("\n[%d] %s\n", p.ID, p.Title)
	fmt.Printf("  by %s", p.Author)
	if p.TopicID != 0 {
		fmt.Printf(" | topic %d", p.TopicID)
	}
	fmt.Printf(" | %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("\n  %s\n", p.Body)
}

// ============================================================================
// HELPERS
// ============================================================================

func storyboardDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".storyboard")
}

func cliConfigPath() string {
	return filepath.Join(storyboardDir(), "config.json")
}

func loadCLIConfig() (CLIConfig, error) {
	data, err := os.ReadFile(cliConfigPath())
	if err != nil {
		return CLIConfig{}, errors.New("not initialized - run 'storyboard init'")
	}
	var cfg CLIConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, err
	}
	return cfg, nil
}

func saveCLIConfig(cfg CLIConfig) error {
	if err := os.MkdirAll(storyboardDir(), 0700); err != nil {
		return err
	}
	data, _ := json.MarshalIndent(cfg, "", "  ")
	return os.WriteFile(cliConfigPath(), data, 0600)
}

func loadClient() (CLIConfig, *client.Client, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return CLIConfig{}, nil, err
	}
	if cfg.APIKey == "" {
		return CLIConfig{}, nil, errors.New("no write secret saved - run 'storyboard init' with --key")
	}
	return cfg, client.New(cfg.BaseURL, cfg.APIKey), nil
}

// readOnlyClient never fails: reads need no config, so a missing one just
// falls back to the default server URL.
func readOnlyClient() *client.Client {
	cfg, _ := loadCLIConfig()
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return client.New(baseURL, cfg.APIKey)
}
