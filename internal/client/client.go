// Package client provides a Go client for the Storyboard API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is a Storyboard API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	APIKey     string
}

// New creates a new Storyboard client. The API key is sent on write
// requests; read-only callers can leave it empty.
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		APIKey:     apiKey,
	}
}

// GenerateAuthorCode returns a fresh 64-character edit credential. Whoever
// holds the code can update the posts created with it, so callers should
// keep it somewhere durable.
func GenerateAuthorCode() string {
	a := strings.ReplaceAll(uuid.New().String(), "-", "")
	b := strings.ReplaceAll(uuid.New().String(), "-", "")
	return a + b
}

// Post represents a post from the API.
type Post struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	TopicID   int64     `json:"topic_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Topic represents a topic from the API.
type Topic struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats holds board-wide counters.
type Stats struct {
	Topics int64 `json:"topics"`
	Posts  int64 `json:"posts"`
}

// doRequest performs an HTTP request, attaching the write secret when set.
func (c *Client) doRequest(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("X-Not-Very-Secret-Key", c.APIKey)
	}
	return c.HTTPClient.Do(req)
}

// CreatePost creates a new post. Pass topicID 0 for a post outside any
// topic; topic-aware servers require the field, so it is always sent.
func (c *Client) CreatePost(author, authorCode, title, body string, topicID int64) error {
	reqBody := map[string]any{
		"author":      author,
		"author_code": authorCode,
		"title":       title,
		"body":        body,
		"topic_id":    topicID,
	}

	resp, err := c.doRequest(http.MethodPost, "/api/posts", reqBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create post failed (%d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// UpdatePost rewrites a post's title, author and body. The authorCode must
// match the one used at creation.
func (c *Client) UpdatePost(id int64, authorCode, title, author, body string) error {
	reqBody := map[string]any{
		"author":      author,
		"author_code": authorCode,
		"title":       title,
		"body":        body,
	}

	resp, err := c.doRequest(http.MethodPut, fmt.Sprintf("/api/posts/%d", id), reqBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("update post failed (%d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// ListPosts fetches all posts.
func (c *Client) ListPosts() ([]Post, error) {
	resp, err := c.doRequest(http.MethodGet, "/api/posts", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list posts failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post. A missing post returns nil, not an error,
// mirroring the server's array-of-rows shape.
func (c *Client) GetPost(id int64) (*Post, error) {
	resp, err := c.doRequest(http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get post failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// PostsByTopic fetches all posts in a topic.
func (c *Client) PostsByTopic(topicID int64) ([]Post, error) {
	resp, err := c.doRequest(http.MethodGet, fmt.Sprintf("/api/topics/%d/posts", topicID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list topic posts failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreateTopic creates a new topic.
func (c *Client) CreateTopic(title string) error {
	reqBody := map[string]any{"title": title}

	resp, err := c.doRequest(http.MethodPost, "/api/topics", reqBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create topic failed (%d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// ListTopics fetches all topics.
func (c *Client) ListTopics() ([]Topic, error) {
	resp, err := c.doRequest(http.MethodGet, "/api/topics", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list topics failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var topics []Topic
	if err := json.NewDecoder(resp.Body).Decode(&topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// GetStats fetches board-wide counters.
func (c *Client) GetStats() (*Stats, error) {
	resp, err := c.doRequest(http.MethodGet, "/api/stats", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get stats failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var stats Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
