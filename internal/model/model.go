package model

import "time"

// Post is a single message on the board. AuthorCode is the write credential
// chosen at creation; it never serializes into API responses.
type Post struct {
	ID         int64     `json:"id"`
	Author     string    `json:"author"`
	AuthorCode string    `json:"-"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	TopicID    int64     `json:"topic_id"`
	CreatedAt  time.Time `json:"created_at"`
	Hidden     bool      `json:"-"`
}

type Topic struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Hidden    bool      `json:"-"`
}

type BoardStats struct {
	Topics int64 `json:"topics"`
	Posts  int64 `json:"posts"`
}
