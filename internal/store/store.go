package store

import (
	"context"
	"errors"

	"github.com/storyboard-app/storyboard/internal/model"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrNotOwner is returned when an update's id + author_code predicate
	// matched zero rows: the post exists but the presented code is wrong,
	// or the row vanished between the existence check and the write.
	ErrNotOwner = errors.New("author code mismatch")
)

type Store interface {
	PostStore
	TopicStore
	GetBoardStats(ctx context.Context) (model.BoardStats, error)
	Close() error
}

type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) (int64, error)
	GetPost(ctx context.Context, id int64) (model.Post, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
	ListPostsByTopic(ctx context.Context, topicID int64) ([]model.Post, error)
	// UpdatePost rewrites title, author and body of the post matching both
	// id and authorCode. Returns ErrNotOwner when nothing matched.
	UpdatePost(ctx context.Context, id int64, authorCode, title, author, body string) error
	HidePost(ctx context.Context, id int64) error
}

type TopicStore interface {
	CreateTopic(ctx context.Context, topic *model.Topic) (int64, error)
	ListTopics(ctx context.Context) ([]model.Topic, error)
	HideTopic(ctx context.Context, id int64) error
}
