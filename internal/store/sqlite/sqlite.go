package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/storyboard-app/storyboard/internal/model"
	"github.com/storyboard-app/storyboard/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrations is an ordered list of SQL migrations.
// Each migration runs exactly once, tracked by schema_version table.
var migrations = []string{
	// Migration 1: Initial schema
	`
CREATE TABLE IF NOT EXISTS topics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	hidden INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	author TEXT NOT NULL,
	author_code TEXT NOT NULL,
	title TEXT NOT NULL,
	body TEXT NOT NULL,
	topic_id INTEGER,
	created_at INTEGER NOT NULL,
	hidden INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY(topic_id) REFERENCES topics(id)
);
CREATE INDEX IF NOT EXISTS idx_posts_topic_id ON posts(topic_id);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC);
`,
	// Future migrations go here:
	// Migration 2: `ALTER TABLE ...`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}

func (s *Store) CreatePost(ctx context.Context, post *model.Post) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO posts (author, author_code, title, body, topic_id, created_at, hidden)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, post.Author, post.AuthorCode, post.Title, post.Body, nullIfZero(post.TopicID), post.CreatedAt.Unix(), boolToInt(post.Hidden))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetPost(ctx context.Context, id int64) (model.Post, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, author, author_code, title, body, topic_id, created_at, hidden
FROM posts
WHERE id = ? AND hidden = 0
LIMIT 1
`, id)
	return scanPost(row)
}

func (s *Store) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, author, author_code, title, body, topic_id, created_at, hidden
FROM posts
WHERE hidden = 0
ORDER BY created_at ASC, id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (s *Store) ListPostsByTopic(ctx context.Context, topicID int64) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, author, author_code, title, body, topic_id, created_at, hidden
FROM posts
WHERE hidden = 0 AND topic_id = ?
ORDER BY created_at ASC, id ASC
`, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

// UpdatePost is scoped by id AND author_code so a caller holding the wrong
// code updates zero rows. created_at, author_code, topic_id and hidden stay
// untouched.
func (s *Store) UpdatePost(ctx context.Context, id int64, authorCode, title, author, body string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE posts SET title = ?, author = ?, body = ? WHERE id = ? AND author_code = ?
`, title, author, body, id, authorCode)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotOwner
	}
	return nil
}

func (s *Store) HidePost(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE posts SET hidden = 1 WHERE id = ?`, id)
	return err
}

func (s *Store) CreateTopic(ctx context.Context, topic *model.Topic) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO topics (title, created_at, hidden)
VALUES (?, ?, ?)
`, topic.Title, topic.CreatedAt.Unix(), boolToInt(topic.Hidden))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) ListTopics(ctx context.Context) ([]model.Topic, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, created_at, hidden
FROM topics
WHERE hidden = 0
ORDER BY created_at ASC, id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []model.Topic
	for rows.Next() {
		var t model.Topic
		var created int64
		var hidden int
		if err := rows.Scan(&t.ID, &t.Title, &created, &hidden); err != nil {
			return nil, err
		}
		t.CreatedAt = time.Unix(created, 0)
		t.Hidden = hidden == 1
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (s *Store) HideTopic(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE topics SET hidden = 1 WHERE id = ?`, id)
	return err
}

func (s *Store) GetBoardStats(ctx context.Context) (model.BoardStats, error) {
	var stats model.BoardStats
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM topics WHERE hidden = 0`)
	if err := row.Scan(&stats.Topics); err != nil {
		return stats, err
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE hidden = 0`)
	if err := row.Scan(&stats.Posts); err != nil {
		return stats, err
	}
	return stats, nil
}

func collectPosts(rows *sql.Rows) ([]model.Post, error) {
	var posts []model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func scanPost(scanner interface{ Scan(dest ...any) error }) (model.Post, error) {
	var p model.Post
	var topicID sql.NullInt64
	var created int64
	var hidden int
	if err := scanner.Scan(&p.ID, &p.Author, &p.AuthorCode, &p.Title, &p.Body, &topicID, &created, &hidden); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, store.ErrNotFound
		}
		return model.Post{}, err
	}
	if topicID.Valid {
		p.TopicID = topicID.Int64
	}
	p.CreatedAt = time.Unix(created, 0)
	p.Hidden = hidden == 1
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfZero(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
