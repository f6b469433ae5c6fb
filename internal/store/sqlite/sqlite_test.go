package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/storyboard-app/storyboard/internal/model"
	"github.com/storyboard-app/storyboard/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsnName := strings.NewReplacer("/", "_").Replace(t.Name())
	path := fmt.Sprintf("file:%s?mode=memory&cache=shared", dsnName)
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st
}

func testCode(c byte) string {
	return strings.Repeat(string(c), 64)
}

func TestPostLifecycle(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	post := model.Post{
		Author:     "Ada",
		AuthorCode: testCode('a'),
		Title:      "First Post",
		Body:       "Hello, board.",
		CreatedAt:  time.Now(),
	}
	id, err := st.CreatePost(context.Background(), &post)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := st.GetPost(context.Background(), id)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if got.Title != post.Title || got.Author != post.Author || got.Body != post.Body {
		t.Fatalf("unexpected post: %+v", got)
	}
	if got.AuthorCode != post.AuthorCode {
		t.Fatalf("expected author code persisted")
	}
	if got.TopicID != 0 {
		t.Fatalf("expected no topic, got %d", got.TopicID)
	}

	err = st.UpdatePost(context.Background(), id, post.AuthorCode, "Renamed", "Ada L.", "Updated body.")
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	updated, _ := st.GetPost(context.Background(), id)
	if updated.Title != "Renamed" || updated.Author != "Ada L." || updated.Body != "Updated body." {
		t.Fatalf("unexpected updated post: %+v", updated)
	}
	if !updated.CreatedAt.Equal(got.CreatedAt) {
		t.Fatalf("created_at must not change on update")
	}
}

func TestGetPostMissing(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	_, err := st.GetPost(context.Background(), 999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePostWrongCode(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	post := model.Post{
		Author:     "Ada",
		AuthorCode: testCode('a'),
		Title:      "Locked Post",
		Body:       "Only Ada edits this.",
		CreatedAt:  time.Now(),
	}
	id, err := st.CreatePost(context.Background(), &post)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	err = st.UpdatePost(context.Background(), id, testCode('b'), "Hijacked", "Eve", "Nope.")
	if !errors.Is(err, store.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	got, _ := st.GetPost(context.Background(), id)
	if got.Title != "Locked Post" {
		t.Fatalf("post must be untouched, got title %q", got.Title)
	}
}

func TestHiddenPostsExcluded(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	visible := model.Post{Author: "Ada", AuthorCode: testCode('a'), Title: "Visible", Body: "stays", CreatedAt: time.Now()}
	hidden := model.Post{Author: "Ada", AuthorCode: testCode('a'), Title: "Hidden", Body: "goes", CreatedAt: time.Now()}

	if _, err := st.CreatePost(context.Background(), &visible); err != nil {
		t.Fatalf("create post: %v", err)
	}
	hiddenID, err := st.CreatePost(context.Background(), &hidden)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := st.HidePost(context.Background(), hiddenID); err != nil {
		t.Fatalf("hide post: %v", err)
	}

	posts, err := st.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "Visible" {
		t.Fatalf("expected only the visible post, got %+v", posts)
	}

	if _, err := st.GetPost(context.Background(), hiddenID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("hidden post must not be addressable, got %v", err)
	}
}

func TestListPostsOrder(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	base := time.Now()
	for i, title := range []string{"First", "Second", "Third"} {
		p := model.Post{
			Author:     "Ada",
			AuthorCode: testCode('a'),
			Title:      title,
			Body:       "body",
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		if _, err := st.CreatePost(context.Background(), &p); err != nil {
			t.Fatalf("create post: %v", err)
		}
	}

	posts, err := st.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if posts[i].Title != want {
			t.Fatalf("expected oldest first, got %+v", posts)
		}
	}
}
