package httpapp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/storyboard-app/storyboard/internal/config"
	"github.com/storyboard-app/storyboard/internal/gate"
	"github.com/storyboard-app/storyboard/internal/model"
	"github.com/storyboard-app/storyboard/internal/store"
	"github.com/storyboard-app/storyboard/internal/validate"

	_ "github.com/storyboard-app/storyboard/docs" // swagger docs

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

type Server struct {
	store store.Store
	gate  *gate.Gate
	cfg   config.Config

	// Schema variant is a construction-time choice, not a runtime branch.
	newPostSchema    validate.Schema
	updatePostSchema validate.Schema
	newTopicSchema   validate.Schema
}

func NewServer(st store.Store, g *gate.Gate, cfg config.Config) *Server {
	return &Server{
		store:            st,
		gate:             g,
		cfg:              cfg,
		newPostSchema:    validate.NewPost(cfg.Topics),
		updatePostSchema: validate.UpdatePost(),
		newTopicSchema:   validate.NewTopic(),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleRoot(w, r)
		return
	}
	if strings.HasPrefix(r.URL.Path, "/swagger/") {
		httpSwagger.WrapHandler.ServeHTTP(w, r)
		return
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		s.handleAPI(w, r)
		return
	}
	notFound(w)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	segments := splitPath(path)

	switch {
	case len(segments) == 1 && segments[0] == "posts":
		if r.Method == http.MethodGet {
			s.handleListPosts(w, r)
			return
		}
		if r.Method == http.MethodPost {
			s.handleCreatePost(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "posts":
		if r.Method == http.MethodGet {
			s.handleGetPost(w, r, segments[1])
			return
		}
		if r.Method == http.MethodPut {
			s.handleUpdatePost(w, r, segments[1])
			return
		}
	case len(segments) == 1 && segments[0] == "topics":
		if r.Method == http.MethodGet {
			s.handleListTopics(w, r)
			return
		}
		if r.Method == http.MethodPost {
			s.handleCreateTopic(w, r)
			return
		}
	case len(segments) == 3 && segments[0] == "topics" && segments[2] == "posts":
		if r.Method == http.MethodGet {
			s.handlePostsByTopic(w, r, segments[1])
			return
		}
	case len(segments) == 1 && segments[0] == "stats":
		if r.Method == http.MethodGet {
			s.handleGetStats(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "admin" && segments[1] == "hide":
		if r.Method == http.MethodPost {
			s.handleAdminHide(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "openapi.json":
		if r.Method == http.MethodGet {
			s.serveOpenAPIJSON(w, r)
			return
		}
	}

	notFound(w)
}

// handleRoot godoc
//
//	@Summary		Service banner
//	@Description	Project name and server time, useful as a liveness probe.
//	@Tags			Meta
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/ [get]
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"project": "storyboard-app",
		"emoji":   "\U0001F4D5",
		"time":    time.Now().UnixMilli(),
	})
}

// handleListPosts godoc
//
//	@Summary		List posts
//	@Description	All visible posts, oldest first. Author codes are never included.
//	@Tags			Posts
//	@Produce		json
//	@Success		200	{array}	model.Post
//	@Router			/api/posts [get]
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		serverError(w)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// handleGetPost godoc
//
//	@Summary		Get a post
//	@Description	Rows matching the id, as an array of zero or one posts.
//	@Tags			Posts
//	@Produce		json
//	@Param			id	path	int	true	"Post ID"
//	@Success		200	{array}	model.Post
//	@Router			/api/posts/{id} [get]
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid post id")
		return
	}
	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The contract is "rows for id": absent rows are an empty
			// result, not a 404.
			writeJSON(w, http.StatusOK, []model.Post{})
			return
		}
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, []model.Post{post})
}

// handleCreatePost godoc
//
//	@Summary		Create a post
//	@Description	Requires the shared write secret. The author_code becomes the post's edit credential.
//	@Tags			Posts
//	@Accept			json
//	@Produce		json
//	@Param			X-Not-Very-Secret-Key	header		string	true	"Shared write secret"
//	@Param			post					body		object{author=string,author_code=string,title=string,body=string,topic_id=int}	true	"New post"
//	@Success		201						{object}	map[string]string
//	@Failure		400						{object}	map[string]any	"Field errors"
//	@Failure		401						{object}	map[string]any	"Bad or missing secret"
//	@Failure		404						{object}	map[string]any
//	@Router			/api/posts [post]
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.CheckSecret(r.Header.Get(gate.SecretHeader)); err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	payload, err := readPayload(r.Body)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := s.gate.CheckHoneypot(payload); err != nil {
		notFound(w)
		return
	}
	record, issues := s.newPostSchema.Validate(payload)
	if issues != nil {
		writeIssues(w, issues)
		return
	}

	post := model.Post{
		Author:     record.String("author"),
		AuthorCode: record.String("author_code"),
		Title:      record.String("title"),
		Body:       record.String("body"),
		TopicID:    record.Int64("topic_id"),
		CreatedAt:  time.Now(),
	}
	if _, err := s.store.CreatePost(r.Context(), &post); err != nil {
		serverError(w)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "post saved"})
}

// handleUpdatePost godoc
//
//	@Summary		Update a post
//	@Description	Rewrites title, author and body. The update is scoped by id and author_code, so only a caller holding the original code can mutate the post.
//	@Tags			Posts
//	@Accept			json
//	@Produce		json
//	@Param			X-Not-Very-Secret-Key	header		string	true	"Shared write secret"
//	@Param			id						path		int		true	"Post ID"
//	@Param			post					body		object{author=string,author_code=string,title=string,body=string}	true	"Updated fields"
//	@Success		202						{object}	map[string]string
//	@Failure		400						{object}	map[string]any	"Field errors"
//	@Failure		401						{object}	map[string]any	"Bad or missing secret"
//	@Failure		404						{object}	map[string]any	"No such post"
//	@Failure		500						{object}	map[string]any	"Write matched zero rows"
//	@Router			/api/posts/{id} [put]
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, idStr string) {
	if err := s.gate.CheckSecret(r.Header.Get(gate.SecretHeader)); err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	payload, err := readPayload(r.Body)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := s.gate.CheckHoneypot(payload); err != nil {
		notFound(w)
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid post id")
		return
	}
	record, issues := s.updatePostSchema.Validate(payload)
	if issues != nil {
		writeIssues(w, issues)
		return
	}

	if _, err := s.store.GetPost(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		serverError(w)
		return
	}

	err = s.store.UpdatePost(r.Context(), id,
		record.String("author_code"),
		record.String("title"),
		record.String("author"),
		record.String("body"),
	)
	if err != nil {
		// A wrong author_code surfaces here as zero rows affected and
		// maps to the generic failure, not a 403.
		serverError(w)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "post updated"})
}

// handleListTopics godoc
//
//	@Summary		List topics
//	@Tags			Topics
//	@Produce		json
//	@Success		200	{array}	model.Topic
//	@Router			/api/topics [get]
func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.store.ListTopics(r.Context())
	if err != nil {
		serverError(w)
		return
	}
	if topics == nil {
		topics = []model.Topic{}
	}
	writeJSON(w, http.StatusOK, topics)
}

// handlePostsByTopic godoc
//
//	@Summary		List posts in a topic
//	@Tags			Topics
//	@Produce		json
//	@Param			id	path	int	true	"Topic ID"
//	@Success		200	{array}	model.Post
//	@Router			/api/topics/{id}/posts [get]
func (s *Server) handlePostsByTopic(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid topic id")
		return
	}
	posts, err := s.store.ListPostsByTopic(r.Context(), id)
	if err != nil {
		serverError(w)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// handleCreateTopic godoc
//
//	@Summary		Create a topic
//	@Description	Topic creation carries no secret or honeypot gate.
//	@Tags			Topics
//	@Accept			json
//	@Produce		json
//	@Param			topic	body		object{title=string}	true	"New topic"
//	@Success		201		{object}	map[string]string
//	@Failure		400		{object}	map[string]any	"Field errors"
//	@Router			/api/topics [post]
func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(r.Body)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json")
		return
	}
	record, issues := s.newTopicSchema.Validate(payload)
	if issues != nil {
		writeIssues(w, issues)
		return
	}

	topic := model.Topic{
		Title:     record.String("title"),
		CreatedAt: time.Now(),
	}
	if _, err := s.store.CreateTopic(r.Context(), &topic); err != nil {
		serverError(w)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "topic saved"})
}

// handleGetStats godoc
//
//	@Summary		Board statistics
//	@Tags			Meta
//	@Produce		json
//	@Success		200	{object}	model.BoardStats
//	@Router			/api/stats [get]
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetBoardStats(r.Context())
	if err != nil {
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleAdminHide godoc
//
//	@Summary		Hide content (admin)
//	@Description	Soft-hide a post or topic. The only write path for the hidden flag; there is no unhide.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			X-Admin-Secret	header		string										true	"Admin secret"
//	@Param			target			body		object{target_type=string,target_id=int}	true	"Content to hide"
//	@Success		200				{object}	map[string]bool
//	@Failure		401				{object}	map[string]any
//	@Router			/api/admin/hide [post]
func (s *Server) handleAdminHide(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Admin-Secret") != s.cfg.AdminSecret {
		writeFailure(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		TargetType string `json:"target_type"`
		TargetID   int64  `json:"target_id"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json")
		return
	}
	switch req.TargetType {
	case "post":
		if err := s.store.HidePost(r.Context(), req.TargetID); err != nil {
			serverError(w)
			return
		}
	case "topic":
		if err := s.store.HideTopic(r.Context(), req.TargetID); err != nil {
			serverError(w)
			return
		}
	default:
		writeFailure(w, http.StatusBadRequest, "invalid target_type")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) serveOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		serverError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write([]byte(doc))
}

func readPayload(body io.ReadCloser) (map[string]any, error) {
	defer body.Close()
	var payload map[string]any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeFailure emits the board's failure envelope: a human-readable message
// plus an error flag.
func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message, "error": true})
}

func writeIssues(w http.ResponseWriter, issues validate.Errors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"message": "invalid input",
		"error":   true,
		"issues":  issues,
	})
}

func serverError(w http.ResponseWriter) {
	writeFailure(w, http.StatusInternalServerError, "something went wrong")
}

// notFound is shared by the router and the honeypot path so the two are
// indistinguishable on the wire.
func notFound(w http.ResponseWriter) {
	writeFailure(w, http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter) {
	writeFailure(w, http.StatusMethodNotAllowed, "method not allowed")
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
