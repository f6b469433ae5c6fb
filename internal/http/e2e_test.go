package httpapp_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/storyboard-app/storyboard/internal/config"
	"github.com/storyboard-app/storyboard/internal/gate"
	httpapp "github.com/storyboard-app/storyboard/internal/http"
	"github.com/storyboard-app/storyboard/internal/store/sqlite"
)

func TestEndToEndServer(t *testing.T) {
	st, err := sqlite.Open("file:e2e_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	cfg := config.Config{
		Addr:        ":0",
		APIKey:      "e2e-key",
		AdminSecret: "admin",
		Topics:      true,
	}
	server := httpapp.NewServer(st, gate.New(cfg.APIKey), cfg)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	httpServer := &http.Server{Handler: server}
	go func() {
		_ = httpServer.Serve(listener)
	}()
	defer httpServer.Close()

	baseURL := "http://" + listener.Addr().String()

	body, _ := json.Marshal(map[string]any{
		"author":      "Ada",
		"author_code": strings.Repeat("a", 64),
		"title":       "E2E Post",
		"body":        "Posted over a real socket.",
		"topic_id":    0,
	})
	req, _ := http.NewRequest(http.MethodPost, baseURL+"/api/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(gate.SecretHeader, "e2e-key")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("post status %d: %s", resp.StatusCode, string(b))
	}
	resp.Body.Close()

	resp, err = http.Get(baseURL + "/")
	if err != nil {
		t.Fatalf("get banner: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("banner status %d: %s", resp.StatusCode, string(b))
	}
	var banner map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&banner); err != nil {
		t.Fatalf("decode banner: %v", err)
	}
	resp.Body.Close()
	if banner["project"] != "storyboard-app" {
		t.Fatalf("unexpected banner: %v", banner)
	}

	resp, err = http.Get(baseURL + "/api/posts")
	if err != nil {
		t.Fatalf("get posts: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("posts status %d: %s", resp.StatusCode, string(b))
	}
	if strings.Contains(string(b), "author_code") {
		t.Fatalf("author_code leaked over the wire: %s", string(b))
	}
}
