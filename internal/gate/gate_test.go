package gate

import (
	"errors"
	"testing"
)

func TestCheckSecret(t *testing.T) {
	g := New("top-secret")

	if err := g.CheckSecret("top-secret"); err != nil {
		t.Fatalf("expected correct secret to pass: %v", err)
	}
	if err := g.CheckSecret("wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := g.CheckSecret(""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty header, got %v", err)
	}
}

func TestCheckHoneypot(t *testing.T) {
	g := New("top-secret")

	tests := []struct {
		name    string
		payload map[string]any
		wantBot bool
	}{
		{"absent", map[string]any{"title": "ok"}, false},
		{"empty string", map[string]any{"email": ""}, false},
		{"null", map[string]any{"email": nil}, false},
		{"filled", map[string]any{"email": "bot@example.com"}, true},
		{"non-string", map[string]any{"email": 42}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.CheckHoneypot(tt.payload)
			if tt.wantBot && !errors.Is(err, ErrSuspectedBot) {
				t.Fatalf("expected ErrSuspectedBot, got %v", err)
			}
			if !tt.wantBot && err != nil {
				t.Fatalf("expected pass, got %v", err)
			}
		})
	}
}
