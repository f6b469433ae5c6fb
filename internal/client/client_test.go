package client

import (
	"testing"
)

func TestGenerateAuthorCode(t *testing.T) {
	code := GenerateAuthorCode()

	if len(code) != 64 {
		t.Fatalf("expected 64 characters, got %d", len(code))
	}
	for _, c := range code {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			t.Fatalf("expected hex characters only, got %q", c)
		}
	}

	// Codes are edit credentials, so two calls must not collide
	if GenerateAuthorCode() == code {
		t.Fatal("expected distinct codes")
	}
}

func TestClientNew(t *testing.T) {
	c := New("https://example.com", "secret")

	if c.BaseURL != "https://example.com" {
		t.Errorf("expected base URL 'https://example.com', got '%s'", c.BaseURL)
	}
	if c.APIKey != "secret" {
		t.Errorf("expected API key to be set")
	}
	if c.HTTPClient == nil {
		t.Error("expected non-nil HTTP client")
	}
}
