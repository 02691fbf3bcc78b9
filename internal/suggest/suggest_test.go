package suggest

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(url string) *Client {
	return NewClient("test-key", url, "gpt-3.5-turbo", 250, log.New(io.Discard, "", 0))
}

func TestGenerateReturnsTrimmedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  1. Start early.\n2. Finish.  "}},
			},
		})
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Generate(context.Background(), "write report", "")
	assert.Equal(t, "1. Start early.\n2. Finish.", got)
}

func TestGenerateFallsBackOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "boom"}})
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Generate(context.Background(), "write report", "draft exists")
	assert.Equal(t, FallbackMessage, got)
}

func TestGenerateFallsBackOnEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Generate(context.Background(), "write report", "")
	assert.Equal(t, FallbackMessage, got)
}

func TestGenerateFallsBackWithoutAPIKey(t *testing.T) {
	c := NewClient("", "http://127.0.0.1:0", "", 0, log.New(io.Discard, "", 0))
	got := c.Generate(context.Background(), "anything", "")
	assert.Equal(t, FallbackMessage, got)
}

func TestGenerateFallsBackOnUnreachableHost(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	got := c.Generate(context.Background(), "anything", "")
	assert.Equal(t, FallbackMessage, got)
}
