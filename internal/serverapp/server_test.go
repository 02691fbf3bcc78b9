package serverapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tech2hard/taskly/internal/auth"
	"github.com/tech2hard/taskly/internal/config"
)

type fakeVerifier struct {
	tokens map[string]auth.Identity
}

func (f *fakeVerifier) Verify(_ context.Context, idToken string) (auth.Identity, error) {
	id, ok := f.tokens[idToken]
	if !ok {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return id, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	verifier := &fakeVerifier{tokens: map[string]auth.Identity{
		"tok-alice": {UID: "u-alice", Email: "alice@example.com", DisplayName: "Alice"},
		"tok-bob":   {UID: "u-bob", Email: "bob@example.com", DisplayName: "Bob"},
	}}
	h, err := NewHandler(Options{
		Config:   config.Default(),
		Logger:   log.New(io.Discard, "", 0),
		Verifier: verifier,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var parsed map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp, parsed
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "taskly", body["service"])
}

func TestAPIRejectsMissingToken(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/todos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/todos", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthSessionEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/session", "", map[string]string{"idToken": "tok-alice"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "u-alice", body["id"])
	assert.Equal(t, "alice@example.com", body["email"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/session", "", map[string]string{"idToken": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAndListTodos(t *testing.T) {
	srv := newTestServer(t)

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/api/todos", "tok-alice", map[string]any{
		"text":     "buy milk",
		"category": "shopping",
		"priority": "high",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "buy milk", created["text"])
	assert.NotEmpty(t, created["id"])

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/todos", "tok-alice", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	todos := body["todos"].([]any)
	if len(todos) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(todos))
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/todos", "tok-alice", map[string]any{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestShareFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	// bob signs in once so his profile exists for the email lookup
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/todos", "tok-bob", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/api/todos", "tok-alice", map[string]any{"text": "shared task"})
	todoID := created["id"].(string)

	resp, inv := doJSON(t, http.MethodPost, srv.URL+fmt.Sprintf("/api/todos/%s/share", todoID), "tok-alice", map[string]any{
		"email":      "bob@example.com",
		"permission": "edit",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	inviteID := inv["id"].(string)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/invitations", "tok-bob", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	invs := body["invitations"].([]any)
	if len(invs) != 1 {
		t.Fatalf("expected 1 invitation, got %d", len(invs))
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+fmt.Sprintf("/api/invitations/%s/respond", inviteID), "tok-bob", map[string]any{
		"todoId": todoID,
		"accept": true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/todos", "tok-bob", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	todos := body["todos"].([]any)
	if len(todos) != 1 {
		t.Fatalf("expected 1 shared todo, got %d", len(todos))
	}
	shared := todos[0].(map[string]any)
	assert.Equal(t, true, shared["isShared"])
	assert.Equal(t, "alice@example.com", shared["ownerEmail"])
	sharedID := shared["sharedId"].(string)

	// alice sees bob on the holder list
	resp, body = doJSON(t, http.MethodGet, srv.URL+fmt.Sprintf("/api/todos/%s/shared-users", todoID), "tok-alice", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	holders := body["sharedUsers"].([]any)
	if len(holders) != 1 {
		t.Fatalf("expected 1 holder, got %d", len(holders))
	}

	// bob is not the original owner, so his view of the list is empty
	resp, body = doJSON(t, http.MethodGet, srv.URL+fmt.Sprintf("/api/todos/%s/shared-users", todoID), "tok-bob", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["sharedUsers"])

	resp, _ = doJSON(t, http.MethodPatch, srv.URL+fmt.Sprintf("/api/shared/%s/permission", sharedID), "tok-alice", map[string]any{
		"todoId":     todoID,
		"email":      "bob@example.com",
		"permission": "view",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+fmt.Sprintf("/api/shared/%s?todoId=%s&userId=u-bob", sharedID, todoID), "tok-alice", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/todos", "tok-bob", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["todos"])
}

func TestToggleAndDeleteOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/api/todos", "tok-alice", map[string]any{"text": "finish report"})
	todoID := created["id"].(string)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+fmt.Sprintf("/api/todos/%s/toggle", todoID), "tok-alice", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/todos?status=completed", "tok-alice", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	todos := body["todos"].([]any)
	if len(todos) != 1 {
		t.Fatalf("expected 1 completed todo, got %d", len(todos))
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/todos/"+todoID, "tok-alice", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/todos", "tok-alice", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["todos"])
}

func TestSuggestRequiresText(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/suggest", "tok-alice", map[string]any{"text": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// no API key configured: the endpoint degrades to the fixed fallback
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/suggest", "tok-alice", map[string]any{"text": "plan trip"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Error generating AI response.", body["suggestion"])
}
