package auth

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tech2hard/taskly/internal/user"
)

type fakeVerifier struct {
	identity Identity
	err      error
}

func (f fakeVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	if f.err != nil {
		return Identity{}, f.err
	}
	return f.identity, nil
}

func newServiceForTests(v TokenVerifier) (*Service, *user.MemoryRepo) {
	users := user.NewMemoryRepo()
	return NewService(v, users, log.New(io.Discard, "", 0)), users
}

func TestService_Authenticate_UpsertsProfile(t *testing.T) {
	svc, users := newServiceForTests(fakeVerifier{identity: Identity{
		UID: "uid-a", Email: "a@example.com", DisplayName: "Alice",
	}})

	id, err := svc.Authenticate(context.Background(), "tok")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id.UID != "uid-a" {
		t.Fatalf("unexpected identity: %+v", id)
	}

	p, err := users.GetByID(context.Background(), "uid-a")
	if err != nil {
		t.Fatalf("expected profile to be created: %v", err)
	}
	if p.Email != "a@example.com" || p.DisplayName != "Alice" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestService_Authenticate_RejectsEmptyEmail(t *testing.T) {
	svc, _ := newServiceForTests(fakeVerifier{identity: Identity{UID: "uid-x"}})

	if _, err := svc.Authenticate(context.Background(), "tok"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestService_RequireAPI(t *testing.T) {
	svc, _ := newServiceForTests(fakeVerifier{identity: Identity{
		UID: "uid-a", Email: "a@example.com",
	}})

	var got Identity
	h := svc.RequireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.UID != "uid-a" {
		t.Fatalf("identity not attached to context: %+v", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/todos", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestService_RequireAPI_BadToken(t *testing.T) {
	svc, _ := newServiceForTests(fakeVerifier{err: ErrInvalidToken})

	h := svc.RequireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
