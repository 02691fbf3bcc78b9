package session

import (
	"context"
	"sync"

	"github.com/tech2hard/taskly/internal/auth"
)

// Registry hands out one started Session per user. Sessions are created
// lazily on first request and kept for the life of the process.
type Registry struct {
	newSession func(auth.Identity) *Session

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(newSession func(auth.Identity) *Session) *Registry {
	return &Registry{
		newSession: newSession,
		sessions:   map[string]*Session{},
	}
}

// Get returns the caller's session, starting a fresh one if this is the
// user's first request. A failed start is not cached so the next request
// retries.
func (r *Registry) Get(ctx context.Context, id auth.Identity) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id.UID]
	r.mu.Unlock()
	if ok {
		return s, nil
	}

	s = r.newSession(id)
	if err := s.Start(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if existing, ok := r.sessions[id.UID]; ok {
		s = existing
	} else {
		r.sessions[id.UID] = s
	}
	r.mu.Unlock()
	return s, nil
}
