package user

import (
	"context"
	"sync"
	"time"

	"github.com/tech2hard/taskly/internal/model"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]model.UserProfile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: map[string]model.UserProfile{}}
}

func (r *MemoryRepo) Upsert(ctx context.Context, p model.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.LastUpdated = time.Now()
	r.users[p.ID] = p
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, uid string) (model.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.users[uid]
	if !ok {
		return model.UserProfile{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) FindByEmail(ctx context.Context, email string) (model.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.users {
		if p.Email == email {
			return p, nil
		}
	}
	return model.UserProfile{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context) ([]model.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.UserProfile, 0, len(r.users))
	for _, p := range r.users {
		out = append(out, p)
	}
	return out, nil
}
