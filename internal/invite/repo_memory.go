package invite

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tech2hard/taskly/internal/model"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]map[string]model.Invitation
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: map[string]map[string]model.Invitation{}}
}

func (r *MemoryRepo) Add(ctx context.Context, userID string, inv model.Invitation) (model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv.ID = uuid.NewString()
	if r.byUser[userID] == nil {
		r.byUser[userID] = map[string]model.Invitation{}
	}
	r.byUser[userID][inv.ID] = inv
	return inv, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, inviteID string) (model.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.byUser[userID][inviteID]
	if !ok {
		return model.Invitation{}, ErrNotFound
	}
	return inv, nil
}

func (r *MemoryRepo) ListPending(ctx context.Context, userID string) ([]model.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Invitation, 0)
	for _, inv := range r.byUser[userID] {
		if inv.Status == model.InviteStatusPending {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, inviteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byUser[userID], inviteID)
	return nil
}
