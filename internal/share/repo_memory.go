package share

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tech2hard/taskly/internal/model"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]map[string]model.SharedTodo
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: map[string]map[string]model.SharedTodo{}}
}

func (r *MemoryRepo) Add(ctx context.Context, userID string, rec model.SharedTodo) (model.SharedTodo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = uuid.NewString()
	if r.byUser[userID] == nil {
		r.byUser[userID] = map[string]model.SharedTodo{}
	}
	r.byUser[userID][rec.ID] = rec
	return rec, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, sharedID string) (model.SharedTodo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byUser[userID][sharedID]
	if !ok {
		return model.SharedTodo{}, ErrNotFound
	}
	return rec, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]model.SharedTodo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.SharedTodo, 0)
	for _, rec := range r.byUser[userID] {
		out = append(out, rec)
	}
	return out, nil
}

func (r *MemoryRepo) UpdatePermission(ctx context.Context, userID, sharedID string, p model.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byUser[userID][sharedID]
	if !ok {
		return ErrNotFound
	}
	rec.Permission = p
	rec.TodoData.Permission = p
	r.byUser[userID][sharedID] = rec
	return nil
}

func (r *MemoryRepo) SetCompleted(ctx context.Context, userID, sharedID string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byUser[userID][sharedID]
	if !ok {
		return ErrNotFound
	}
	rec.TodoData.Completed = completed
	r.byUser[userID][sharedID] = rec
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, sharedID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byUser[userID], sharedID)
	return nil
}

func (r *MemoryRepo) FindHoldersByTask(ctx context.Context, todoID string) ([]Holder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Holder, 0)
	for userID, recs := range r.byUser {
		for _, rec := range recs {
			if rec.TodoID == todoID {
				out = append(out, Holder{
					UserID:     userID,
					SharedID:   rec.ID,
					Permission: rec.Permission,
					AddedAt:    rec.AddedAt,
				})
			}
		}
	}
	return out, nil
}
