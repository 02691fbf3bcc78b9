package todo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tech2hard/taskly/internal/model"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	todos map[string]model.Todo
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{todos: map[string]model.Todo{}}
}

func (r *MemoryRepo) Create(ctx context.Context, t model.Todo) (model.Todo, error) {
	if err := validate(t); err != nil {
		return model.Todo{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = uuid.NewString()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.todos[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok {
		return model.Todo{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, p Patch) error {
	if err := validatePatch(p); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return ErrNotFound
	}
	applyPatch(&t, p)
	r.todos[id] = t
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.todos, id)
	return nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, userID string) ([]model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Todo, 0)
	for _, t := range r.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}
