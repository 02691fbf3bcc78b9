package share

import (
	"context"
	"errors"
	"time"

	"github.com/tech2hard/taskly/internal/model"
)

var (
	ErrNotFound     = errors.New("shared record not found")
	ErrUserNotFound = errors.New("user not found")
)

// Holder links a shared copy back to the user who holds it. It is the unit
// the reverse index returns when enumerating who a task is shared with.
type Holder struct {
	UserID     string
	SharedID   string
	Permission model.Permission
	AddedAt    time.Time
}

// Repo stores denormalized shared copies under the recipient
// (users/{uid}/shared_todos).
type Repo interface {
	Add(ctx context.Context, userID string, rec model.SharedTodo) (model.SharedTodo, error)
	Get(ctx context.Context, userID, sharedID string) (model.SharedTodo, error)
	List(ctx context.Context, userID string) ([]model.SharedTodo, error)

	// UpdatePermission writes the top-level permission field and the copy
	// embedded in the snapshot; the two must never diverge in the store.
	UpdatePermission(ctx context.Context, userID, sharedID string, p model.Permission) error

	// SetCompleted writes only the snapshot's completion flag, leaving the
	// owned document alone.
	SetCompleted(ctx context.Context, userID, sharedID string, completed bool) error

	// Delete removes a shared copy. Deleting an absent record is not an
	// error.
	Delete(ctx context.Context, userID, sharedID string) error

	// FindHoldersByTask is the reverse index over every user's shared
	// copies for one task.
	FindHoldersByTask(ctx context.Context, todoID string) ([]Holder, error)
}
