package user

import (
	"context"
	"errors"

	"github.com/tech2hard/taskly/internal/model"
)

var ErrNotFound = errors.New("user not found")

// Repo stores provider identities. Upsert runs on every sign-in; FindByEmail
// is the join every sharing operation starts from.
type Repo interface {
	Upsert(ctx context.Context, p model.UserProfile) error
	GetByID(ctx context.Context, uid string) (model.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (model.UserProfile, error)
	List(ctx context.Context) ([]model.UserProfile, error)
}
