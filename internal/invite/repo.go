package invite

import (
	"context"
	"errors"

	"github.com/tech2hard/taskly/internal/model"
)

var (
	ErrNotFound          = errors.New("invitation not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateInvite   = errors.New("a pending invitation already exists for this recipient")
	ErrInvalidPermission = errors.New("permission must be view or edit")
)

// Repo stores invitations under the recipient's user record
// (users/{uid}/invited_todos).
type Repo interface {
	Add(ctx context.Context, userID string, inv model.Invitation) (model.Invitation, error)
	Get(ctx context.Context, userID, inviteID string) (model.Invitation, error)
	ListPending(ctx context.Context, userID string) ([]model.Invitation, error)
	Delete(ctx context.Context, userID, inviteID string) error
}
