package share

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/tech2hard/taskly/internal/model"
	"github.com/tech2hard/taskly/internal/todo"
	"github.com/tech2hard/taskly/internal/user"
)

// SharedUser is one holder of a shared copy, as shown to the original owner.
type SharedUser struct {
	UserID     string           `json:"userId"`
	Email      string           `json:"email"`
	SharedID   string           `json:"sharedId"`
	Permission model.Permission `json:"permission"`
	AddedAt    time.Time        `json:"addedAt"`
}

// Manager enforces the original-owner contract over shared copies: only the
// user who first created a task may see, re-permission, or revoke its
// holders.
type Manager struct {
	todos  todo.Repo
	users  user.Repo
	shares Repo
	logger *log.Logger
}

func NewManager(todos todo.Repo, users user.Repo, shares Repo, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{todos: todos, users: users, shares: shares, logger: logger}
}

// ListSharedUsers enumerates everyone holding a shared copy of todoID,
// newest first. It fails closed: any authorization or lookup problem logs
// and returns an empty list rather than an error.
func (m *Manager) ListSharedUsers(ctx context.Context, todoID, requesterEmail string) []SharedUser {
	t, err := m.todos.Get(ctx, todoID)
	if err != nil {
		m.logger.Printf("share: list holders of %s: %v", todoID, err)
		return []SharedUser{}
	}
	if requesterEmail == "" || t.OriginalOwner != requesterEmail {
		m.logger.Printf("share: %s is not the original owner of %s", requesterEmail, todoID)
		return []SharedUser{}
	}

	holders, err := m.shares.FindHoldersByTask(ctx, todoID)
	if err != nil {
		m.logger.Printf("share: find holders of %s: %v", todoID, err)
		return []SharedUser{}
	}

	out := make([]SharedUser, 0, len(holders))
	for _, h := range holders {
		p, err := m.users.GetByID(ctx, h.UserID)
		if err != nil {
			m.logger.Printf("share: resolve holder %s: %v", h.UserID, err)
			continue
		}
		if p.Email == t.OriginalOwner {
			continue
		}
		out = append(out, SharedUser{
			UserID:     h.UserID,
			Email:      p.Email,
			SharedID:   h.SharedID,
			Permission: h.Permission,
			AddedAt:    h.AddedAt,
		})
	}

	// Most recently added first; a missing addedAt sorts as the zero time.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out
}

// UpdatePermission changes a holder's access level, keeping the record's
// top-level permission and the embedded snapshot copy consistent.
func (m *Manager) UpdatePermission(ctx context.Context, recipientEmail, sharedID string, p model.Permission) error {
	recipient, err := m.users.FindByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("resolve recipient %s: %w", recipientEmail, err)
	}

	if _, err := m.shares.Get(ctx, recipient.ID, sharedID); err != nil {
		return err
	}
	return m.shares.UpdatePermission(ctx, recipient.ID, sharedID, p)
}

// Revoke deletes the holder's shared copy. Revoking an already-revoked
// record is a no-op.
func (m *Manager) Revoke(ctx context.Context, recipientUserID, sharedID string) error {
	return m.shares.Delete(ctx, recipientUserID, sharedID)
}
