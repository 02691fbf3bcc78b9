package invite

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tech2hard/taskly/internal/model"
	"github.com/tech2hard/taskly/internal/share"
	"github.com/tech2hard/taskly/internal/todo"
	"github.com/tech2hard/taskly/internal/user"
)

// Service orchestrates the invite -> accept/decline workflow. Every step is
// an independent store call; partial completion is tolerated because each
// document write is keyed under a single recipient.
type Service struct {
	todos   todo.Repo
	users   user.Repo
	invites Repo
	shares  share.Repo

	// allowDuplicates lets more than one pending invitation exist for the
	// same (task, recipient) pair, matching the legacy behavior.
	allowDuplicates bool

	logger *log.Logger
}

func NewService(todos todo.Repo, users user.Repo, invites Repo, shares share.Repo, allowDuplicates bool, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		todos:           todos,
		users:           users,
		invites:         invites,
		shares:          shares,
		allowDuplicates: allowDuplicates,
		logger:          logger,
	}
}

// Create snapshots the task as it exists right now and files an invitation
// under the recipient. The snapshot is what the recipient will end up
// holding; later edits to the task do not reach it.
func (s *Service) Create(ctx context.Context, todoID, ownerEmail, recipientEmail string, p model.Permission) (model.Invitation, error) {
	if !p.Valid() {
		return model.Invitation{}, ErrInvalidPermission
	}

	t, err := s.todos.Get(ctx, todoID)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return model.Invitation{}, ErrTaskNotFound
		}
		return model.Invitation{}, fmt.Errorf("load task %s: %w", todoID, err)
	}

	recipient, err := s.users.FindByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return model.Invitation{}, ErrRecipientNotFound
		}
		return model.Invitation{}, fmt.Errorf("resolve recipient %s: %w", recipientEmail, err)
	}

	// Older documents predate originalOwner; fall back to the owner.
	originalOwner := t.OriginalOwner
	if originalOwner == "" {
		originalOwner = t.Owner
	}

	if !s.allowDuplicates {
		pending, err := s.invites.ListPending(ctx, recipient.ID)
		if err != nil {
			return model.Invitation{}, fmt.Errorf("check pending invitations: %w", err)
		}
		for _, inv := range pending {
			if inv.TodoID == todoID {
				return model.Invitation{}, ErrDuplicateInvite
			}
		}
	}

	inv := model.Invitation{
		TodoID:        todoID,
		TodoData:      t,
		OwnerEmail:    ownerEmail,
		OriginalOwner: originalOwner,
		Permission:    p,
		Status:        model.InviteStatusPending,
		CreatedAt:     time.Now(),
	}
	return s.invites.Add(ctx, recipient.ID, inv)
}

// ListPending returns the user's pending invitations. An unknown email is
// not an error; a user with no record simply has nothing pending.
func (s *Service) ListPending(ctx context.Context, userEmail string) ([]model.Invitation, error) {
	u, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return []model.Invitation{}, nil
		}
		return nil, fmt.Errorf("resolve user %s: %w", userEmail, err)
	}
	return s.invites.ListPending(ctx, u.ID)
}

// Resolve accepts or declines an invitation. Accepting copies the snapshot
// into the recipient's shared records with a fresh addedAt; either way the
// invitation is deleted afterward. Resolving an invitation that has already
// vanished just clears it.
func (s *Service) Resolve(ctx context.Context, userEmail, inviteID, todoID string, accept bool) error {
	u, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("resolve user %s: %w", userEmail, err)
	}

	inv, err := s.invites.Get(ctx, u.ID, inviteID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("load invitation %s: %w", inviteID, err)
	}
	missing := errors.Is(err, ErrNotFound)

	if accept && !missing {
		rec := model.SharedTodo{
			TodoID:        todoID,
			TodoData:      inv.TodoData,
			OwnerEmail:    inv.OwnerEmail,
			OriginalOwner: inv.OriginalOwner,
			Permission:    inv.Permission,
			AddedAt:       time.Now(),
		}
		if _, err := s.shares.Add(ctx, u.ID, rec); err != nil {
			return fmt.Errorf("create shared copy: %w", err)
		}
	}

	if err := s.invites.Delete(ctx, u.ID, inviteID); err != nil {
		return fmt.Errorf("delete invitation %s: %w", inviteID, err)
	}
	return nil
}
