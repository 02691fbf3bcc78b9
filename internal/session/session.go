// Package session holds the per-user aggregator: the merged owned+shared
// task list one signed-in client works against. The local cache only
// changes after the store confirms a write, except permission updates,
// which apply optimistically and roll back on failure.
package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/tech2hard/taskly/internal/auth"
	"github.com/tech2hard/taskly/internal/invite"
	"github.com/tech2hard/taskly/internal/model"
	"github.com/tech2hard/taskly/internal/share"
	"github.com/tech2hard/taskly/internal/todo"
)

// Entry is one row of the merged list. Owned entries route mutations by ID;
// shared entries additionally carry SharedID to reach the holder's own copy.
type Entry struct {
	ID          string         `json:"id"`
	Text        string         `json:"text"`
	Description string         `json:"description,omitempty"`
	Completed   bool           `json:"completed"`
	Category    model.Category `json:"category"`
	DueDate     *string        `json:"dueDate,omitempty"`
	Priority    model.Priority `json:"priority"`
	CreatedAt   time.Time      `json:"createdAt"`

	IsOwner       bool             `json:"isOwner,omitempty"`
	IsShared      bool             `json:"isShared,omitempty"`
	SharedID      string           `json:"sharedId,omitempty"`
	OwnerEmail    string           `json:"ownerEmail,omitempty"`
	OriginalOwner string           `json:"originalOwner,omitempty"`
	Permission    model.Permission `json:"permission,omitempty"`
}

// CreateInput is what the task form submits.
type CreateInput struct {
	Text        string         `json:"text"`
	Description string         `json:"description"`
	Category    model.Category `json:"category"`
	DueDate     *string        `json:"dueDate"`
	Priority    model.Priority `json:"priority"`
}

type Session struct {
	identity auth.Identity
	todos    todo.Repo
	shares   share.Repo
	invites  *invite.Service
	manager  *share.Manager
	logger   *log.Logger

	mu          sync.Mutex
	entries     []Entry
	invitations []model.Invitation
	holders     map[string][]share.SharedUser
}

func New(identity auth.Identity, todos todo.Repo, shares share.Repo, invites *invite.Service, manager *share.Manager, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		identity: identity,
		todos:    todos,
		shares:   shares,
		invites:  invites,
		manager:  manager,
		logger:   logger,
		holders:  map[string][]share.SharedUser{},
	}
}

// Start runs the session-start sequence: load owned and shared tasks, then
// load pending invitations.
func (s *Session) Start(ctx context.Context) error {
	if err := s.Reload(ctx); err != nil {
		return err
	}
	return s.RefreshInvitations(ctx)
}

// Reload replaces the cached list with the store's current view, owned
// entries first, shared entries after.
func (s *Session) Reload(ctx context.Context) error {
	owned, err := s.todos.ListByOwner(ctx, s.identity.UID)
	if err != nil {
		return err
	}
	shared, err := s.shares.List(ctx, s.identity.UID)
	if err != nil {
		return err
	}

	entries := make([]Entry, 0, len(owned)+len(shared))
	for _, t := range owned {
		entries = append(entries, ownedEntry(t))
	}
	for _, rec := range shared {
		entries = append(entries, sharedEntry(rec))
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

func (s *Session) RefreshInvitations(ctx context.Context) error {
	pending, err := s.invites.ListPending(ctx, s.identity.Email)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.invitations = pending
	s.mu.Unlock()
	return nil
}

func (s *Session) Identity() auth.Identity {
	return s.identity
}

func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Session) Invitations() []model.Invitation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Invitation, len(s.invitations))
	copy(out, s.invitations)
	return out
}

// Add creates an owned task. The local list grows only after the store
// confirms the write; new tasks go to the front.
func (s *Session) Add(ctx context.Context, in CreateInput) (Entry, error) {
	category := in.Category
	if category == "" {
		category = model.CategoryPersonal
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	t := model.Todo{
		Text:          strings.TrimSpace(in.Text),
		Description:   in.Description,
		Category:      category,
		DueDate:       in.DueDate,
		Priority:      priority,
		CreatedAt:     time.Now(),
		UserID:        s.identity.UID,
		Owner:         s.identity.Email,
		OriginalOwner: s.identity.Email,
	}
	created, err := s.todos.Create(ctx, t)
	if err != nil {
		return Entry{}, err
	}

	e := ownedEntry(created)
	s.mu.Lock()
	s.entries = append([]Entry{e}, s.entries...)
	s.mu.Unlock()
	return e, nil
}

// Toggle flips completion. A view-only shared entry is silently left alone.
// Shared entries write their own snapshot's completed flag; the owner's
// document is never touched.
func (s *Session) Toggle(ctx context.Context, id string) error {
	e, ok := s.find(id)
	if !ok {
		return nil
	}
	if e.IsShared && e.Permission == model.PermissionView {
		return nil
	}

	next := !e.Completed
	if e.IsShared {
		if err := s.shares.SetCompleted(ctx, s.identity.UID, e.SharedID, next); err != nil {
			s.logger.Printf("session: toggle shared %s: %v", e.SharedID, err)
			return err
		}
	} else {
		if err := s.todos.Update(ctx, id, todo.Patch{Completed: &next}); err != nil {
			s.logger.Printf("session: toggle %s: %v", id, err)
			return err
		}
	}

	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].ID == id && s.entries[i].SharedID == e.SharedID {
			s.entries[i].Completed = next
		}
	}
	s.mu.Unlock()
	return nil
}

// Edit updates task fields. A view-only shared entry is silently left
// alone. The write always lands on the owned document, so a holder with
// edit permission mutates the original while their own snapshot keeps the
// old values until re-shared.
func (s *Session) Edit(ctx context.Context, id string, p todo.Patch) error {
	e, ok := s.find(id)
	if !ok {
		return nil
	}
	if e.IsShared && e.Permission == model.PermissionView {
		return nil
	}

	if err := s.todos.Update(ctx, id, p); err != nil {
		s.logger.Printf("session: edit %s: %v", id, err)
		return err
	}

	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			applyPatchToEntry(&s.entries[i], p)
		}
	}
	s.mu.Unlock()
	return nil
}

// Delete removes the caller's own copy. For shared entries only the shared
// record goes; the owner's document survives. For owned entries the task
// document goes while other users' shared copies survive.
func (s *Session) Delete(ctx context.Context, id string, isShared bool, sharedID string) error {
	if isShared && sharedID != "" {
		if err := s.shares.Delete(ctx, s.identity.UID, sharedID); err != nil {
			s.logger.Printf("session: delete shared %s: %v", sharedID, err)
			return err
		}
		s.mu.Lock()
		s.entries = filterEntries(s.entries, func(e Entry) bool { return e.SharedID != sharedID })
		s.mu.Unlock()
		return nil
	}

	// Only entries in the caller's own list are deletable; an arbitrary id
	// must not reach another user's document.
	e, ok := s.find(id)
	if !ok || e.IsShared {
		return nil
	}
	if err := s.todos.Delete(ctx, id); err != nil {
		s.logger.Printf("session: delete %s: %v", id, err)
		return err
	}
	s.mu.Lock()
	s.entries = filterEntries(s.entries, func(e Entry) bool { return e.IsShared || e.ID != id })
	s.mu.Unlock()
	return nil
}

// Share invites another user to this task.
func (s *Session) Share(ctx context.Context, todoID, recipientEmail string, p model.Permission) (model.Invitation, error) {
	return s.invites.Create(ctx, todoID, s.identity.Email, recipientEmail, p)
}

// RespondInvitation accepts or declines, then refreshes the pending list.
func (s *Session) RespondInvitation(ctx context.Context, inviteID, todoID string, accept bool) error {
	if err := s.invites.Resolve(ctx, s.identity.Email, inviteID, todoID, accept); err != nil {
		return err
	}
	if accept {
		if err := s.Reload(ctx); err != nil {
			s.logger.Printf("session: reload after accept: %v", err)
		}
	}
	return s.RefreshInvitations(ctx)
}

// SharedUsers lists holders of one of this user's tasks and caches the
// result for later optimistic permission updates.
func (s *Session) SharedUsers(ctx context.Context, todoID string) []share.SharedUser {
	holders := s.manager.ListSharedUsers(ctx, todoID, s.identity.Email)
	s.mu.Lock()
	s.holders[todoID] = holders
	s.mu.Unlock()

	out := make([]share.SharedUser, len(holders))
	copy(out, holders)
	return out
}

// UpdatePermission applies the new level to the cached holder first, then
// writes through. If the store write fails the cached value is restored, so
// the list the owner sees matches its last confirmed state.
func (s *Session) UpdatePermission(ctx context.Context, todoID, recipientEmail, sharedID string, p model.Permission) error {
	prev, had := s.setCachedPermission(todoID, sharedID, p)

	if err := s.manager.UpdatePermission(ctx, recipientEmail, sharedID, p); err != nil {
		if had {
			s.setCachedPermission(todoID, sharedID, prev)
		}
		s.logger.Printf("session: update permission %s: %v", sharedID, err)
		return err
	}
	return nil
}

// RevokeAccess removes a holder's copy and drops them from the cached list.
func (s *Session) RevokeAccess(ctx context.Context, todoID, recipientUserID, sharedID string) error {
	if err := s.manager.Revoke(ctx, recipientUserID, sharedID); err != nil {
		return err
	}
	s.mu.Lock()
	s.holders[todoID] = filterHolders(s.holders[todoID], sharedID)
	s.mu.Unlock()
	return nil
}

// Filtered returns the cached list narrowed and ordered for display.
func (s *Session) Filtered(status StatusFilter, category model.Category, key SortKey) []Entry {
	return FilterAndSort(s.Entries(), status, category, key)
}

func (s *Session) find(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func (s *Session) setCachedPermission(todoID, sharedID string, p model.Permission) (prev model.Permission, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hs := s.holders[todoID]
	for i := range hs {
		if hs[i].SharedID == sharedID {
			prev = hs[i].Permission
			hs[i].Permission = p
			return prev, true
		}
	}
	return "", false
}

func ownedEntry(t model.Todo) Entry {
	return Entry{
		ID:            t.ID,
		Text:          t.Text,
		Description:   t.Description,
		Completed:     t.Completed,
		Category:      t.Category,
		DueDate:       t.DueDate,
		Priority:      t.Priority,
		CreatedAt:     t.CreatedAt,
		IsOwner:       true,
		OwnerEmail:    t.Owner,
		OriginalOwner: t.OriginalOwner,
	}
}

func sharedEntry(rec model.SharedTodo) Entry {
	t := rec.TodoData
	return Entry{
		ID:            rec.TodoID,
		Text:          t.Text,
		Description:   t.Description,
		Completed:     t.Completed,
		Category:      t.Category,
		DueDate:       t.DueDate,
		Priority:      t.Priority,
		CreatedAt:     t.CreatedAt,
		IsShared:      true,
		SharedID:      rec.ID,
		OwnerEmail:    rec.OwnerEmail,
		OriginalOwner: rec.OriginalOwner,
		Permission:    rec.Permission,
	}
}

func applyPatchToEntry(e *Entry, p todo.Patch) {
	if p.Text != nil {
		e.Text = *p.Text
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Completed != nil {
		e.Completed = *p.Completed
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.DueDate != nil {
		if *p.DueDate == "" {
			e.DueDate = nil
		} else {
			e.DueDate = p.DueDate
		}
	}
	if p.Priority != nil {
		e.Priority = *p.Priority
	}
}

func filterEntries(entries []Entry, keep func(Entry) bool) []Entry {
	out := entries[:0]
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func filterHolders(hs []share.SharedUser, sharedID string) []share.SharedUser {
	out := hs[:0]
	for _, h := range hs {
		if h.SharedID != sharedID {
			out = append(out, h)
		}
	}
	return out
}
