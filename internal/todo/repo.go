package todo

import (
	"context"
	"errors"
	"strings"

	"github.com/tech2hard/taskly/internal/model"
)

var (
	ErrNotFound  = errors.New("todo not found")
	ErrEmptyText = errors.New("todo text must not be empty")
)

// Patch is a partial update of an owned todo. nil pointer means "no change";
// for DueDate an empty string clears the field.
type Patch struct {
	Text        *string         `json:"text,omitempty"`
	Description *string         `json:"description,omitempty"`
	Completed   *bool           `json:"completed,omitempty"`
	Category    *model.Category `json:"category,omitempty"`
	DueDate     *string         `json:"dueDate,omitempty"`
	Priority    *model.Priority `json:"priority,omitempty"`
}

// Repo is the store adapter for owned todos. Every call is a single-document
// round-trip; there are no cross-document transactions.
type Repo interface {
	Create(ctx context.Context, t model.Todo) (model.Todo, error)
	Get(ctx context.Context, id string) (model.Todo, error)
	Update(ctx context.Context, id string, p Patch) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, userID string) ([]model.Todo, error)
}

func validate(t model.Todo) error {
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

// validatePatch holds updates to the same text rule as creation: an edit
// cannot blank a title that Create would refuse.
func validatePatch(p Patch) error {
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

func applyPatch(t *model.Todo, p Patch) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.DueDate != nil {
		if *p.DueDate == "" {
			t.DueDate = nil
		} else {
			t.DueDate = p.DueDate
		}
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
}
