package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tech2hard/taskly/internal/model"
)

func TestUpsertAndLookup(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	if err := r.Upsert(ctx, model.UserProfile{ID: "u1", Email: "a@example.com", DisplayName: "A"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := r.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	assert.Equal(t, "a@example.com", got.Email)
	assert.False(t, got.LastUpdated.IsZero())

	byEmail, err := r.FindByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	assert.Equal(t, "u1", byEmail.ID)
}

func TestUpsertOverwritesExistingProfile(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	if err := r.Upsert(ctx, model.UserProfile{ID: "u1", Email: "a@example.com"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := r.Upsert(ctx, model.UserProfile{ID: "u1", Email: "a@example.com", DisplayName: "Renamed"}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	got, err := r.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	assert.Equal(t, "Renamed", got.DisplayName)

	all, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	assert.Len(t, all, 1)
}

func TestLookupUnknownUser(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	if _, err := r.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
