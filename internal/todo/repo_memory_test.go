package todo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech2hard/taskly/internal/model"
)

func TestMemoryRepo_CreateGetList(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	t1, err := repo.Create(ctx, model.Todo{
		Text:          "Buy milk",
		Category:      model.CategoryShopping,
		Priority:      model.PriorityMedium,
		UserID:        "uid-a",
		Owner:         "a@example.com",
		OriginalOwner: "a@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, t1.ID)
	assert.False(t, t1.CreatedAt.IsZero())

	got, err := repo.Get(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, t1, got)

	_, err = repo.Create(ctx, model.Todo{Text: "Other user's", UserID: "uid-b"})
	require.NoError(t, err)

	mine, err := repo.ListByOwner(ctx, "uid-a")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestMemoryRepo_Create_RejectsBlankText(t *testing.T) {
	repo := NewMemoryRepo()

	_, err := repo.Create(context.Background(), model.Todo{Text: "   ", UserID: "uid-a"})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestMemoryRepo_UpdatePatch(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	due := "2024-06-01"
	created, err := repo.Create(ctx, model.Todo{
		Text: "Write report", Category: model.CategoryWork,
		Priority: model.PriorityLow, DueDate: &due, UserID: "uid-a",
	})
	require.NoError(t, err)

	text := "Write quarterly report"
	done := true
	clear := ""
	err = repo.Update(ctx, created.ID, Patch{Text: &text, Completed: &done, DueDate: &clear})
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write quarterly report", got.Text)
	assert.True(t, got.Completed)
	assert.Nil(t, got.DueDate, "empty due date clears the field")
	assert.Equal(t, model.CategoryWork, got.Category, "untouched fields keep their values")

	assert.ErrorIs(t, repo.Update(ctx, "missing", Patch{Text: &text}), ErrNotFound)
}

func TestMemoryRepo_Update_RejectsBlankText(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Todo{Text: "keep me", UserID: "uid-a"})
	require.NoError(t, err)

	blank := "   "
	err = repo.Update(ctx, created.ID, Patch{Text: &blank})
	assert.ErrorIs(t, err, ErrEmptyText)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Text)
}

func TestMemoryRepo_DeleteIsIdempotent(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Todo{Text: "temp", UserID: "uid-a"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
