package todo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/tech2hard/taskly/internal/model"
	"github.com/tech2hard/taskly/internal/store"
)

type FirestoreRepo struct {
	client *firestore.Client
}

func NewFirestoreRepo(client *firestore.Client) *FirestoreRepo {
	return &FirestoreRepo{client: client}
}

func (r *FirestoreRepo) coll() *firestore.CollectionRef {
	return r.client.Collection(store.CollTodos)
}

func (r *FirestoreRepo) Create(ctx context.Context, t model.Todo) (model.Todo, error) {
	if err := validate(t); err != nil {
		return model.Todo{}, err
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	ref, _, err := r.coll().Add(ctx, t)
	if err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	t.ID = ref.ID
	return t, nil
}

func (r *FirestoreRepo) Get(ctx context.Context, id string) (model.Todo, error) {
	snap, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		if store.IsNotFound(err) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("get todo %s: %w", id, err)
	}
	var t model.Todo
	if err := snap.DataTo(&t); err != nil {
		return model.Todo{}, fmt.Errorf("decode todo %s: %w", id, err)
	}
	t.ID = snap.Ref.ID
	return t, nil
}

// Update writes only the named fields of the patch; untouched fields keep
// their stored values.
func (r *FirestoreRepo) Update(ctx context.Context, id string, p Patch) error {
	if err := validatePatch(p); err != nil {
		return err
	}
	updates := patchUpdates(p)
	if len(updates) == 0 {
		return nil
	}
	_, err := r.coll().Doc(id).Update(ctx, updates)
	if err != nil {
		if store.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update todo %s: %w", id, err)
	}
	return nil
}

func (r *FirestoreRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.coll().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	return nil
}

func (r *FirestoreRepo) ListByOwner(ctx context.Context, userID string) ([]model.Todo, error) {
	iter := r.coll().Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	out := make([]model.Todo, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list todos for %s: %w", userID, err)
		}
		var t model.Todo
		if err := snap.DataTo(&t); err != nil {
			return nil, fmt.Errorf("decode todo %s: %w", snap.Ref.ID, err)
		}
		t.ID = snap.Ref.ID
		out = append(out, t)
	}
	return out, nil
}

func patchUpdates(p Patch) []firestore.Update {
	var updates []firestore.Update
	if p.Text != nil {
		updates = append(updates, firestore.Update{Path: "text", Value: *p.Text})
	}
	if p.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *p.Description})
	}
	if p.Completed != nil {
		updates = append(updates, firestore.Update{Path: "completed", Value: *p.Completed})
	}
	if p.Category != nil {
		updates = append(updates, firestore.Update{Path: "category", Value: string(*p.Category)})
	}
	if p.DueDate != nil {
		if *p.DueDate == "" {
			updates = append(updates, firestore.Update{Path: "dueDate", Value: firestore.Delete})
		} else {
			updates = append(updates, firestore.Update{Path: "dueDate", Value: *p.DueDate})
		}
	}
	if p.Priority != nil {
		updates = append(updates, firestore.Update{Path: "priority", Value: string(*p.Priority)})
	}
	return updates
}
