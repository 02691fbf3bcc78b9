package share

import (
	"context"
	"fmt"

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

func (r *FirestoreRepo) coll(userID string) *firestore.CollectionRef {
	return r.client.Collection(store.CollUsers).Doc(userID).Collection(store.CollSharedTodos)
}

func (r *FirestoreRepo) Add(ctx context.Context, userID string, rec model.SharedTodo) (model.SharedTodo, error) {
	ref, _, err := r.coll(userID).Add(ctx, rec)
	if err != nil {
		return model.SharedTodo{}, fmt.Errorf("add shared todo for %s: %w", userID, err)
	}
	rec.ID = ref.ID
	return rec, nil
}

func (r *FirestoreRepo) Get(ctx context.Context, userID, sharedID string) (model.SharedTodo, error) {
	snap, err := r.coll(userID).Doc(sharedID).Get(ctx)
	if err != nil {
		if store.IsNotFound(err) {
			return model.SharedTodo{}, ErrNotFound
		}
		return model.SharedTodo{}, fmt.Errorf("get shared todo %s: %w", sharedID, err)
	}
	return decodeShared(snap)
}

func (r *FirestoreRepo) List(ctx context.Context, userID string) ([]model.SharedTodo, error) {
	iter := r.coll(userID).Documents(ctx)
	defer iter.Stop()

	out := make([]model.SharedTodo, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list shared todos for %s: %w", userID, err)
		}
		rec, err := decodeShared(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *FirestoreRepo) UpdatePermission(ctx context.Context, userID, sharedID string, p model.Permission) error {
	_, err := r.coll(userID).Doc(sharedID).Update(ctx, []firestore.Update{
		{Path: "permission", Value: string(p)},
		{Path: "todoData.permission", Value: string(p)},
	})
	if err != nil {
		if store.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update permission %s: %w", sharedID, err)
	}
	return nil
}

func (r *FirestoreRepo) SetCompleted(ctx context.Context, userID, sharedID string, completed bool) error {
	_, err := r.coll(userID).Doc(sharedID).Update(ctx, []firestore.Update{
		{Path: "todoData.completed", Value: completed},
	})
	if err != nil {
		if store.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("set completed %s: %w", sharedID, err)
	}
	return nil
}

func (r *FirestoreRepo) Delete(ctx context.Context, userID, sharedID string) error {
	if _, err := r.coll(userID).Doc(sharedID).Delete(ctx); err != nil {
		return fmt.Errorf("delete shared todo %s: %w", sharedID, err)
	}
	return nil
}

// FindHoldersByTask runs a collection-group query across every user's
// shared_todos. This replaces the legacy scan over the whole users
// collection with an indexed lookup.
func (r *FirestoreRepo) FindHoldersByTask(ctx context.Context, todoID string) ([]Holder, error) {
	iter := r.client.CollectionGroup(store.CollSharedTodos).
		Where("todoId", "==", todoID).
		Documents(ctx)
	defer iter.Stop()

	out := make([]Holder, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("find holders of %s: %w", todoID, err)
		}
		rec, err := decodeShared(snap)
		if err != nil {
			return nil, err
		}
		// users/{uid}/shared_todos/{sharedId}
		userRef := snap.Ref.Parent.Parent
		if userRef == nil {
			continue
		}
		out = append(out, Holder{
			UserID:     userRef.ID,
			SharedID:   snap.Ref.ID,
			Permission: rec.Permission,
			AddedAt:    rec.AddedAt,
		})
	}
	return out, nil
}

func decodeShared(snap *firestore.DocumentSnapshot) (model.SharedTodo, error) {
	var rec model.SharedTodo
	if err := snap.DataTo(&rec); err != nil {
		return model.SharedTodo{}, fmt.Errorf("decode shared todo %s: %w", snap.Ref.ID, err)
	}
	rec.ID = snap.Ref.ID
	return rec, nil
}
