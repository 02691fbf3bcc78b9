package invite

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
	return r.client.Collection(store.CollUsers).Doc(userID).Collection(store.CollInvitedTodos)
}

func (r *FirestoreRepo) Add(ctx context.Context, userID string, inv model.Invitation) (model.Invitation, error) {
	ref, _, err := r.coll(userID).Add(ctx, inv)
	if err != nil {
		return model.Invitation{}, fmt.Errorf("add invitation for %s: %w", userID, err)
	}
	inv.ID = ref.ID
	return inv, nil
}

func (r *FirestoreRepo) Get(ctx context.Context, userID, inviteID string) (model.Invitation, error) {
	snap, err := r.coll(userID).Doc(inviteID).Get(ctx)
	if err != nil {
		if store.IsNotFound(err) {
			return model.Invitation{}, ErrNotFound
		}
		return model.Invitation{}, fmt.Errorf("get invitation %s: %w", inviteID, err)
	}
	var inv model.Invitation
	if err := snap.DataTo(&inv); err != nil {
		return model.Invitation{}, fmt.Errorf("decode invitation %s: %w", inviteID, err)
	}
	inv.ID = snap.Ref.ID
	return inv, nil
}

func (r *FirestoreRepo) ListPending(ctx context.Context, userID string) ([]model.Invitation, error) {
	iter := r.coll(userID).
		Where("status", "==", string(model.InviteStatusPending)).
		Documents(ctx)
	defer iter.Stop()

	out := make([]model.Invitation, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list invitations for %s: %w", userID, err)
		}
		var inv model.Invitation
		if err := snap.DataTo(&inv); err != nil {
			return nil, fmt.Errorf("decode invitation %s: %w", snap.Ref.ID, err)
		}
		inv.ID = snap.Ref.ID
		out = append(out, inv)
	}
	return out, nil
}

func (r *FirestoreRepo) Delete(ctx context.Context, userID, inviteID string) error {
	if _, err := r.coll(userID).Doc(inviteID).Delete(ctx); err != nil {
		return fmt.Errorf("delete invitation %s: %w", inviteID, err)
	}
	return nil
}
