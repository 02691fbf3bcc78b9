package user

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

// Upsert merges the profile into both collections: users keyed by uid and
// userProfiles keyed by email.
func (r *FirestoreRepo) Upsert(ctx context.Context, p model.UserProfile) error {
	now := time.Now()

	userDoc := r.client.Collection(store.CollUsers).Doc(p.ID)
	if _, err := userDoc.Set(ctx, map[string]any{
		"email":       p.Email,
		"displayName": p.DisplayName,
		"lastUpdated": now,
	}, firestore.MergeAll); err != nil {
		return fmt.Errorf("upsert user %s: %w", p.ID, err)
	}

	profileDoc := r.client.Collection(store.CollUserProfiles).Doc(p.Email)
	if _, err := profileDoc.Set(ctx, map[string]any{
		"email":       p.Email,
		"displayName": p.DisplayName,
		"lastUpdated": now,
	}, firestore.MergeAll); err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.Email, err)
	}
	return nil
}

func (r *FirestoreRepo) GetByID(ctx context.Context, uid string) (model.UserProfile, error) {
	snap, err := r.client.Collection(store.CollUsers).Doc(uid).Get(ctx)
	if err != nil {
		if store.IsNotFound(err) {
			return model.UserProfile{}, ErrNotFound
		}
		return model.UserProfile{}, fmt.Errorf("get user %s: %w", uid, err)
	}
	return decodeProfile(snap)
}

// FindByEmail queries users by email. When the uid-keyed document exists but
// the email-keyed mirror is missing, the mirror is backfilled so later
// lookups hit it directly.
func (r *FirestoreRepo) FindByEmail(ctx context.Context, email string) (model.UserProfile, error) {
	iter := r.client.Collection(store.CollUsers).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return model.UserProfile{}, ErrNotFound
	}
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("find user by email %s: %w", email, err)
	}

	p, err := decodeProfile(snap)
	if err != nil {
		return model.UserProfile{}, err
	}

	profileDoc := r.client.Collection(store.CollUserProfiles).Doc(email)
	if _, err := profileDoc.Get(ctx); store.IsNotFound(err) {
		_, _ = profileDoc.Set(ctx, map[string]any{
			"email":       p.Email,
			"displayName": p.DisplayName,
			"lastUpdated": time.Now(),
		}, firestore.MergeAll)
	}
	return p, nil
}

func (r *FirestoreRepo) List(ctx context.Context) ([]model.UserProfile, error) {
	iter := r.client.Collection(store.CollUsers).Documents(ctx)
	defer iter.Stop()

	var out []model.UserProfile
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		p, err := decodeProfile(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func decodeProfile(snap *firestore.DocumentSnapshot) (model.UserProfile, error) {
	var p model.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return model.UserProfile{}, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
	}
	p.ID = snap.Ref.ID
	return p, nil
}
