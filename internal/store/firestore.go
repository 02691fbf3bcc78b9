// Package store owns the Firestore client and the collection layout shared
// by every repository.
//
// Layout:
//
//	todos/{todoId}                        owned task documents
//	users/{uid}                           provider identities
//	users/{uid}/invited_todos/{inviteId}  pending invitations (per recipient)
//	users/{uid}/shared_todos/{sharedId}   accepted shared copies (per recipient)
//	userProfiles/{email}                  email-keyed profile mirror
package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	CollTodos        = "todos"
	CollUsers        = "users"
	CollUserProfiles = "userProfiles"
	CollInvitedTodos = "invited_todos"
	CollSharedTodos  = "shared_todos"
)

func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, errors.New("firestore: project id is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: new client: %w", err)
	}
	return client, nil
}

// IsNotFound reports whether err is the store's missing-document error.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
