package model

import "time"

type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

func (p Permission) Valid() bool {
	return p == PermissionView || p == PermissionEdit
}

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusResolved InviteStatus = "resolved"
)

// Invitation is a pending share request, stored under the recipient in
// users/{uid}/invited_todos. TodoData is a snapshot taken at invite time.
type Invitation struct {
	ID            string       `firestore:"-" json:"id"`
	TodoID        string       `firestore:"todoId" json:"todoId"`
	TodoData      Todo         `firestore:"todoData" json:"todoData"`
	OwnerEmail    string       `firestore:"ownerEmail" json:"ownerEmail"`
	OriginalOwner string       `firestore:"originalOwner" json:"originalOwner"`
	Permission    Permission   `firestore:"permission" json:"permission"`
	Status        InviteStatus `firestore:"status" json:"status"`
	CreatedAt     time.Time    `firestore:"createdAt" json:"createdAt"`
}

// SharedTodo is a recipient's denormalized copy of a shared task, stored in
// users/{uid}/shared_todos. The snapshot does not track later edits to the
// owned document.
type SharedTodo struct {
	ID            string     `firestore:"-" json:"id"`
	TodoID        string     `firestore:"todoId" json:"todoId"`
	TodoData      Todo       `firestore:"todoData" json:"todoData"`
	OwnerEmail    string     `firestore:"ownerEmail" json:"ownerEmail"`
	OriginalOwner string     `firestore:"originalOwner" json:"originalOwner"`
	Permission    Permission `firestore:"permission" json:"permission"`
	AddedAt       time.Time  `firestore:"addedAt" json:"addedAt"`
}
