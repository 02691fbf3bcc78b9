package model

import "time"

// UserProfile mirrors the auth provider's identity into the store. The
// document lives twice: in users keyed by uid, and in userProfiles keyed by
// email, which is the join key every sharing lookup uses.
type UserProfile struct {
	ID          string    `firestore:"-" json:"id"`
	Email       string    `firestore:"email" json:"email"`
	DisplayName string    `firestore:"displayName,omitempty" json:"displayName,omitempty"`
	LastUpdated time.Time `firestore:"lastUpdated" json:"lastUpdated"`
}
