package model

import "time"

type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryShopping Category = "shopping"
	CategoryOther    Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryShopping, CategoryOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for sorting: high first, unknown values last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Todo is an owned task document in the top-level todos collection.
// DueDate is a calendar day in YYYY-MM-DD form; nil means no due date.
type Todo struct {
	ID          string    `firestore:"-" json:"id"`
	Text        string    `firestore:"text" json:"text"`
	Description string    `firestore:"description,omitempty" json:"description,omitempty"`
	Completed   bool      `firestore:"completed" json:"completed"`
	Category    Category  `firestore:"category" json:"category"`
	DueDate     *string   `firestore:"dueDate,omitempty" json:"dueDate,omitempty"`
	Priority    Priority  `firestore:"priority" json:"priority"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`

	UserID string `firestore:"userId" json:"userId"`
	Owner  string `firestore:"owner" json:"owner"`

	// OriginalOwner is set once at creation and copied verbatim through
	// every re-share. It never changes afterwards.
	OriginalOwner string `firestore:"originalOwner" json:"originalOwner"`

	// Permission is only populated on snapshots embedded in shared copies
	// and invitations; owned documents leave it empty. Permission updates
	// write it together with the record's top-level permission field so the
	// two never diverge. Enforcement always reads the top-level field.
	Permission Permission `firestore:"permission,omitempty" json:"permission,omitempty"`
}
