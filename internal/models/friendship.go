package models

import (
	"time"

	"github.com/google/uuid"
)

type RelationshipStatus string

const (
	RelationshipStatusPending  RelationshipStatus = "pending"
	RelationshipStatusAccepted RelationshipStatus = "accepted"
)

func (s RelationshipStatus) Valid() bool {
	return s == RelationshipStatusPending || s == RelationshipStatusAccepted
}

// Relationship is a directed request edge between two users. At most one
// exists for any unordered pair.
type Relationship struct {
	ID          uuid.UUID          `json:"id"`
	RequesterID uuid.UUID          `json:"requester_id"`
	RecipientID uuid.UUID          `json:"recipient_id"`
	Status      RelationshipStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Involves reports whether userID is either party of the edge.
func (r *Relationship) Involves(userID uuid.UUID) bool {
	return r.RequesterID == userID || r.RecipientID == userID
}

// OtherParty returns the counterparty of userID.
func (r *Relationship) OtherParty(userID uuid.UUID) uuid.UUID {
	if r.RequesterID == userID {
		return r.RecipientID
	}
	return r.RequesterID
}

// RelationshipWithUser pairs an edge with the other party's profile, as seen
// from the user the list was built for.
type RelationshipWithUser struct {
	Relationship
	Other UserSummary `json:"user"`
}
