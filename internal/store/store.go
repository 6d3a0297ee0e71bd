// Package store defines the data-access collaborators the services depend on
// and their PostgreSQL implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the attempted write would violate a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
)

// Relationships persists friend request edges. Create must reject a second
// edge for the same unordered pair with ErrConflict.
type Relationships interface {
	Create(ctx context.Context, requesterID, recipientID uuid.UUID) (*models.Relationship, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Relationship, error)
	FindBetween(ctx context.Context, userID, otherUserID uuid.UUID) (*models.Relationship, error)
	Accept(ctx context.Context, id uuid.UUID) error
	DeletePending(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error)
	ListIncoming(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error)
	ListOutgoing(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error)
	AreFriends(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
}

// Notifications is the append-mostly log of notices keyed by recipient.
type Notifications interface {
	Insert(ctx context.Context, n models.NewNotification) (*models.Notification, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, recipientID uuid.UUID, params models.NotificationListParams) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, recipientID uuid.UUID) error
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Users interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	// SearchCandidates matches handle or email case-insensitively and skips
	// excludeID plus every user sharing an edge with excludeID.
	SearchCandidates(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]models.UserSummary, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL *string) error
}

type Gifts interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Gift, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Gift, error)
	Book(ctx context.Context, giftID, bookedBy uuid.UUID) (*models.Booking, error)
	Unbook(ctx context.Context, giftID, bookedBy uuid.UUID) error
}
