package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
)

// FriendServiceInterface defines the contract for friendship operations.
type FriendServiceInterface interface {
	SendRequest(ctx context.Context, caller *models.Caller, recipientID uuid.UUID) (*models.Relationship, error)
	RespondToRequest(ctx context.Context, caller *models.Caller, requestID uuid.UUID, accept bool) (*models.Relationship, error)
	CancelRequest(ctx context.Context, caller *models.Caller, requestID uuid.UUID) error
	RemoveFriendship(ctx context.Context, caller *models.Caller, otherUserID uuid.UUID) error
	ListFriends(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error)
	ListIncomingRequests(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error)
	ListOutgoingRequests(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error)
	SearchCandidateUsers(ctx context.Context, caller *models.Caller, query string) ([]models.UserSummary, error)
	IsFriend(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
}

// FriendChecker is a lightweight interface for friendship checks used by the gift service.
type FriendChecker interface {
	IsFriend(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
}

// NotificationServiceInterface defines the contract for notification operations.
type NotificationServiceInterface interface {
	List(ctx context.Context, caller *models.Caller, params models.NotificationListParams) ([]models.Notification, error)
	MarkRead(ctx context.Context, caller *models.Caller, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, caller *models.Caller) (int64, error)
	Delete(ctx context.Context, caller *models.Caller, notificationID uuid.UUID) error
	UnreadCount(ctx context.Context, caller *models.Caller) (int, error)
}

// Emitter appends notifications on behalf of other services.
type Emitter interface {
	Emit(ctx context.Context, e Emission) (*models.Notification, error)
}

// GiftServiceInterface defines the contract for friend gift browsing and booking.
type GiftServiceInterface interface {
	ListFriendGifts(ctx context.Context, caller *models.Caller, friendID uuid.UUID) ([]models.Gift, error)
	Book(ctx context.Context, caller *models.Caller, giftID uuid.UUID) (*models.Booking, error)
	Unbook(ctx context.Context, caller *models.Caller, giftID uuid.UUID) error
}

// ProfileServiceInterface defines the contract for profile operations.
type ProfileServiceInterface interface {
	GetCaller(ctx context.Context, userID uuid.UUID) (*models.Caller, error)
	UploadAvatar(ctx context.Context, caller *models.Caller, filename string, body io.Reader) (string, error)
}

// ObjectStorage persists uploaded files and returns their public URL.
type ObjectStorage interface {
	Save(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// RedisClient is the subset of redis commands the services use.
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
}
