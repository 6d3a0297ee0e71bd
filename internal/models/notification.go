package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeFriendRequest         NotificationType = "friend_request"
	NotificationTypeFriendRequestAccepted NotificationType = "friend_request_accepted"
	NotificationTypeGiftBooked            NotificationType = "gift_booked"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeFriendRequest, NotificationTypeFriendRequestAccepted, NotificationTypeGiftBooked:
		return true
	}
	return false
}

type Notification struct {
	ID             uuid.UUID        `json:"id"`
	RecipientID    uuid.UUID        `json:"recipient_id"`
	SenderID       *uuid.UUID       `json:"sender_id,omitempty"`
	SenderUsername string           `json:"sender_username"`
	Type           NotificationType `json:"type"`
	Content        string           `json:"content"`
	RelationshipID *uuid.UUID       `json:"relationship_id,omitempty"`
	GiftID         *uuid.UUID       `json:"gift_id,omitempty"`
	IsRead         bool             `json:"is_read"`
	CreatedAt      time.Time        `json:"created_at"`
}

type NewNotification struct {
	RecipientID    uuid.UUID
	SenderID       *uuid.UUID
	Type           NotificationType
	Content        string
	RelationshipID *uuid.UUID
	GiftID         *uuid.UUID
}

type NotificationListParams struct {
	Limit      int
	Before     *time.Time
	UnreadOnly bool
}
