package models

import (
	"time"

	"github.com/google/uuid"
)

type Gift struct {
	ID             uuid.UUID  `json:"id"`
	OwnerID        uuid.UUID  `json:"owner_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	ImageURL       *string    `json:"image_url,omitempty"`
	Link           *string    `json:"link,omitempty"`
	ArticleNumber  *string    `json:"article_number,omitempty"`
	AdditionalInfo *string    `json:"additional_info,omitempty"`
	IsBooked       bool       `json:"is_booked"`
	BookedBy       *uuid.UUID `json:"booked_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Booking struct {
	ID        uuid.UUID `json:"id"`
	GiftID    uuid.UUID `json:"gift_id"`
	BookedBy  uuid.UUID `json:"booked_by"`
	CreatedAt time.Time `json:"created_at"`
}
