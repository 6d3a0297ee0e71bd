package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
)

const giftSelect = `SELECT g.id, g.owner_id, g.title, g.description, g.image_url, g.link,
	        g.article_number, g.additional_info, b.booked_by, g.created_at
	 FROM gifts g
	 LEFT JOIN booked_gifts b ON b.gift_id = g.id`

type PostgresGifts struct {
	db DB
}

func NewPostgresGifts(db DB) *PostgresGifts {
	return &PostgresGifts{db: db}
}

func (s *PostgresGifts) Get(ctx context.Context, id uuid.UUID) (*models.Gift, error) {
	gift := &models.Gift{}
	err := s.db.QueryRow(ctx, giftSelect+` WHERE g.id = $1`, id).Scan(giftDest(gift)...)
	if err != nil {
		return nil, mapReadError("getting gift", err)
	}
	gift.IsBooked = gift.BookedBy != nil
	return gift, nil
}

func (s *PostgresGifts) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Gift, error) {
	rows, err := s.db.Query(ctx, giftSelect+` WHERE g.owner_id = $1 ORDER BY g.created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing gifts: %w", err)
	}
	defer rows.Close()

	gifts := []models.Gift{}
	for rows.Next() {
		var g models.Gift
		if err := rows.Scan(giftDest(&g)...); err != nil {
			return nil, fmt.Errorf("scanning gift: %w", err)
		}
		g.IsBooked = g.BookedBy != nil
		gifts = append(gifts, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating gifts: %w", err)
	}
	return gifts, nil
}

// Book relies on the unique gift_id column of booked_gifts, so two concurrent
// bookings of one gift cannot both succeed.
func (s *PostgresGifts) Book(ctx context.Context, giftID, bookedBy uuid.UUID) (*models.Booking, error) {
	booking := &models.Booking{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO booked_gifts (gift_id, booked_by)
		 VALUES ($1, $2)
		 RETURNING id, gift_id, booked_by, created_at`,
		giftID, bookedBy,
	).Scan(&booking.ID, &booking.GiftID, &booking.BookedBy, &booking.CreatedAt)
	if err != nil {
		return nil, mapWriteError("booking gift", err)
	}
	return booking, nil
}

func (s *PostgresGifts) Unbook(ctx context.Context, giftID, bookedBy uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		"DELETE FROM booked_gifts WHERE gift_id = $1 AND booked_by = $2",
		giftID, bookedBy,
	)
	if err != nil {
		return fmt.Errorf("unbooking gift: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func giftDest(g *models.Gift) []any {
	return []any{
		&g.ID, &g.OwnerID, &g.Title, &g.Description, &g.ImageURL, &g.Link,
		&g.ArticleNumber, &g.AdditionalInfo, &g.BookedBy, &g.CreatedAt,
	}
}
