package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
)

const notificationSelect = `SELECT n.id, n.recipient_id, n.sender_id, COALESCE(u.username, ''), n.type, n.content,
	        n.relationship_id, n.gift_id, n.is_read, n.created_at
	 FROM notifications n
	 LEFT JOIN users u ON u.id = n.sender_id`

type PostgresNotifications struct {
	db DB
}

func NewPostgresNotifications(db DB) *PostgresNotifications {
	return &PostgresNotifications{db: db}
}

func (s *PostgresNotifications) Insert(ctx context.Context, n models.NewNotification) (*models.Notification, error) {
	out := &models.Notification{}
	err := s.db.QueryRow(ctx,
		`WITH ins AS (
			INSERT INTO notifications (recipient_id, sender_id, type, content, relationship_id, gift_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, recipient_id, sender_id, type, content, relationship_id, gift_id, is_read, created_at
		)
		SELECT ins.id, ins.recipient_id, ins.sender_id, COALESCE(u.username, ''), ins.type, ins.content,
		       ins.relationship_id, ins.gift_id, ins.is_read, ins.created_at
		FROM ins
		LEFT JOIN users u ON u.id = ins.sender_id`,
		n.RecipientID, n.SenderID, n.Type, n.Content, n.RelationshipID, n.GiftID,
	).Scan(notificationDest(out)...)
	if err != nil {
		return nil, mapWriteError("inserting notification", err)
	}
	return out, nil
}

func (s *PostgresNotifications) Get(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	out := &models.Notification{}
	err := s.db.QueryRow(ctx, notificationSelect+` WHERE n.id = $1`, id).Scan(notificationDest(out)...)
	if err != nil {
		return nil, mapReadError("getting notification", err)
	}
	return out, nil
}

func (s *PostgresNotifications) List(ctx context.Context, recipientID uuid.UUID, params models.NotificationListParams) ([]models.Notification, error) {
	var query strings.Builder
	query.WriteString(notificationSelect)
	query.WriteString(` WHERE n.recipient_id = $1`)
	args := []any{recipientID}

	if params.UnreadOnly {
		query.WriteString(` AND n.is_read = false`)
	}
	if params.Before != nil {
		args = append(args, *params.Before)
		fmt.Fprintf(&query, ` AND n.created_at < $%d`, len(args))
	}
	query.WriteString(` ORDER BY n.created_at DESC, n.id DESC`)
	if params.Limit > 0 {
		args = append(args, params.Limit)
		fmt.Fprintf(&query, ` LIMIT $%d`, len(args))
	}

	rows, err := s.db.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(notificationDest(&n)...); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead only touches rows owned by recipientID, so a notification that
// belongs to someone else is indistinguishable from a missing one.
func (s *PostgresNotifications) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		"UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_id = $2",
		id, recipientID,
	)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresNotifications) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	result, err := s.db.Exec(ctx,
		"UPDATE notifications SET is_read = true WHERE recipient_id = $1 AND is_read = false",
		recipientID,
	)
	if err != nil {
		return 0, fmt.Errorf("marking all notifications read: %w", err)
	}
	return result.RowsAffected(), nil
}

func (s *PostgresNotifications) Delete(ctx context.Context, id, recipientID uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		"DELETE FROM notifications WHERE id = $1 AND recipient_id = $2",
		id, recipientID,
	)
	if err != nil {
		return fmt.Errorf("deleting notification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresNotifications) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = false",
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

func (s *PostgresNotifications) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(ctx, "DELETE FROM notifications WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting old notifications: %w", err)
	}
	return result.RowsAffected(), nil
}

func notificationDest(n *models.Notification) []any {
	return []any{
		&n.ID, &n.RecipientID, &n.SenderID, &n.SenderUsername, &n.Type, &n.Content,
		&n.RelationshipID, &n.GiftID, &n.IsRead, &n.CreatedAt,
	}
}
