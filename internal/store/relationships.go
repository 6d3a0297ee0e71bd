package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
)

const relationshipColumns = "id, requester_id, recipient_id, status, created_at"

type PostgresRelationships struct {
	db DB
}

func NewPostgresRelationships(db DB) *PostgresRelationships {
	return &PostgresRelationships{db: db}
}

// Create inserts a pending edge. The relationships_pair_key unique index on
// (LEAST, GREATEST) of the two ids rejects a second edge for the same pair.
func (s *PostgresRelationships) Create(ctx context.Context, requesterID, recipientID uuid.UUID) (*models.Relationship, error) {
	rel := &models.Relationship{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO relationships (requester_id, recipient_id, status)
		 VALUES ($1, $2, 'pending')
		 RETURNING `+relationshipColumns,
		requesterID, recipientID,
	).Scan(&rel.ID, &rel.RequesterID, &rel.RecipientID, &rel.Status, &rel.CreatedAt)
	if err != nil {
		return nil, mapWriteError("creating relationship", err)
	}
	return rel, nil
}

func (s *PostgresRelationships) Get(ctx context.Context, id uuid.UUID) (*models.Relationship, error) {
	rel := &models.Relationship{}
	err := s.db.QueryRow(ctx,
		`SELECT `+relationshipColumns+` FROM relationships WHERE id = $1`,
		id,
	).Scan(&rel.ID, &rel.RequesterID, &rel.RecipientID, &rel.Status, &rel.CreatedAt)
	if err != nil {
		return nil, mapReadError("getting relationship", err)
	}
	return rel, nil
}

func (s *PostgresRelationships) FindBetween(ctx context.Context, userID, otherUserID uuid.UUID) (*models.Relationship, error) {
	rel := &models.Relationship{}
	err := s.db.QueryRow(ctx,
		`SELECT `+relationshipColumns+`
		 FROM relationships
		 WHERE (requester_id = $1 AND recipient_id = $2)
		    OR (requester_id = $2 AND recipient_id = $1)
		 LIMIT 1`,
		userID, otherUserID,
	).Scan(&rel.ID, &rel.RequesterID, &rel.RecipientID, &rel.Status, &rel.CreatedAt)
	if err != nil {
		return nil, mapReadError("finding relationship", err)
	}
	return rel, nil
}

func (s *PostgresRelationships) Accept(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		"UPDATE relationships SET status = 'accepted' WHERE id = $1 AND status = 'pending'",
		id,
	)
	if err != nil {
		return fmt.Errorf("accepting relationship: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresRelationships) DeletePending(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		"DELETE FROM relationships WHERE id = $1 AND status = 'pending'",
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting pending relationship: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresRelationships) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Exec(ctx, "DELETE FROM relationships WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting relationship: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresRelationships) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT r.id, r.requester_id, r.recipient_id, r.status, r.created_at,
		        u.id, u.username, u.email, u.avatar_url
		 FROM relationships r
		 JOIN users u ON u.id = CASE WHEN r.requester_id = $1 THEN r.recipient_id ELSE r.requester_id END
		 WHERE (r.requester_id = $1 OR r.recipient_id = $1) AND r.status = 'accepted'
		 ORDER BY u.username`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	return scanRelationshipsWithUser(rows, "friend")
}

func (s *PostgresRelationships) ListIncoming(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT r.id, r.requester_id, r.recipient_id, r.status, r.created_at,
		        u.id, u.username, u.email, u.avatar_url
		 FROM relationships r
		 JOIN users u ON u.id = r.requester_id
		 WHERE r.recipient_id = $1 AND r.status = 'pending'
		 ORDER BY r.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing incoming requests: %w", err)
	}
	return scanRelationshipsWithUser(rows, "incoming request")
}

func (s *PostgresRelationships) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT r.id, r.requester_id, r.recipient_id, r.status, r.created_at,
		        u.id, u.username, u.email, u.avatar_url
		 FROM relationships r
		 JOIN users u ON u.id = r.recipient_id
		 WHERE r.requester_id = $1 AND r.status = 'pending'
		 ORDER BY r.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing outgoing requests: %w", err)
	}
	return scanRelationshipsWithUser(rows, "outgoing request")
}

func (s *PostgresRelationships) AreFriends(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM relationships
			WHERE ((requester_id = $1 AND recipient_id = $2) OR (requester_id = $2 AND recipient_id = $1))
			  AND status = 'accepted'
		)`,
		userID, otherUserID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking friendship: %w", err)
	}
	return ok, nil
}

func scanRelationshipsWithUser(rows Rows, what string) ([]models.RelationshipWithUser, error) {
	defer rows.Close()

	var out []models.RelationshipWithUser
	for rows.Next() {
		var r models.RelationshipWithUser
		if err := rows.Scan(
			&r.ID, &r.RequesterID, &r.RecipientID, &r.Status, &r.CreatedAt,
			&r.Other.ID, &r.Other.Username, &r.Other.Email, &r.Other.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", what, err)
	}

	if out == nil {
		out = []models.RelationshipWithUser{}
	}
	return out, nil
}
