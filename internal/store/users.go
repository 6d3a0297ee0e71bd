package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
)

type PostgresUsers struct {
	db DB
}

func NewPostgresUsers(db DB) *PostgresUsers {
	return &PostgresUsers{db: db}
}

func (s *PostgresUsers) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, avatar_url, is_admin, theme, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.AvatarURL, &user.IsAdmin, &user.Theme, &user.CreatedAt)
	if err != nil {
		return nil, mapReadError("getting user", err)
	}
	return user, nil
}

func (s *PostgresUsers) SearchCandidates(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]models.UserSummary, error) {
	pattern := "%" + escapeLikePattern(strings.ToLower(query)) + "%"
	rows, err := s.db.Query(ctx,
		`SELECT u.id, u.username, u.email, u.avatar_url
		 FROM users u
		 WHERE u.id <> $1
		   AND (LOWER(u.username) LIKE $2 OR LOWER(u.email) LIKE $2)
		   AND NOT EXISTS (
		     SELECT 1 FROM relationships r
		     WHERE (r.requester_id = $1 AND r.recipient_id = u.id)
		        OR (r.requester_id = u.id AND r.recipient_id = $1)
		   )
		 ORDER BY u.username
		 LIMIT $3`,
		excludeID, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	users := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.AvatarURL); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

func (s *PostgresUsers) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL *string) error {
	result, err := s.db.Exec(ctx, "UPDATE users SET avatar_url = $1 WHERE id = $2", avatarURL, id)
	if err != nil {
		return fmt.Errorf("updating avatar: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}
