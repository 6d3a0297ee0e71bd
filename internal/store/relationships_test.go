package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/TrueSergey/websitewishlist/internal/models"
)

func relationshipRowValues(id, requesterID, recipientID uuid.UUID, status models.RelationshipStatus) []any {
	return []any{id, requesterID, recipientID, status, time.Now()}
}

func TestPostgresRelationships_Create_Success(t *testing.T) {
	requesterID := uuid.New()
	recipientID := uuid.New()
	relID := uuid.New()
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			if !strings.Contains(sql, "INSERT INTO relationships") {
				t.Fatalf("unexpected sql: %s", sql)
			}
			if args[0] != requesterID || args[1] != recipientID {
				t.Fatalf("unexpected args: %v", args)
			}
			return rowFromValues(relationshipRowValues(relID, requesterID, recipientID, models.RelationshipStatusPending)...)
		},
	}

	rel, err := NewPostgresRelationships(db).Create(context.Background(), requesterID, recipientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rel.ID != relID || rel.Status != models.RelationshipStatusPending {
		t.Fatalf("unexpected relationship: %+v", rel)
	}
}

func TestPostgresRelationships_Create_UniqueViolation(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return errRow(&pgconn.PgError{Code: "23505", ConstraintName: "relationships_pair_key"})
		},
	}

	_, err := NewPostgresRelationships(db).Create(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestPostgresRelationships_Create_MissingUser(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return errRow(&pgconn.PgError{Code: "23503"})
		},
	}

	_, err := NewPostgresRelationships(db).Create(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresRelationships_Get_NotFound(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return errRow(pgx.ErrNoRows)
		},
	}

	_, err := NewPostgresRelationships(db).Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresRelationships_Get_DBError(t *testing.T) {
	boom := errors.New("boom")
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return errRow(boom)
		},
	}

	_, err := NewPostgresRelationships(db).Get(context.Background(), uuid.New())
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestPostgresRelationships_FindBetween_ChecksBothDirections(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			if !strings.Contains(sql, "requester_id = $2 AND recipient_id = $1") {
				t.Fatalf("expected reverse direction check, got %s", sql)
			}
			return rowFromValues(relationshipRowValues(uuid.New(), b, a, models.RelationshipStatusAccepted)...)
		},
	}

	rel, err := NewPostgresRelationships(db).FindBetween(context.Background(), a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rel.RequesterID != b {
		t.Fatalf("unexpected relationship: %+v", rel)
	}
}

func TestPostgresRelationships_Accept(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "updated", affected: 1},
		{name: "not pending", affected: 0, wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{
				ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
					if !strings.Contains(sql, "status = 'pending'") {
						t.Fatalf("accept must be conditional on pending: %s", sql)
					}
					return fakeCommandTag{rowsAffected: tt.affected}, nil
				},
			}
			err := NewPostgresRelationships(db).Accept(context.Background(), uuid.New())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPostgresRelationships_DeletePending_NoRows(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			return fakeCommandTag{}, nil
		},
	}

	err := NewPostgresRelationships(db).DeletePending(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresRelationships_Delete_ExecError(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			return fakeCommandTag{}, errors.New("boom")
		},
	}

	err := NewPostgresRelationships(db).Delete(context.Background(), uuid.New())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected exec error, got %v", err)
	}
}

func TestPostgresRelationships_ListFriends(t *testing.T) {
	userID := uuid.New()
	friendID := uuid.New()
	rows := &fakeRows{rows: [][]any{
		append(relationshipRowValues(uuid.New(), friendID, userID, models.RelationshipStatusAccepted),
			friendID, "bob", "bob@example.com", nil),
	}}
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return rows, nil
		},
	}

	friends, err := NewPostgresRelationships(db).ListFriends(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(friends) != 1 || friends[0].Other.ID != friendID || friends[0].Other.Username != "bob" {
		t.Fatalf("unexpected friends: %+v", friends)
	}
	if friends[0].Other.AvatarURL != nil {
		t.Fatalf("expected nil avatar, got %v", *friends[0].Other.AvatarURL)
	}
	if !rows.closed {
		t.Fatal("expected rows to be closed")
	}
}

func TestPostgresRelationships_ListIncoming_EmptyIsNotNil(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return &fakeRows{}, nil
		},
	}

	incoming, err := NewPostgresRelationships(db).ListIncoming(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if incoming == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestPostgresRelationships_ListOutgoing_ScanError(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return &fakeRows{rows: [][]any{{}}, scanErr: errors.New("bad scan")}, nil
		},
	}

	if _, err := NewPostgresRelationships(db).ListOutgoing(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected scan error")
	}
}

func TestPostgresRelationships_AreFriends(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return rowFromValues(true)
		},
	}

	ok, err := NewPostgresRelationships(db).AreFriends(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected friends")
	}
}
