package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/logging"
	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/store"
)

const (
	minSearchQueryLength = 2
	searchResultLimit    = 20
)

type FriendService struct {
	relationships store.Relationships
	users         store.Users
	notifier      Emitter
}

// NewFriendService creates the service. notifier may be nil, in which case
// transitions emit nothing.
func NewFriendService(relationships store.Relationships, users store.Users, notifier Emitter) *FriendService {
	return &FriendService{
		relationships: relationships,
		users:         users,
		notifier:      notifier,
	}
}

// SendRequest creates a pending edge from the caller to recipientID. The
// existence check gives fast feedback; the store's unordered-pair constraint
// is what actually rejects concurrent duplicates.
func (s *FriendService) SendRequest(ctx context.Context, caller *models.Caller, recipientID uuid.UUID) (*models.Relationship, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if caller.ID == recipientID {
		return nil, ErrCannotFriendSelf
	}

	if _, err := s.users.Get(ctx, recipientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("getting recipient", err)
	}

	existing, err := s.relationships.FindBetween(ctx, caller.ID, recipientID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, storeErr("checking existing relationship", err)
	}
	if existing != nil {
		return nil, ErrFriendshipExists
	}

	rel, err := s.relationships.Create(ctx, caller.ID, recipientID)
	switch {
	case errors.Is(err, store.ErrConflict):
		return nil, ErrFriendshipExists
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, storeErr("creating relationship", err)
	}

	s.notify(ctx, Emission{
		RecipientID:    recipientID,
		SenderID:       &caller.ID,
		Type:           models.NotificationTypeFriendRequest,
		Content:        fmt.Sprintf("%s sent you a friend request", caller.Username),
		RelationshipID: &rel.ID,
	})

	return rel, nil
}

// RespondToRequest accepts or rejects a pending request addressed to the
// caller. A second response to the same request fails with NotFound once the
// edge is gone.
func (s *FriendService) RespondToRequest(ctx context.Context, caller *models.Caller, requestID uuid.UUID, accept bool) (*models.Relationship, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	rel, err := s.getRelationship(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// Only the recipient can accept or reject
	if rel.RecipientID != caller.ID {
		return nil, ErrNotRequestRecipient
	}
	if rel.Status != models.RelationshipStatusPending {
		return nil, ErrFriendshipNotPending
	}

	if !accept {
		if err := s.relationships.DeletePending(ctx, requestID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrFriendshipNotFound
			}
			return nil, storeErr("rejecting relationship", err)
		}
		return nil, nil
	}

	if err := s.relationships.Accept(ctx, requestID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrFriendshipNotFound
		}
		return nil, storeErr("accepting relationship", err)
	}
	rel.Status = models.RelationshipStatusAccepted

	s.notify(ctx, Emission{
		RecipientID:    rel.RequesterID,
		SenderID:       &caller.ID,
		Type:           models.NotificationTypeFriendRequestAccepted,
		Content:        fmt.Sprintf("%s accepted your friend request", caller.Username),
		RelationshipID: &rel.ID,
	})

	return rel, nil
}

func (s *FriendService) CancelRequest(ctx context.Context, caller *models.Caller, requestID uuid.UUID) error {
	if caller == nil {
		return ErrUnauthenticated
	}

	rel, err := s.getRelationship(ctx, requestID)
	if err != nil {
		return err
	}
	if rel.RequesterID != caller.ID || rel.Status != models.RelationshipStatusPending {
		return ErrNotRequestSender
	}

	if err := s.relationships.DeletePending(ctx, requestID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrFriendshipNotFound
		}
		return storeErr("cancelling relationship", err)
	}
	return nil
}

// RemoveFriendship deletes the accepted edge between the caller and
// otherUserID, whichever of them sent the original request.
func (s *FriendService) RemoveFriendship(ctx context.Context, caller *models.Caller, otherUserID uuid.UUID) error {
	if caller == nil {
		return ErrUnauthenticated
	}

	rel, err := s.relationships.FindBetween(ctx, caller.ID, otherUserID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrFriendshipNotFound
	}
	if err != nil {
		return storeErr("finding relationship", err)
	}
	if rel.Status != models.RelationshipStatusAccepted {
		return ErrFriendshipNotFound
	}

	if err := s.relationships.Delete(ctx, rel.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrFriendshipNotFound
		}
		return storeErr("removing relationship", err)
	}
	return nil
}

func (s *FriendService) ListFriends(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	friends, err := s.relationships.ListFriends(ctx, caller.ID)
	if err != nil {
		return nil, storeErr("listing friends", err)
	}
	return friends, nil
}

func (s *FriendService) ListIncomingRequests(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	requests, err := s.relationships.ListIncoming(ctx, caller.ID)
	if err != nil {
		return nil, storeErr("listing incoming requests", err)
	}
	return requests, nil
}

func (s *FriendService) ListOutgoingRequests(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	requests, err := s.relationships.ListOutgoing(ctx, caller.ID)
	if err != nil {
		return nil, storeErr("listing outgoing requests", err)
	}
	return requests, nil
}

// SearchCandidateUsers matches handles and emails, skipping the caller and
// anyone already connected to them by a pending or accepted edge in either
// direction.
func (s *FriendService) SearchCandidateUsers(ctx context.Context, caller *models.Caller, query string) ([]models.UserSummary, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchQueryLength {
		return []models.UserSummary{}, nil
	}

	users, err := s.users.SearchCandidates(ctx, query, caller.ID, searchResultLimit)
	if err != nil {
		return nil, storeErr("searching users", err)
	}
	return users, nil
}

func (s *FriendService) IsFriend(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	ok, err := s.relationships.AreFriends(ctx, userID, otherUserID)
	if err != nil {
		return false, storeErr("checking friendship", err)
	}
	return ok, nil
}

func (s *FriendService) getRelationship(ctx context.Context, id uuid.UUID) (*models.Relationship, error) {
	rel, err := s.relationships.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrFriendshipNotFound
	}
	if err != nil {
		return nil, storeErr("getting relationship", err)
	}
	return rel, nil
}

// notify emits best-effort: a failure is logged and the transition that
// triggered it stays committed.
func (s *FriendService) notify(ctx context.Context, e Emission) {
	emitBestEffort(ctx, s.notifier, e)
}

func emitBestEffort(ctx context.Context, notifier Emitter, e Emission) {
	if notifier == nil {
		return
	}
	if _, err := notifier.Emit(ctx, e); err != nil {
		logging.Warn("Failed to emit notification", map[string]interface{}{
			"recipient_id": e.RecipientID.String(),
			"type":         string(e.Type),
			"error":        err.Error(),
		})
	}
}
