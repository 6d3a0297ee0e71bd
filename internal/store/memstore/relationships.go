package memstore

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/store"
)

var errSelfRelationship = errors.New("requester and recipient must differ")

type Relationships struct {
	s *Store
}

func (r *Relationships) Create(_ context.Context, requesterID, recipientID uuid.UUID) (*models.Relationship, error) {
	if requesterID == recipientID {
		return nil, errSelfRelationship
	}

	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[requesterID]; !ok {
		return nil, store.ErrNotFound
	}
	if _, ok := s.users[recipientID]; !ok {
		return nil, store.ErrNotFound
	}
	key := newPairKey(requesterID, recipientID)
	if _, exists := s.pairs[key]; exists {
		return nil, store.ErrConflict
	}

	rel := models.Relationship{
		ID:          uuid.New(),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.RelationshipStatusPending,
		CreatedAt:   s.now(),
	}
	s.relationships[rel.ID] = rel
	s.pairs[key] = rel.ID
	return &rel, nil
}

func (r *Relationships) Get(_ context.Context, id uuid.UUID) (*models.Relationship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rel, ok := r.s.relationships[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &rel, nil
}

func (r *Relationships) FindBetween(_ context.Context, userID, otherUserID uuid.UUID) (*models.Relationship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.pairs[newPairKey(userID, otherUserID)]
	if !ok {
		return nil, store.ErrNotFound
	}
	rel := r.s.relationships[id]
	return &rel, nil
}

func (r *Relationships) Accept(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rel, ok := r.s.relationships[id]
	if !ok || rel.Status != models.RelationshipStatusPending {
		return store.ErrNotFound
	}
	rel.Status = models.RelationshipStatusAccepted
	r.s.relationships[id] = rel
	return nil
}

func (r *Relationships) DeletePending(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rel, ok := r.s.relationships[id]
	if !ok || rel.Status != models.RelationshipStatusPending {
		return store.ErrNotFound
	}
	r.s.deleteRelationshipLocked(rel)
	return nil
}

func (r *Relationships) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rel, ok := r.s.relationships[id]
	if !ok {
		return store.ErrNotFound
	}
	r.s.deleteRelationshipLocked(rel)
	return nil
}

// deleteRelationshipLocked mirrors ON DELETE SET NULL on notifications.
func (s *Store) deleteRelationshipLocked(rel models.Relationship) {
	delete(s.relationships, rel.ID)
	delete(s.pairs, newPairKey(rel.RequesterID, rel.RecipientID))
	for id, n := range s.notifications {
		if n.RelationshipID != nil && *n.RelationshipID == rel.ID {
			n.RelationshipID = nil
			s.notifications[id] = n
		}
	}
}

func (r *Relationships) ListFriends(_ context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	out := r.collect(userID, func(rel models.Relationship) bool {
		return rel.Status == models.RelationshipStatusAccepted && rel.Involves(userID)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Other.Username < out[j].Other.Username })
	return out, nil
}

func (r *Relationships) ListIncoming(_ context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	out := r.collect(userID, func(rel models.Relationship) bool {
		return rel.Status == models.RelationshipStatusPending && rel.RecipientID == userID
	})
	sortNewestFirst(out)
	return out, nil
}

func (r *Relationships) ListOutgoing(_ context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	out := r.collect(userID, func(rel models.Relationship) bool {
		return rel.Status == models.RelationshipStatusPending && rel.RequesterID == userID
	})
	sortNewestFirst(out)
	return out, nil
}

func (r *Relationships) AreFriends(_ context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.pairs[newPairKey(userID, otherUserID)]
	if !ok {
		return false, nil
	}
	return r.s.relationships[id].Status == models.RelationshipStatusAccepted, nil
}

func (r *Relationships) collect(userID uuid.UUID, match func(models.Relationship) bool) []models.RelationshipWithUser {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.RelationshipWithUser{}
	for _, rel := range r.s.relationships {
		if !match(rel) {
			continue
		}
		out = append(out, models.RelationshipWithUser{
			Relationship: rel,
			Other:        r.s.summary(rel.OtherParty(userID)),
		})
	}
	return out
}

func sortNewestFirst(rels []models.RelationshipWithUser) {
	sort.Slice(rels, func(i, j int) bool {
		if rels[i].CreatedAt.Equal(rels[j].CreatedAt) {
			return lessUUID(rels[j].ID, rels[i].ID)
		}
		return rels[i].CreatedAt.After(rels[j].CreatedAt)
	})
}
