package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/store"
)

type Notifications struct {
	s *Store
}

func (n *Notifications) Insert(_ context.Context, in models.NewNotification) (*models.Notification, error) {
	s := n.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[in.RecipientID]; !ok {
		return nil, store.ErrNotFound
	}
	if in.SenderID != nil {
		if _, ok := s.users[*in.SenderID]; !ok {
			return nil, store.ErrNotFound
		}
	}
	if in.RelationshipID != nil {
		if _, ok := s.relationships[*in.RelationshipID]; !ok {
			return nil, store.ErrNotFound
		}
	}
	if in.GiftID != nil {
		if _, ok := s.gifts[*in.GiftID]; !ok {
			return nil, store.ErrNotFound
		}
	}

	stored := storedNotification{
		Notification: models.Notification{
			ID:             uuid.New(),
			RecipientID:    in.RecipientID,
			SenderID:       copyID(in.SenderID),
			Type:           in.Type,
			Content:        in.Content,
			RelationshipID: copyID(in.RelationshipID),
			GiftID:         copyID(in.GiftID),
			CreatedAt:      s.now(),
		},
		seq: s.nextSeq(),
	}
	s.notifications[stored.ID] = stored
	return s.viewNotification(stored), nil
}

func (n *Notifications) Get(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	n.s.mu.RLock()
	defer n.s.mu.RUnlock()
	stored, ok := n.s.notifications[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return n.s.viewNotification(stored), nil
}

func (n *Notifications) List(_ context.Context, recipientID uuid.UUID, params models.NotificationListParams) ([]models.Notification, error) {
	n.s.mu.RLock()
	defer n.s.mu.RUnlock()

	var matched []storedNotification
	for _, stored := range n.s.notifications {
		if stored.RecipientID != recipientID {
			continue
		}
		if params.UnreadOnly && stored.IsRead {
			continue
		}
		if params.Before != nil && !stored.CreatedAt.Before(*params.Before) {
			continue
		}
		matched = append(matched, stored)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].seq > matched[j].seq
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if params.Limit > 0 && len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}

	out := make([]models.Notification, 0, len(matched))
	for _, stored := range matched {
		out = append(out, *n.s.viewNotification(stored))
	}
	return out, nil
}

func (n *Notifications) MarkRead(_ context.Context, id, recipientID uuid.UUID) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	stored, ok := n.s.notifications[id]
	if !ok || stored.RecipientID != recipientID {
		return store.ErrNotFound
	}
	stored.IsRead = true
	n.s.notifications[id] = stored
	return nil
}

func (n *Notifications) MarkAllRead(_ context.Context, recipientID uuid.UUID) (int64, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	var updated int64
	for id, stored := range n.s.notifications {
		if stored.RecipientID == recipientID && !stored.IsRead {
			stored.IsRead = true
			n.s.notifications[id] = stored
			updated++
		}
	}
	return updated, nil
}

func (n *Notifications) Delete(_ context.Context, id, recipientID uuid.UUID) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	stored, ok := n.s.notifications[id]
	if !ok || stored.RecipientID != recipientID {
		return store.ErrNotFound
	}
	delete(n.s.notifications, id)
	return nil
}

func (n *Notifications) UnreadCount(_ context.Context, recipientID uuid.UUID) (int, error) {
	n.s.mu.RLock()
	defer n.s.mu.RUnlock()
	count := 0
	for _, stored := range n.s.notifications {
		if stored.RecipientID == recipientID && !stored.IsRead {
			count++
		}
	}
	return count, nil
}

func (n *Notifications) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	var deleted int64
	for id, stored := range n.s.notifications {
		if stored.CreatedAt.Before(cutoff) {
			delete(n.s.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Store) viewNotification(stored storedNotification) *models.Notification {
	out := stored.Notification
	out.SenderID = copyID(stored.SenderID)
	out.RelationshipID = copyID(stored.RelationshipID)
	out.GiftID = copyID(stored.GiftID)
	if out.SenderID != nil {
		out.SenderUsername = s.users[*out.SenderID].Username
	}
	return &out
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
