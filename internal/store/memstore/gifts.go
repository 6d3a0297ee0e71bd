package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/store"
)

type Gifts struct {
	s *Store
}

func (g *Gifts) Get(_ context.Context, id uuid.UUID) (*models.Gift, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	gift, ok := g.s.gifts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := g.s.viewGift(gift)
	return &out, nil
}

func (g *Gifts) ListForOwner(_ context.Context, ownerID uuid.UUID) ([]models.Gift, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	out := []models.Gift{}
	for _, gift := range g.s.gifts {
		if gift.OwnerID == ownerID {
			out = append(out, g.s.viewGift(gift))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (g *Gifts) Book(_ context.Context, giftID, bookedBy uuid.UUID) (*models.Booking, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if _, ok := g.s.gifts[giftID]; !ok {
		return nil, store.ErrNotFound
	}
	if _, ok := g.s.users[bookedBy]; !ok {
		return nil, store.ErrNotFound
	}
	if _, booked := g.s.bookings[giftID]; booked {
		return nil, store.ErrConflict
	}
	booking := models.Booking{
		ID:        uuid.New(),
		GiftID:    giftID,
		BookedBy:  bookedBy,
		CreatedAt: g.s.now(),
	}
	g.s.bookings[giftID] = booking
	return &booking, nil
}

func (g *Gifts) Unbook(_ context.Context, giftID, bookedBy uuid.UUID) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	booking, ok := g.s.bookings[giftID]
	if !ok || booking.BookedBy != bookedBy {
		return store.ErrNotFound
	}
	delete(g.s.bookings, giftID)
	return nil
}

func (s *Store) viewGift(gift models.Gift) models.Gift {
	if booking, ok := s.bookings[gift.ID]; ok {
		by := booking.BookedBy
		gift.IsBooked = true
		gift.BookedBy = &by
	}
	return gift
}
