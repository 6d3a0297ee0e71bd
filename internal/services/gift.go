package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/store"
)

type GiftService struct {
	gifts    store.Gifts
	friends  FriendChecker
	notifier Emitter
}

func NewGiftService(gifts store.Gifts, friends FriendChecker, notifier Emitter) *GiftService {
	return &GiftService{gifts: gifts, friends: friends, notifier: notifier}
}

// ListFriendGifts returns friendID's wishlist with booking state. Only
// friends may look.
func (s *GiftService) ListFriendGifts(ctx context.Context, caller *models.Caller, friendID uuid.UUID) ([]models.Gift, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if err := s.requireFriend(ctx, caller.ID, friendID); err != nil {
		return nil, err
	}

	gifts, err := s.gifts.ListForOwner(ctx, friendID)
	if err != nil {
		return nil, storeErr("listing gifts", err)
	}
	return gifts, nil
}

func (s *GiftService) Book(ctx context.Context, caller *models.Caller, giftID uuid.UUID) (*models.Booking, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	gift, err := s.gifts.Get(ctx, giftID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrGiftNotFound
	}
	if err != nil {
		return nil, storeErr("getting gift", err)
	}
	if gift.OwnerID == caller.ID {
		return nil, ErrCannotBookOwnGift
	}
	if err := s.requireFriend(ctx, caller.ID, gift.OwnerID); err != nil {
		return nil, err
	}

	booking, err := s.gifts.Book(ctx, giftID, caller.ID)
	switch {
	case errors.Is(err, store.ErrConflict):
		return nil, ErrGiftAlreadyBooked
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrGiftNotFound
	case err != nil:
		return nil, storeErr("booking gift", err)
	}

	emitBestEffort(ctx, s.notifier, Emission{
		RecipientID: gift.OwnerID,
		SenderID:    &caller.ID,
		Type:        models.NotificationTypeGiftBooked,
		Content:     fmt.Sprintf("%s booked your gift %q", caller.Username, gift.Title),
		GiftID:      &gift.ID,
	})

	return booking, nil
}

func (s *GiftService) Unbook(ctx context.Context, caller *models.Caller, giftID uuid.UUID) error {
	if caller == nil {
		return ErrUnauthenticated
	}

	err := s.gifts.Unbook(ctx, giftID, caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrBookingNotFound
	}
	if err != nil {
		return storeErr("unbooking gift", err)
	}
	return nil
}

func (s *GiftService) requireFriend(ctx context.Context, userID, otherUserID uuid.UUID) error {
	ok, err := s.friends.IsFriend(ctx, userID, otherUserID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFriend
	}
	return nil
}
