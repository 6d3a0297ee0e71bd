package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
)

func TestGiftService_Book(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := env.user("alice"), env.user("bob")
	env.befriend(t, alice, bob)
	gift, err := env.store.AddGift(models.Gift{OwnerID: alice.ID, Title: "Kettle"})
	if err != nil {
		t.Fatalf("add gift: %v", err)
	}
	_, _ = env.notifications.MarkAllRead(ctx, alice)

	booking, err := env.gifts.Book(ctx, bob, gift.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.BookedBy != bob.ID || booking.GiftID != gift.ID {
		t.Fatalf("unexpected booking: %+v", booking)
	}

	unread, _ := env.notifications.List(ctx, alice, models.NotificationListParams{UnreadOnly: true})
	if len(unread) != 1 || unread[0].Type != models.NotificationTypeGiftBooked {
		t.Fatalf("expected gift_booked notification, got %+v", unread)
	}
	if unread[0].GiftID == nil || *unread[0].GiftID != gift.ID {
		t.Fatalf("expected gift reference, got %v", unread[0].GiftID)
	}

	gifts, err := env.gifts.ListFriendGifts(ctx, bob, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gifts) != 1 || !gifts[0].IsBooked {
		t.Fatalf("expected booked gift, got %+v", gifts)
	}
}

func TestGiftService_Book_Guards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob, carol, dave := env.user("alice"), env.user("bob"), env.user("carol"), env.user("dave")
	env.befriend(t, alice, bob)
	env.befriend(t, alice, carol)
	gift, _ := env.store.AddGift(models.Gift{OwnerID: alice.ID, Title: "Kettle"})

	if _, err := env.gifts.Book(ctx, nil, gift.ID); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := env.gifts.Book(ctx, bob, uuid.New()); !errors.Is(err, ErrGiftNotFound) {
		t.Fatalf("expected ErrGiftNotFound, got %v", err)
	}
	if _, err := env.gifts.Book(ctx, alice, gift.ID); !errors.Is(err, ErrCannotBookOwnGift) {
		t.Fatalf("expected ErrCannotBookOwnGift, got %v", err)
	}
	if _, err := env.gifts.Book(ctx, dave, gift.ID); !errors.Is(err, ErrNotFriend) {
		t.Fatalf("expected ErrNotFriend, got %v", err)
	}
	if _, err := env.gifts.Book(ctx, bob, gift.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.gifts.Book(ctx, carol, gift.ID); !errors.Is(err, ErrGiftAlreadyBooked) {
		t.Fatalf("expected ErrGiftAlreadyBooked, got %v", err)
	}
}

func TestGiftService_Book_NotificationFailureStillBooks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := env.user("alice"), env.user("bob")
	env.befriend(t, alice, bob)
	gift, _ := env.store.AddGift(models.Gift{OwnerID: alice.ID, Title: "Kettle"})

	emitter := &fakeEmitter{err: errBoom}
	svc := NewGiftService(env.store.Gifts(), env.friends, emitter)
	if _, err := svc.Book(ctx, bob, gift.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emitter.emitted) != 1 || emitter.emitted[0].RecipientID != alice.ID {
		t.Fatalf("unexpected emissions: %+v", emitter.emitted)
	}
}

func TestGiftService_Unbook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob, carol := env.user("alice"), env.user("bob"), env.user("carol")
	env.befriend(t, alice, bob)
	gift, _ := env.store.AddGift(models.Gift{OwnerID: alice.ID, Title: "Kettle"})
	_, _ = env.gifts.Book(ctx, bob, gift.ID)

	if err := env.gifts.Unbook(ctx, carol, gift.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
	if err := env.gifts.Unbook(ctx, bob, gift.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGiftService_ListFriendGifts_NotFriend(t *testing.T) {
	env := newTestEnv(t)
	alice, bob := env.user("alice"), env.user("bob")

	if _, err := env.gifts.ListFriendGifts(context.Background(), bob, alice.ID); !errors.Is(err, ErrNotFriend) {
		t.Fatalf("expected ErrNotFriend, got %v", err)
	}
}
