package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service operation matches exactly
// one of these under errors.Is.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrStore            = errors.New("store error")
)

var (
	ErrCannotFriendSelf     = fmt.Errorf("%w: cannot send friend request to yourself", ErrInvalidArgument)
	ErrFriendshipExists     = fmt.Errorf("%w: friendship already exists", ErrConflict)
	ErrFriendshipNotFound   = fmt.Errorf("%w: friendship not found", ErrNotFound)
	ErrFriendshipNotPending = fmt.Errorf("%w: friendship is not pending", ErrConflict)
	ErrNotRequestRecipient  = fmt.Errorf("%w: only the recipient can accept or reject", ErrPermissionDenied)
	ErrNotRequestSender     = fmt.Errorf("%w: only the sender can cancel a pending request", ErrPermissionDenied)
	ErrNotFriend            = fmt.Errorf("%w: you are not friends with this user", ErrPermissionDenied)
	ErrUserNotFound         = fmt.Errorf("%w: user not found", ErrNotFound)

	ErrNotificationNotFound = fmt.Errorf("%w: notification not found", ErrNotFound)
	ErrNotNotificationOwner = fmt.Errorf("%w: notification belongs to another user", ErrPermissionDenied)
	ErrInvalidNotification  = fmt.Errorf("%w: invalid notification", ErrInvalidArgument)

	ErrGiftNotFound      = fmt.Errorf("%w: gift not found", ErrNotFound)
	ErrCannotBookOwnGift = fmt.Errorf("%w: cannot book your own gift", ErrInvalidArgument)
	ErrGiftAlreadyBooked = fmt.Errorf("%w: gift is already booked", ErrConflict)
	ErrBookingNotFound   = fmt.Errorf("%w: booking not found", ErrNotFound)

	ErrInvalidAvatarType = fmt.Errorf("%w: avatar must be jpg, jpeg, png, gif or webp", ErrInvalidArgument)
	ErrEmptyAvatar       = fmt.Errorf("%w: avatar file is empty", ErrInvalidArgument)
)

// StoreError wraps a failure of an underlying collaborator (database,
// object storage) together with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// Kind identifies which class of the error taxonomy an error belongs to.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindInvalidArgument
	KindConflict
	KindNotFound
	KindPermissionDenied
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindStore:
		return "store_error"
	default:
		return "unknown"
	}
}

// KindOf classifies err. Store failures are checked last so that a domain
// error carried inside a StoreError still reports its own kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrStore):
		return KindStore
	default:
		return KindUnknown
	}
}
