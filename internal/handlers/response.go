package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/logging"
	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// serviceErrorMessages holds the client-facing text for domain errors. The
// first match wins, so more specific errors come first.
var serviceErrorMessages = []struct {
	err     error
	message string
}{
	{services.ErrCannotFriendSelf, "Cannot send friend request to yourself"},
	{services.ErrFriendshipExists, "Friend request already exists"},
	{services.ErrFriendshipNotFound, "Friendship not found"},
	{services.ErrFriendshipNotPending, "Request is not pending"},
	{services.ErrNotRequestRecipient, "Only the recipient can respond to this request"},
	{services.ErrNotRequestSender, "Only the sender can cancel this request"},
	{services.ErrNotFriend, "You are not friends with this user"},
	{services.ErrUserNotFound, "User not found"},
	{services.ErrNotificationNotFound, "Notification not found"},
	{services.ErrNotNotificationOwner, "Notification belongs to another user"},
	{services.ErrInvalidNotification, "Invalid notification"},
	{services.ErrGiftNotFound, "Gift not found"},
	{services.ErrCannotBookOwnGift, "Cannot book your own gift"},
	{services.ErrGiftAlreadyBooked, "Gift is already booked"},
	{services.ErrBookingNotFound, "Booking not found"},
	{services.ErrInvalidAvatarType, "Unsupported avatar file type"},
	{services.ErrEmptyAvatar, "Avatar file is empty"},
	{services.ErrUnauthenticated, "Authentication required"},
}

func statusForKind(kind services.Kind) int {
	switch kind {
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindInvalidArgument:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindPermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError translates a service error into a response. Store and
// unclassified failures are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	kind := services.KindOf(err)
	status := statusForKind(kind)
	if status == http.StatusInternalServerError {
		fields := map[string]interface{}{
			"action": action,
			"kind":   kind.String(),
			"error":  err,
		}
		if id := GetRequestIDFromContext(r.Context()); id != "" {
			fields["request_id"] = id
		}
		logging.Error("Request failed", fields)
		writeError(w, status, "Internal server error")
		return
	}

	for _, m := range serviceErrorMessages {
		if errors.Is(err, m.err) {
			writeError(w, status, m.message)
			return
		}
	}
	writeError(w, status, http.StatusText(status))
}

func requireCaller(w http.ResponseWriter, r *http.Request) *models.Caller {
	caller := GetCallerFromContext(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
	}
	return caller
}

func parsePathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return uuid.Nil, errors.New(name + " missing from path")
	}
	return uuid.Parse(raw)
}
