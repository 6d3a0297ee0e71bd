package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/services"
)

// A recipient id fits comfortably; anything larger is not a friend request.
const maxFriendRequestBytes = 1 << 10

type FriendHandler struct {
	friendService services.FriendServiceInterface
}

func NewFriendHandler(friendService services.FriendServiceInterface) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

type SendRequestRequest struct {
	RecipientID string `json:"recipient_id"`
}

type FriendListResponse struct {
	Friends  []models.RelationshipWithUser `json:"friends"`
	Incoming []models.RelationshipWithUser `json:"incoming"`
	Outgoing []models.RelationshipWithUser `json:"outgoing"`
}

type RelationshipResponse struct {
	Relationship *models.Relationship `json:"relationship,omitempty"`
	Message      string               `json:"message,omitempty"`
}

type UserSearchResponse struct {
	Users []models.UserSummary `json:"users"`
}

func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	friends, err := h.friendService.ListFriends(r.Context(), caller)
	if err != nil {
		writeServiceError(w, r, err, "list_friends")
		return
	}

	incoming, err := h.friendService.ListIncomingRequests(r.Context(), caller)
	if err != nil {
		writeServiceError(w, r, err, "list_incoming_requests")
		return
	}

	outgoing, err := h.friendService.ListOutgoingRequests(r.Context(), caller)
	if err != nil {
		writeServiceError(w, r, err, "list_outgoing_requests")
		return
	}

	writeJSON(w, http.StatusOK, FriendListResponse{
		Friends:  friends,
		Incoming: incoming,
		Outgoing: outgoing,
	})
}

func (h *FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	users, err := h.friendService.SearchCandidateUsers(r.Context(), caller, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err, "search_users")
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}

	writeJSON(w, http.StatusOK, UserSearchResponse{Users: users})
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	var req SendRequestRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxFriendRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid recipient ID")
		return
	}

	rel, err := h.friendService.SendRequest(r.Context(), caller, recipientID)
	if err != nil {
		writeServiceError(w, r, err, "send_friend_request")
		return
	}

	writeJSON(w, http.StatusCreated, RelationshipResponse{Relationship: rel, Message: "Friend request sent"})
}

func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

func (h *FriendHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

func (h *FriendHandler) respond(w http.ResponseWriter, r *http.Request, accept bool) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	requestID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	rel, err := h.friendService.RespondToRequest(r.Context(), caller, requestID, accept)
	if err != nil {
		writeServiceError(w, r, err, "respond_friend_request")
		return
	}

	if !accept {
		writeJSON(w, http.StatusOK, RelationshipResponse{Message: "Friend request rejected"})
		return
	}
	writeJSON(w, http.StatusOK, RelationshipResponse{Relationship: rel, Message: "Friend request accepted"})
}

func (h *FriendHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	requestID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	if err := h.friendService.CancelRequest(r.Context(), caller, requestID); err != nil {
		writeServiceError(w, r, err, "cancel_friend_request")
		return
	}

	writeJSON(w, http.StatusOK, RelationshipResponse{Message: "Friend request canceled"})
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	otherID, err := parsePathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.friendService.RemoveFriendship(r.Context(), caller, otherID); err != nil {
		writeServiceError(w, r, err, "remove_friend")
		return
	}

	writeJSON(w, http.StatusOK, RelationshipResponse{Message: "Friend removed"})
}
