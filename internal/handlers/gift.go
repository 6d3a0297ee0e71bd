package handlers

import (
	"net/http"

	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/services"
)

type GiftHandler struct {
	giftService services.GiftServiceInterface
}

func NewGiftHandler(giftService services.GiftServiceInterface) *GiftHandler {
	return &GiftHandler{giftService: giftService}
}

type GiftListResponse struct {
	Gifts []models.Gift `json:"gifts"`
}

type BookingResponse struct {
	Booking *models.Booking `json:"booking"`
	Message string          `json:"message,omitempty"`
}

func (h *GiftHandler) ListFriendGifts(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	friendID, err := parsePathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	gifts, err := h.giftService.ListFriendGifts(r.Context(), caller, friendID)
	if err != nil {
		writeServiceError(w, r, err, "list_friend_gifts")
		return
	}
	if gifts == nil {
		gifts = []models.Gift{}
	}

	writeJSON(w, http.StatusOK, GiftListResponse{Gifts: gifts})
}

func (h *GiftHandler) Book(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	giftID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid gift ID")
		return
	}

	booking, err := h.giftService.Book(r.Context(), caller, giftID)
	if err != nil {
		writeServiceError(w, r, err, "book_gift")
		return
	}

	writeJSON(w, http.StatusCreated, BookingResponse{Booking: booking, Message: "Gift booked"})
}

func (h *GiftHandler) Unbook(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	giftID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid gift ID")
		return
	}

	if err := h.giftService.Unbook(r.Context(), caller, giftID); err != nil {
		writeServiceError(w, r, err, "unbook_gift")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Booking removed"})
}
