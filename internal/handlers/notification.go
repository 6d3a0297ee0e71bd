package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationServiceInterface
}

func NewNotificationHandler(notificationService services.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	params, ok := parseNotificationListParams(w, r)
	if !ok {
		return
	}

	notifications, err := h.notificationService.List(r.Context(), caller, params)
	if err != nil {
		writeServiceError(w, r, err, "list_notifications")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	writeJSON(w, http.StatusOK, NotificationListResponse{Notifications: notifications})
}

func parseNotificationListParams(w http.ResponseWriter, r *http.Request) (models.NotificationListParams, bool) {
	var params models.NotificationListParams
	query := r.URL.Query()

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return params, false
		}
		params.Limit = limit
	}

	if raw := query.Get("before"); raw != "" {
		before, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid before timestamp")
			return params, false
		}
		params.Before = &before
	}

	if raw := query.Get("unread"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid unread flag")
			return params, false
		}
		params.UnreadOnly = unread
	}

	return params, true
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	count, err := h.notificationService.UnreadCount(r.Context(), caller)
	if err != nil {
		writeServiceError(w, r, err, "unread_count")
		return
	}

	writeJSON(w, http.StatusOK, UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	notificationID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), caller, notificationID); err != nil {
		writeServiceError(w, r, err, "mark_notification_read")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	updated, err := h.notificationService.MarkAllRead(r.Context(), caller)
	if err != nil {
		writeServiceError(w, r, err, "mark_all_notifications_read")
		return
	}

	writeJSON(w, http.StatusOK, MarkAllReadResponse{Updated: updated})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	notificationID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.notificationService.Delete(r.Context(), caller, notificationID); err != nil {
		writeServiceError(w, r, err, "delete_notification")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Notification deleted"})
}
