package main

import (
	"net/http"

	"github.com/TrueSergey/websitewishlist/internal/handlers"
	"github.com/TrueSergey/websitewishlist/internal/middleware"
)

// routeDeps are the pieces newRouter wires together. Profile may be nil when
// no object storage is configured; the avatar route is then not registered.
type routeDeps struct {
	health        *handlers.HealthHandler
	friends       *handlers.FriendHandler
	notifications *handlers.NotificationHandler
	gifts         *handlers.GiftHandler
	profile       *handlers.ProfileHandler

	auth          *middleware.AuthMiddleware
	requestLimit  *middleware.RateLimiter
	requestLogger *middleware.RequestLogger
	secure        bool
}

func newRouter(d routeDeps) http.Handler {
	requireAuth := d.auth.RequireAuth
	limited := func(h http.Handler) http.Handler { return h }
	if d.requestLimit != nil {
		limited = d.requestLimit.Middleware
	}

	mux := http.NewServeMux()

	// Health endpoints (no auth, no rate limit)
	mux.HandleFunc("GET /health", d.health.Health)
	mux.HandleFunc("GET /ready", d.health.Ready)
	mux.HandleFunc("GET /live", d.health.Live)

	// Friend endpoints
	mux.Handle("GET /api/friends", requireAuth(http.HandlerFunc(d.friends.List)))
	mux.Handle("GET /api/friends/search", requireAuth(http.HandlerFunc(d.friends.Search)))
	mux.Handle("POST /api/friends/requests", requireAuth(limited(http.HandlerFunc(d.friends.SendRequest))))
	mux.Handle("PUT /api/friends/requests/{id}/accept", requireAuth(http.HandlerFunc(d.friends.AcceptRequest)))
	mux.Handle("PUT /api/friends/requests/{id}/reject", requireAuth(http.HandlerFunc(d.friends.RejectRequest)))
	mux.Handle("DELETE /api/friends/requests/{id}", requireAuth(http.HandlerFunc(d.friends.CancelRequest)))
	mux.Handle("DELETE /api/friends/{userID}", requireAuth(http.HandlerFunc(d.friends.Remove)))

	// Notification endpoints
	mux.Handle("GET /api/notifications", requireAuth(http.HandlerFunc(d.notifications.List)))
	mux.Handle("GET /api/notifications/unread-count", requireAuth(http.HandlerFunc(d.notifications.UnreadCount)))
	mux.Handle("POST /api/notifications/read-all", requireAuth(http.HandlerFunc(d.notifications.MarkAllRead)))
	mux.Handle("POST /api/notifications/{id}/read", requireAuth(http.HandlerFunc(d.notifications.MarkRead)))
	mux.Handle("DELETE /api/notifications/{id}", requireAuth(http.HandlerFunc(d.notifications.Delete)))

	// Gift endpoints
	mux.Handle("GET /api/friends/{userID}/gifts", requireAuth(http.HandlerFunc(d.gifts.ListFriendGifts)))
	mux.Handle("POST /api/gifts/{id}/book", requireAuth(http.HandlerFunc(d.gifts.Book)))
	mux.Handle("DELETE /api/gifts/{id}/book", requireAuth(http.HandlerFunc(d.gifts.Unbook)))

	// Profile endpoints
	if d.profile != nil {
		mux.Handle("PUT /api/profile/avatar", requireAuth(http.HandlerFunc(d.profile.UploadAvatar)))
	}

	// Build middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = d.auth.Authenticate(handler)
	handler = middleware.NewCompress().Apply(handler)
	handler = middleware.NewSecurityHeaders(d.secure).Apply(handler)
	handler = d.requestLogger.Apply(handler)
	return handler
}
