package handlers

import (
	"context"

	"github.com/TrueSergey/websitewishlist/internal/models"
)

type contextKey string

const (
	callerContextKey    contextKey = "caller"
	requestIDContextKey contextKey = "request_id"
)

// SetCallerInContext stores the authenticated caller for handlers further
// down the chain.
func SetCallerInContext(ctx context.Context, caller *models.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// GetCallerFromContext returns nil when the request is anonymous.
func GetCallerFromContext(ctx context.Context) *models.Caller {
	caller, _ := ctx.Value(callerContextKey).(*models.Caller)
	return caller
}

func SetRequestIDInContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
