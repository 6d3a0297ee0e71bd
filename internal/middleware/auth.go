package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/handlers"
	"github.com/TrueSergey/websitewishlist/internal/logging"
	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/services"
)

const bearerPrefix = "Bearer "

// CallerResolver loads the profile behind a verified token subject.
type CallerResolver interface {
	GetCaller(ctx context.Context, userID uuid.UUID) (*models.Caller, error)
}

// AuthMiddleware verifies HS256 access tokens minted by the managed auth
// backend. The token subject is the user id.
type AuthMiddleware struct {
	secret   []byte
	issuer   string
	resolver CallerResolver
	now      func() time.Time
}

func NewAuthMiddleware(secret, issuer string, resolver CallerResolver) *AuthMiddleware {
	return &AuthMiddleware{
		secret:   []byte(secret),
		issuer:   issuer,
		resolver: resolver,
		now:      time.Now,
	}
}

// Authenticate resolves the caller and adds it to the context if the token
// is valid. Does not reject unauthenticated requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.verifyToken(token)
		if err != nil {
			logging.Debug("Ignoring invalid access token", map[string]interface{}{
				"path":  r.URL.Path,
				"error": err,
			})
			next.ServeHTTP(w, r)
			return
		}

		caller, err := m.resolver.GetCaller(r.Context(), userID)
		if services.KindOf(err) == services.KindNotFound {
			logging.Debug("Ignoring access token for unknown user", map[string]interface{}{
				"path":    r.URL.Path,
				"user_id": userID.String(),
			})
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			// Valid token but the lookup failed; never downgrade to anonymous.
			fields := map[string]interface{}{
				"path":    r.URL.Path,
				"user_id": userID.String(),
				"error":   err,
			}
			if id := handlers.GetRequestIDFromContext(r.Context()); id != "" {
				fields["request_id"] = id
			}
			logging.Error("Resolving caller failed", fields)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		noteCaller(r.Context(), caller.ID.String())
		ctx := handlers.SetCallerInContext(r.Context(), caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects unauthenticated requests with 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handlers.GetCallerFromContext(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// verifyToken checks the signature and claims and returns the subject.
func (m *AuthMiddleware) verifyToken(raw string) (uuid.UUID, error) {
	if len(m.secret) == 0 {
		return uuid.Nil, errors.New("auth secret not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...); err != nil {
		return uuid.Nil, fmt.Errorf("parsing token: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token subject %q is not a user id: %w", claims.Subject, err)
	}
	return userID, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
