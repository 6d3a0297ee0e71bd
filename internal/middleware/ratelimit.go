package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/TrueSergey/websitewishlist/internal/handlers"
	"github.com/TrueSergey/websitewishlist/internal/logging"
)

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Backend counts requests per key.
type Backend interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

type RateLimiter struct {
	backend  Backend
	limit    int
	window   time.Duration
	prefix   string
	keyFunc  func(r *http.Request) string
	failOpen bool
}

func NewRateLimiter(backend Backend, limit int, window time.Duration, prefix string, keyFunc func(r *http.Request) string, failOpen bool) *RateLimiter {
	if keyFunc == nil {
		keyFunc = GetClientIP
	}
	return &RateLimiter{
		backend:  backend,
		limit:    limit,
		window:   window,
		prefix:   prefix,
		keyFunc:  keyFunc,
		failOpen: failOpen,
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.backend == nil {
			if rl.failOpen {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusServiceUnavailable, "Rate limiter unavailable")
			return
		}

		key := rl.prefix + rl.keyFunc(r)
		decision, err := rl.backend.Allow(r.Context(), key, rl.limit, rl.window)
		if err != nil {
			logging.Warn("Rate limiter backend error", map[string]interface{}{
				"key":   key,
				"error": err,
			})
			if rl.failOpen {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusServiceUnavailable, "Rate limiter unavailable")
			return
		}

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", decision.ResetAt.Unix()))

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RedisBackend is a fixed-window counter shared by every instance. Each
// window gets its own key so the expiry never slides.
type RedisBackend struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client, now: time.Now}
}

func (b *RedisBackend) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	windowStart := b.now().Truncate(window)
	windowEnd := windowStart.Add(window)
	windowKey := fmt.Sprintf("%s:%d", key, windowStart.Unix())

	pipe := b.client.Pipeline()
	incrCmd := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Allowed: true, Remaining: limit, ResetAt: windowEnd}, err
	}

	return fixedWindowDecision(incrCmd.Val(), limit, windowEnd), nil
}

func fixedWindowDecision(count int64, limit int, resetAt time.Time) Decision {
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(limit),
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

type memoryEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryBackend keeps a token bucket per key in process memory. Idle keys
// are swept once per window.
type MemoryBackend struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (b *MemoryBackend) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if limit <= 0 || window <= 0 {
		return Decision{}, fmt.Errorf("invalid rate limit %d per %s", limit, window)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.sweep(now, window)

	entry, ok := b.entries[key]
	if !ok {
		entry = &memoryEntry{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		b.entries[key] = entry
	}
	entry.lastSeen = now

	allowed := entry.limiter.AllowN(now, 1)
	tokens := entry.limiter.TokensAt(now)
	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}

	// Time until one token is back.
	resetAt := now
	if tokens < 1 {
		resetAt = now.Add(time.Duration((1 - tokens) * float64(window) / float64(limit)))
	}

	return Decision{Allowed: allowed, Remaining: remaining, ResetAt: resetAt}, nil
}

func (b *MemoryBackend) sweep(now time.Time, window time.Duration) {
	if now.Sub(b.lastSweep) < window {
		return
	}
	b.lastSweep = now
	for key, entry := range b.entries {
		if now.Sub(entry.lastSeen) >= window {
			delete(b.entries, key)
		}
	}
}

// CallerKey limits authenticated requests per caller and falls back to the
// client address otherwise.
func CallerKey(r *http.Request) string {
	if caller := handlers.GetCallerFromContext(r.Context()); caller != nil {
		return "user:" + caller.ID.String()
	}
	return "ip:" + GetClientIP(r)
}

func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip, _, err := net.SplitHostPort(first); err == nil {
			return ip
		}
		return first
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
