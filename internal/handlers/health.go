package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

const healthCheckTimeout = 5 * time.Second

type HealthChecker interface {
	Health(ctx context.Context) error
}

type namedCheck struct {
	name    string
	checker HealthChecker
}

// HealthHandler reports on Postgres and, when configured, Redis. A nil
// checker is reported as disabled and never fails readiness.
type HealthHandler struct {
	checks []namedCheck
}

func NewHealthHandler(db, redis HealthChecker) *HealthHandler {
	return &HealthHandler{
		checks: []namedCheck{
			{name: "postgres", checker: db},
			{name: "redis", checker: redis},
		},
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

// run executes every check concurrently under ctx.
func (h *HealthHandler) run(ctx context.Context) (map[string]string, bool) {
	statuses := make([]string, len(h.checks))
	var wg sync.WaitGroup
	for i, c := range h.checks {
		if c.checker == nil {
			statuses[i] = "disabled"
			continue
		}
		wg.Add(1)
		go func(i int, checker HealthChecker) {
			defer wg.Done()
			if err := checker.Health(ctx); err != nil {
				statuses[i] = "unhealthy: " + err.Error()
				return
			}
			statuses[i] = "healthy"
		}(i, c.checker)
	}
	wg.Wait()

	results := make(map[string]string, len(h.checks))
	healthy := true
	for i, c := range h.checks {
		results[c.name] = statuses[i]
		if strings.HasPrefix(statuses[i], "unhealthy") {
			healthy = false
		}
	}
	return results, healthy
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks, healthy := h.run(ctx)
	response := HealthResponse{
		Status:    "healthy",
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	status := http.StatusOK
	if !healthy {
		response.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if _, healthy := h.run(ctx); !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
