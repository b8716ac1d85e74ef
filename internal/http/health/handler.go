// Package health serves the liveness endpoint.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	applog "github.com/janisto/huma-contacts/internal/platform/logging"
)

const checkTimeout = 2 * time.Second

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status"`
}

// Check tests a dependency. A non-nil error marks the service unhealthy.
type Check func(ctx context.Context) error

// Handler returns a plain HTTP handler that runs checks in order and reports
// "healthy", or "unhealthy" with 503 on the first failure.
func Handler(checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				applog.LogError(r.Context(), "health check failed", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(Response{Status: "unhealthy"})
				return
			}
		}
		_ = json.NewEncoder(w).Encode(Response{Status: "healthy"})
	}
}
