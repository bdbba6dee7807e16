package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/memories/internal/calendar"
)

// StatsProvider yields the home-screen counters.
type StatsProvider interface {
	Stats() calendar.Stats
}

// HandleStats: GET /api/stats.
func HandleStats(stats StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stats.Stats())
	}
}

// Pinger is anything that can prove its backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// HandleHealth answers 200 {"status":"ok"} while the database answers a ping,
// and 503 otherwise, so an orchestrator can take the instance out of rotation.
func HandleHealth(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn("health check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
