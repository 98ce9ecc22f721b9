package api

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker reports whether a dependency answers.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type HealthResponse struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Timestamp int64   `json:"timestamp"`
}

// HealthHandler reports liveness, uptime in seconds and the current unix time
// in milliseconds. Status is "degraded" when db is set and does not answer.
func HealthHandler(startedAt time.Time, now func() time.Time, db HealthChecker) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if db != nil && !db.Healthy(r.Context()) {
			status = "degraded"
		}
		t := now()
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, HealthResponse{
			Status:    status,
			Uptime:    t.Sub(startedAt).Seconds(),
			Timestamp: t.UnixMilli(),
		})
	}
}
