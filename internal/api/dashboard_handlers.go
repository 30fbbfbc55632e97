package api

import (
	"net/http"
	"time"

	"github.com/vaidashi/backoffice-api/pkg/circuitbreaker"
)

// Health represents the health check response
type Health struct {
	Status    string                   `json:"status"`
	Version   string                   `json:"version"`
	Timestamp string                   `json:"timestamp"`
	Outbox    string                   `json:"outbox"`
	Kafka     *circuitbreaker.Snapshot `json:"kafka,omitempty"`
}

// healthCheckHandler handles the health check endpoint
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	health := Health{
		Status:    "ok",
		Version:   version,
		Timestamp: s.clock().Format(time.RFC3339),
		Outbox:    s.config.Outbox.Driver,
	}

	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.logger.Warn("Outbox database unreachable", "error", err)
			health.Status = "degraded"
		}
	}
	if s.kafkaBreaker != nil {
		snapshot := s.kafkaBreaker.Snapshot()
		health.Kafka = &snapshot
		if snapshot.State != circuitbreaker.StateClosed.String() {
			health.Status = "degraded"
		}
	}

	s.ok(w, health)
}

// dashboardStatsHandler recomputes the dashboard on every request
func (s *Server) dashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.dashboardService.Stats(r.Context())
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, stats)
}
