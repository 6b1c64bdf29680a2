package queueserver

import (
	"encoding/json"
	"net/http"

	"github.com/chn0318/logqueue/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AdminRouter serves health, status and Prometheus metrics.
func (s *QueueService) AdminRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/status", s.handleStatus)
	r.Handle("/metrics", telemetry.Handler())

	return r
}

func (s *QueueService) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]interface{}{
		"recovery_done":  s.queue.RecoveryDone(),
		"next_read_loc":  s.queue.NextReadLocation().Lo,
		"max_commit_gsn": s.mapService.MaxCommitGSN(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Warn().Err(err).Msg("Failed to write status response")
	}
}
