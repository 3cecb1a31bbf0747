package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/chatlinehq/chatline/internal/api"
)

// HealthCheck implements api.ServerInterface.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health.GetHealth()

	response := api.HealthResponse{
		Status:    health.Status,
		Timestamp: time.Now(),
	}

	if health.DatabaseStatus != "" {
		status := health.DatabaseStatus
		response.DatabaseStatus = &status
	}

	if health.RedisStatus != "" {
		status := health.RedisStatus
		response.RedisStatus = &status
	}

	if health.CircuitBreakerState != "" {
		state := health.CircuitBreakerState
		response.CircuitBreakerState = &state
	}

	if health.CircuitBreakerStatus != "" {
		response.CircuitBreakerStatus = &health.CircuitBreakerStatus
	}

	switch health.Status {
	case api.Unhealthy:
		w.WriteHeader(http.StatusServiceUnavailable)
	case api.Degraded:
		// 200 with degraded status: dispatch is blocked but reads still work.
		response.Status = api.Degraded
	}

	render.JSON(w, r, response)
}
