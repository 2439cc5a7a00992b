package handlers

import (
	"context"
	"net/http"
	"time"
)

type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	Uptime string `json:"uptime"`
}

// Health reports process liveness and database reachability. An
// unreachable database yields 500 with status "unhealthy"; the endpoint
// itself never fails.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status: "ok",
		DB:     "up",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("health check: database unreachable", "error", err)
		resp.Status = "unhealthy"
		resp.DB = "down"
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, resp)
}
