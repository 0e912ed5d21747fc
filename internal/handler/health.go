package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/directoryai/directoryai/internal/models"
	"github.com/directoryai/directoryai/internal/store"
)

const version = "1.0.0"

// HealthHandler handles GET /health with a storage connectivity check
type HealthHandler struct {
	users *store.UserStore
}

func NewHealthHandler(users *store.UserStore) *HealthHandler {
	return &HealthHandler{users: users}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.users.Ping(ctx); err != nil {
		checks["storage"] = "unavailable: " + err.Error()
		overallStatus = "degraded"
	} else {
		checks["storage"] = "ok"
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: version,
		Checks:  checks,
	})
}
