package http

import (
	"net/http"

	"github.com/go-chi/render"

	"gradepulse/internal/services"
)

// HealthHandler reports process liveness and snapshot readiness.
type HealthHandler struct {
	service *services.AnalyticsService
	version string
}

// NewHealthHandler creates the handler.
func NewHealthHandler(service *services.AnalyticsService, version string) *HealthHandler {
	return &HealthHandler{service: service, version: version}
}

type healthResponse struct {
	Status  string          `json:"status"`
	Version string          `json:"version"`
	Data    services.Status `json:"data"`
}

// Healthz always returns 200 once the process serves traffic; the payload
// says whether analysis data is ready.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{
		Status:  "ok",
		Version: h.version,
		Data:    h.service.Status(),
	})
}
