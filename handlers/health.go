package handlers

import (
	"net/http"
	"time"

	"pickem-app-go/database"
	"pickem-app-go/logging"
	"pickem-app-go/services"
)

// HealthHandler reports liveness plus the state of the two dependencies
// the app cannot run without.
type HealthHandler struct {
	db       *database.MongoDB
	provider *services.OddsAPIClient
	started  time.Time
	logger   *logging.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.MongoDB, provider *services.OddsAPIClient) *HealthHandler {
	return &HealthHandler{
		db:       db,
		provider: provider,
		started:  time.Now(),
		logger:   logging.WithPrefix("HealthHandler"),
	}
}

// Health handles GET /health. The database decides up or down; the
// provider check is informational since the app keeps serving stored
// lines when the provider is unreachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	dbStatus := "ok"
	if err := h.db.TestConnection(); err != nil {
		h.logger.Errorf("Health check: database unreachable: %v", err)
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	providerStatus := "ok"
	if h.provider != nil {
		if !h.provider.HealthCheck(r.Context()) {
			providerStatus = "unreachable"
		}
	} else {
		providerStatus = "not configured"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	writeJSON(w, status, struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Provider string `json:"provider"`
		Uptime   string `json:"uptime"`
	}{
		Status:   overall,
		Database: dbStatus,
		Provider: providerStatus,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
	})
}
