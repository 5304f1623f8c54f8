package handlers

import (
	"net/http"
	"time"

	"pickem-app-go/logging"
	"pickem-app-go/services"
)

// LinesHandler serves the locked betting lines players pick against.
type LinesHandler struct {
	locker        *services.LineLocker
	defaultSeason int
	logger        *logging.Logger
}

// NewLinesHandler creates a new lines handler
func NewLinesHandler(locker *services.LineLocker, defaultSeason int) *LinesHandler {
	return &LinesHandler{
		locker:        locker,
		defaultSeason: defaultSeason,
		logger:        logging.WithPrefix("LinesHandler"),
	}
}

// GetLines handles GET /api/lines?season=&week=. Season and week default
// to the current ones.
func (h *LinesHandler) GetLines(w http.ResponseWriter, r *http.Request) {
	season, err := intQuery(r, "season", h.defaultSeason)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	week, err := intQuery(r, "week", h.locker.CurrentWeek(time.Now()))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lock, err := h.locker.LockedLines(r.Context(), season, week)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Season int `json:"season"`
		Week   int `json:"week"`
		*services.LockResult
	}{
		Season:     season,
		Week:       week,
		LockResult: lock,
	})
}
