package handlers

import (
	"net/http"
	"time"

	"pickem-app-go/logging"
	"pickem-app-go/middleware"
	"pickem-app-go/services"
)

// PicksHandler handles pick submission and retrieval for the logged-in
// user.
type PicksHandler struct {
	pickService   *services.PickService
	locker        *services.LineLocker
	defaultSeason int
	logger        *logging.Logger
}

// NewPicksHandler creates a new picks handler
func NewPicksHandler(pickService *services.PickService, locker *services.LineLocker, defaultSeason int) *PicksHandler {
	return &PicksHandler{
		pickService:   pickService,
		locker:        locker,
		defaultSeason: defaultSeason,
		logger:        logging.WithPrefix("PicksHandler"),
	}
}

// SubmitPicks handles POST /api/picks
func (h *PicksHandler) SubmitPicks(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var submission services.PickSubmission
	if err := decodeJSON(r, &submission); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pick, err := h.pickService.SubmitPicks(r.Context(), user.ID, &submission)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, pick)
}

// GetPicks handles GET /api/picks?season=&week=, returning the caller's
// own sheet.
func (h *PicksHandler) GetPicks(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

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

	pick, err := h.pickService.GetPick(r.Context(), user.ID, season, week)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if pick == nil {
		writeError(w, http.StatusNotFound, "no picks submitted for that week")
		return
	}

	writeJSON(w, http.StatusOK, pick)
}
