package handlers

import (
	"net/http"
	"time"

	"pickem-app-go/logging"
	"pickem-app-go/services"
)

// StandingsHandler serves weekly scoreboards and season standings.
type StandingsHandler struct {
	standings     *services.StandingsService
	locker        *services.LineLocker
	defaultSeason int
	logger        *logging.Logger
}

// NewStandingsHandler creates a new standings handler
func NewStandingsHandler(standings *services.StandingsService, locker *services.LineLocker, defaultSeason int) *StandingsHandler {
	return &StandingsHandler{
		standings:     standings,
		locker:        locker,
		defaultSeason: defaultSeason,
		logger:        logging.WithPrefix("StandingsHandler"),
	}
}

// GetScoreboard handles GET /api/scoreboard?season=&week=
func (h *StandingsHandler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.standings.Scoreboard(r.Context(), season, week)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Season int         `json:"season"`
		Week   int         `json:"week"`
		Rows   interface{} `json:"rows"`
	}{Season: season, Week: week, Rows: rows})
}

// GetStandings handles GET /api/standings?season=
func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	season, err := intQuery(r, "season", h.defaultSeason)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.standings.Standings(r.Context(), season)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Season  int         `json:"season"`
		Entries interface{} `json:"entries"`
	}{Season: season, Entries: entries})
}
