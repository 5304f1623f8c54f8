package handlers

import (
	"net/http"

	"pickem-app-go/logging"
	"pickem-app-go/middleware"
	"pickem-app-go/models"
	"pickem-app-go/services"
)

// AdminHandler exposes the collection and scoring pipeline to admins.
// Every route under /api/admin sits behind the admin middleware.
type AdminHandler struct {
	oddsCollector   *services.OddsCollector
	snapshotBuilder *services.SnapshotBuilder
	scoresCollector *services.ScoresCollector
	scoringService  *services.ScoringService
	defaultSeason   int
	logger          *logging.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(oddsCollector *services.OddsCollector, snapshotBuilder *services.SnapshotBuilder, scoresCollector *services.ScoresCollector, scoringService *services.ScoringService, defaultSeason int) *AdminHandler {
	return &AdminHandler{
		oddsCollector:   oddsCollector,
		snapshotBuilder: snapshotBuilder,
		scoresCollector: scoresCollector,
		scoringService:  scoringService,
		defaultSeason:   defaultSeason,
		logger:          logging.WithPrefix("AdminHandler"),
	}
}

// CollectOdds handles POST /api/admin/collect-odds: one manual provider
// round trip plus the snapshot built from it.
func (h *AdminHandler) CollectOdds(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	h.logger.Infof("Manual odds collection triggered by %s", user.Email)

	record, err := h.oddsCollector.CollectOdds(r.Context(), models.TriggerManual)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	snapshot, err := h.snapshotBuilder.BuildSnapshot(r.Context(), record)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		RecordID   string `json:"record_id"`
		APIType    string `json:"api_type"`
		GameCount  int    `json:"game_count"`
		SnapshotID string `json:"snapshot_id"`
		LineCount  int    `json:"line_count"`
	}{
		RecordID:   record.ID.Hex(),
		APIType:    record.APIType,
		GameCount:  record.GameCount,
		SnapshotID: snapshot.SnapshotID,
		LineCount:  snapshot.GameCount,
	})
}

// CollectScores handles POST /api/admin/collect-scores
func (h *AdminHandler) CollectScores(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	h.logger.Infof("Manual scores collection triggered by %s", user.Email)

	snapshot, err := h.scoresCollector.CollectScores(r.Context(), models.TriggerManual)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		SnapshotID     string `json:"snapshot_id"`
		CompletedCount int    `json:"completed_count"`
	}{
		SnapshotID:     snapshot.SnapshotID,
		CompletedCount: snapshot.CompletedCount,
	})
}

// RecordResults handles POST /api/admin/results with a JSON array of final
// scores to enter by hand.
func (h *AdminHandler) RecordResults(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Results []models.GameScore `json:"results"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(body.Results) == 0 {
		writeError(w, http.StatusBadRequest, "results array is required")
		return
	}

	snapshot, err := h.scoresCollector.RecordResults(r.Context(), body.Results)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := middleware.GetUserFromContext(r)
	h.logger.Infof("%s recorded %d manual results", user.Email, snapshot.CompletedCount)
	writeJSON(w, http.StatusOK, struct {
		SnapshotID     string `json:"snapshot_id"`
		CompletedCount int    `json:"completed_count"`
	}{
		SnapshotID:     snapshot.SnapshotID,
		CompletedCount: snapshot.CompletedCount,
	})
}

// Rescore handles POST /api/admin/rescore?season=&week= (body JSON also
// accepted), re-grading the whole week.
func (h *AdminHandler) Rescore(w http.ResponseWriter, r *http.Request) {
	season, err := intQuery(r, "season", h.defaultSeason)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	week, err := intQuery(r, "week", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if week == 0 && r.ContentLength > 0 {
		var body struct {
			Season int `json:"season"`
			Week   int `json:"week"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if body.Season != 0 {
			season = body.Season
		}
		week = body.Week
	}
	if week == 0 {
		writeError(w, http.StatusBadRequest, "week is required")
		return
	}

	report, err := h.scoringService.RescoreWeek(r.Context(), season, week)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// RawRecords handles GET /api/admin/raw-records?type=&limit=
func (h *AdminHandler) RawRecords(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.oddsCollector.RecentRecords(r.Context(), r.URL.Query().Get("type"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Count   int                 `json:"count"`
		Records []*models.RawRecord `json:"records"`
	}{Count: len(records), Records: records})
}
