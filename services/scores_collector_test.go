package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pickem-app-go/models"
)

// scoresPayload has one properly completed game, one still in progress,
// and one completed game with an unparseable score.
const scoresPayload = `[
  {
    "id": "s1",
    "sport_key": "americanfootball_nfl",
    "commence_time": "2026-09-13T17:00:00Z",
    "completed": true,
    "home_team": "Dallas Cowboys",
    "away_team": "New York Giants",
    "scores": [
      {"name": "Dallas Cowboys", "score": "27"},
      {"name": "New York Giants", "score": "17"}
    ]
  },
  {
    "id": "s2",
    "sport_key": "americanfootball_nfl",
    "commence_time": "2026-09-13T20:25:00Z",
    "completed": false,
    "home_team": "Green Bay Packers",
    "away_team": "Chicago Bears",
    "scores": [
      {"name": "Green Bay Packers", "score": "14"},
      {"name": "Chicago Bears", "score": "10"}
    ]
  },
  {
    "id": "s3",
    "sport_key": "americanfootball_nfl",
    "commence_time": "2026-09-14T00:20:00Z",
    "completed": true,
    "home_team": "Buffalo Bills",
    "away_team": "Miami Dolphins",
    "scores": [
      {"name": "Buffalo Bills", "score": "N/A"},
      {"name": "Miami Dolphins", "score": "10"}
    ]
  }
]`

func TestCollectScoresKeepsOnlyCompletedGames(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scoresPayload))
	}))
	defer server.Close()

	rawRecords := &fakeRawRecords{}
	gameScores := &fakeGameScores{}
	client := NewOddsAPIClient(OddsAPIConfig{BaseURL: server.URL, APIKey: "k"})
	collector := NewScoresCollector(client, rawRecords, gameScores, 3)

	snapshot, err := collector.CollectScores(context.Background(), models.TriggerAutomated)
	if err != nil {
		t.Fatalf("CollectScores: %v", err)
	}

	if snapshot.CompletedCount != 1 || len(snapshot.Scores) != 1 {
		t.Fatalf("completed games: got=%d want=1", snapshot.CompletedCount)
	}
	final := snapshot.Scores[0]
	if final.GameID != "s1" || final.HomeScore != 27 || final.AwayScore != 17 {
		t.Fatalf("final: %+v", final)
	}
	if final.TotalPoints != 44 {
		t.Fatalf("total points: got=%d want=44", final.TotalPoints)
	}

	// The raw response is archived even though two games were dropped.
	if len(rawRecords.records) != 1 {
		t.Fatalf("raw records: got=%d want=1", len(rawRecords.records))
	}
	record := rawRecords.records[0]
	if record.APIType != models.APITypeAutomatedGetScores {
		t.Fatalf("api type: got=%s want=%s", record.APIType, models.APITypeAutomatedGetScores)
	}
	if record.GameCount != 3 {
		t.Fatalf("raw game count: got=%d want=3", record.GameCount)
	}

	if len(gameScores.snapshots) != 1 {
		t.Fatalf("persisted snapshots: got=%d want=1", len(gameScores.snapshots))
	}
}

func TestCollectScoresWritesNothingOnProviderError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	rawRecords := &fakeRawRecords{}
	gameScores := &fakeGameScores{}
	collector := NewScoresCollector(NewOddsAPIClient(OddsAPIConfig{BaseURL: server.URL, APIKey: "k"}), rawRecords, gameScores, 1)

	if _, err := collector.CollectScores(context.Background(), models.TriggerManual); err == nil {
		t.Fatal("expected an error from the failing provider")
	}
	if len(rawRecords.records) != 0 || len(gameScores.snapshots) != 0 {
		t.Fatal("a failed fetch must persist nothing")
	}
}

func TestRecordResultsValidatesEntries(t *testing.T) {
	t.Parallel()

	gameScores := &fakeGameScores{}
	collector := NewScoresCollector(NewOddsAPIClient(OddsAPIConfig{}), &fakeRawRecords{}, gameScores, 1)
	ctx := context.Background()

	if _, err := collector.RecordResults(ctx, nil); err == nil {
		t.Fatal("expected an error for empty results")
	}

	missingID := []models.GameScore{{HomeTeam: "A", AwayTeam: "B", HomeScore: 10, AwayScore: 7}}
	if _, err := collector.RecordResults(ctx, missingID); err == nil {
		t.Fatal("expected an error for a missing game id")
	}

	negative := []models.GameScore{{GameID: "m1", HomeTeam: "A", AwayTeam: "B", HomeScore: -1, AwayScore: 7}}
	if _, err := collector.RecordResults(ctx, negative); err == nil {
		t.Fatal("expected an error for a negative score")
	}
}

func TestRecordResultsStoresManualSnapshot(t *testing.T) {
	t.Parallel()

	gameScores := &fakeGameScores{}
	collector := NewScoresCollector(NewOddsAPIClient(OddsAPIConfig{}), &fakeRawRecords{}, gameScores, 1)

	results := []models.GameScore{
		{GameID: "m1", HomeTeam: "Dallas Cowboys", HomeScore: 24, AwayTeam: "New York Giants", AwayScore: 21},
	}
	snapshot, err := collector.RecordResults(context.Background(), results)
	if err != nil {
		t.Fatalf("RecordResults: %v", err)
	}

	if snapshot.CompletedCount != 1 {
		t.Fatalf("completed count: got=%d want=1", snapshot.CompletedCount)
	}
	if snapshot.Scores[0].TotalPoints != 45 {
		t.Fatalf("total points should be derived: got=%d want=45", snapshot.Scores[0].TotalPoints)
	}
	if len(gameScores.snapshots) != 1 {
		t.Fatalf("persisted snapshots: got=%d want=1", len(gameScores.snapshots))
	}

	// Manual results flow into the same current-scores view.
	finals, err := gameScores.CurrentScores(context.Background())
	if err != nil {
		t.Fatalf("CurrentScores: %v", err)
	}
	if _, ok := finals["m1"]; !ok {
		t.Fatal("manual result missing from current scores")
	}
}
