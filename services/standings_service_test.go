package services

import (
	"context"
	"testing"

	"pickem-app-go/models"
)

func weekScore(userID, week int, points float64, perfect bool) *models.WeeklyScore {
	correct := int(points)
	if correct > 4 {
		correct = 4
	}
	return &models.WeeklyScore{
		UserID:       userID,
		Season:       2026,
		Week:         week,
		Points:       points,
		CorrectCount: correct,
		PerfectWeek:  perfect,
	}
}

func leagueUsers() *fakeUsers {
	return &fakeUsers{users: []*models.User{
		{ID: 1, Name: "ALEX", Email: "alex@pickem.local"},
		{ID: 2, Name: "JORDAN", Email: "jordan@pickem.local"},
		{ID: 3, Name: "SAM", Email: "sam@pickem.local"},
	}}
}

func TestStandingsAccumulateAcrossWeeks(t *testing.T) {
	t.Parallel()

	weeklyScores := &fakeWeeklyScores{scores: []*models.WeeklyScore{
		weekScore(1, 1, 3, false),
		weekScore(1, 2, 5, true),
		weekScore(2, 1, 4, false),
		weekScore(3, 1, 5, true),
		weekScore(3, 2, 0, false),
	}}
	service := NewStandingsService(weeklyScores, leagueUsers(), nil)

	entries, err := service.Standings(context.Background(), 2026)
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("entries: got=%d want=3", len(entries))
	}
	top := entries[0]
	if top.UserID != 1 || top.TotalPoints != 8 || top.WeeksPlayed != 2 || top.PerfectWeeks != 1 {
		t.Fatalf("leader: %+v", top)
	}
	if top.UserName != "ALEX" {
		t.Fatalf("leader name: got=%s want=ALEX", top.UserName)
	}
	if entries[1].UserID != 3 || entries[2].UserID != 2 {
		t.Fatalf("order: got %d, %d want 3, 2", entries[1].UserID, entries[2].UserID)
	}
}

func TestStandingsBreakTiesByPerfectWeeksThenName(t *testing.T) {
	t.Parallel()

	weeklyScores := &fakeWeeklyScores{scores: []*models.WeeklyScore{
		weekScore(1, 1, 5, true),
		weekScore(2, 1, 5, false),
		weekScore(3, 1, 5, false),
	}}
	service := NewStandingsService(weeklyScores, leagueUsers(), nil)

	entries, err := service.Standings(context.Background(), 2026)
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}

	// All at 5 points: ALEX leads on the perfect week, then JORDAN before
	// SAM alphabetically.
	if entries[0].UserID != 1 {
		t.Fatalf("perfect week should break the tie: got user %d", entries[0].UserID)
	}
	if entries[1].UserName != "JORDAN" || entries[2].UserName != "SAM" {
		t.Fatalf("name tiebreak: got %s, %s", entries[1].UserName, entries[2].UserName)
	}
}

func TestStandingsEmptySeason(t *testing.T) {
	t.Parallel()

	service := NewStandingsService(&fakeWeeklyScores{}, leagueUsers(), nil)

	entries, err := service.Standings(context.Background(), 2026)
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected an empty table, got %d entries", len(entries))
	}
}

func TestStandingsFallBackToPlaceholderName(t *testing.T) {
	t.Parallel()

	weeklyScores := &fakeWeeklyScores{scores: []*models.WeeklyScore{
		weekScore(42, 1, 3, false),
	}}
	service := NewStandingsService(weeklyScores, &fakeUsers{}, nil)

	entries, err := service.Standings(context.Background(), 2026)
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if entries[0].UserName != "User 42" {
		t.Fatalf("placeholder name: got=%s want=User 42", entries[0].UserName)
	}
}

func TestScoreboardOrdersByPointsThenName(t *testing.T) {
	t.Parallel()

	weeklyScores := &fakeWeeklyScores{scores: []*models.WeeklyScore{
		weekScore(1, 1, 3, false),
		weekScore(2, 1, 5, true),
		weekScore(3, 1, 3, false),
		weekScore(1, 2, 4, false), // different week, must not appear
	}}
	service := NewStandingsService(weeklyScores, leagueUsers(), nil)

	rows, err := service.Scoreboard(context.Background(), 2026, 1)
	if err != nil {
		t.Fatalf("Scoreboard: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("rows: got=%d want=3", len(rows))
	}
	if rows[0].UserID != 2 || !rows[0].PerfectWeek {
		t.Fatalf("top row: %+v", rows[0])
	}
	// ALEX and SAM tie at 3; names settle it.
	if rows[1].UserName != "ALEX" || rows[2].UserName != "SAM" {
		t.Fatalf("tie order: got %s, %s", rows[1].UserName, rows[2].UserName)
	}
}

func TestScoreboardRejectsOutOfRangeWeek(t *testing.T) {
	t.Parallel()

	service := NewStandingsService(&fakeWeeklyScores{}, leagueUsers(), nil)

	if _, err := service.Scoreboard(context.Background(), 2026, 0); err == nil {
		t.Fatal("expected error for week 0")
	}
	if _, err := service.Scoreboard(context.Background(), 2026, 19); err == nil {
		t.Fatal("expected error for week 19")
	}
}
