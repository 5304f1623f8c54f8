package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pickem-app-go/models"
)

func lockTestCalendar() models.SeasonCalendar {
	return models.NewSeasonCalendar(2026, time.September, 5, 17)
}

func snapshotAt(id string, createdAt time.Time) *models.Snapshot {
	return &models.Snapshot{
		SnapshotID: id,
		CreatedAt:  createdAt,
		GameCount:  1,
		Games:      []models.GameLine{{GameID: "g1", HomeTeam: "Dallas Cowboys", AwayTeam: "New York Giants"}},
	}
}

func TestLockedLinesPicksClosestSnapshotBeforeCutoff(t *testing.T) {
	t.Parallel()

	calendar := lockTestCalendar()
	cutoff := calendar.LockCutoff(1)

	snapshots := &fakeSnapshots{snapshots: []*models.Snapshot{
		snapshotAt("stale", cutoff.Add(-48*time.Hour)),
		snapshotAt("fresh", cutoff.Add(-time.Hour)),
		snapshotAt("too-late", cutoff.Add(time.Hour)),
	}}
	locker := NewLineLocker(snapshots, calendar, true, nil)

	result, err := locker.LockedLines(context.Background(), 2026, 1)
	if err != nil {
		t.Fatalf("LockedLines: %v", err)
	}
	if result.Snapshot.SnapshotID != "fresh" {
		t.Fatalf("locked snapshot: got=%s want=fresh", result.Snapshot.SnapshotID)
	}
	if !result.Cutoff.Equal(cutoff) {
		t.Fatalf("cutoff: got=%s want=%s", result.Cutoff, cutoff)
	}
	if result.UsedFallback {
		t.Fatal("fallback flag set with a valid pre-cutoff snapshot")
	}

	// Same inputs, same answer.
	again, err := locker.LockedLines(context.Background(), 2026, 1)
	if err != nil {
		t.Fatalf("second LockedLines: %v", err)
	}
	if again.Snapshot.SnapshotID != "fresh" {
		t.Fatalf("repeat lock not deterministic: got=%s", again.Snapshot.SnapshotID)
	}
}

func TestLockedLinesStrictModeFailsWithoutPreCutoffSnapshot(t *testing.T) {
	t.Parallel()

	calendar := lockTestCalendar()
	cutoff := calendar.LockCutoff(1)

	snapshots := &fakeSnapshots{snapshots: []*models.Snapshot{
		snapshotAt("too-late", cutoff.Add(time.Hour)),
	}}
	locker := NewLineLocker(snapshots, calendar, true, nil)

	_, err := locker.LockedLines(context.Background(), 2026, 1)
	if !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestLockedLinesFallsBackToMostRecent(t *testing.T) {
	t.Parallel()

	calendar := lockTestCalendar()
	cutoff := calendar.LockCutoff(1)

	snapshots := &fakeSnapshots{snapshots: []*models.Snapshot{
		snapshotAt("late-1", cutoff.Add(time.Hour)),
		snapshotAt("late-2", cutoff.Add(2*time.Hour)),
	}}
	locker := NewLineLocker(snapshots, calendar, false, nil)

	result, err := locker.LockedLines(context.Background(), 2026, 1)
	if err != nil {
		t.Fatalf("LockedLines: %v", err)
	}
	if !result.UsedFallback {
		t.Fatal("fallback flag not set")
	}
	if result.Snapshot.SnapshotID != "late-2" {
		t.Fatalf("fallback snapshot: got=%s want=late-2", result.Snapshot.SnapshotID)
	}
}

func TestLockedLinesNoSnapshotsAtAll(t *testing.T) {
	t.Parallel()

	locker := NewLineLocker(&fakeSnapshots{}, lockTestCalendar(), false, nil)

	_, err := locker.LockedLines(context.Background(), 2026, 1)
	if !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestLockedLinesRejectsOutOfRangeWeek(t *testing.T) {
	t.Parallel()

	locker := NewLineLocker(&fakeSnapshots{}, lockTestCalendar(), false, nil)

	if _, err := locker.LockedLines(context.Background(), 2026, 0); err == nil {
		t.Fatal("expected error for week 0")
	}
	if _, err := locker.LockedLines(context.Background(), 2026, 19); err == nil {
		t.Fatal("expected error for week 19")
	}
}

func TestLineLockerCalendarHelpers(t *testing.T) {
	t.Parallel()

	calendar := lockTestCalendar()
	locker := NewLineLocker(&fakeSnapshots{}, calendar, false, nil)

	if got, want := locker.SubmissionDeadline(2026, 1), calendar.SubmissionDeadline(1); !got.Equal(want) {
		t.Fatalf("deadline: got=%s want=%s", got, want)
	}
	opening := time.Date(2026, 9, 5, 12, 0, 0, 0, models.PacificLocation())
	if got := locker.CurrentWeek(opening); got != 1 {
		t.Fatalf("current week: got=%d want=1", got)
	}
}
