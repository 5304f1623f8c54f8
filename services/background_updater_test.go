package services

import (
	"testing"
	"time"

	"pickem-app-go/models"
)

func TestNextOddsRun(t *testing.T) {
	t.Parallel()

	loc := models.PacificLocation()
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before the morning slot",
			now:  time.Date(2026, 9, 10, 6, 30, 0, 0, loc),
			want: time.Date(2026, 9, 10, 9, 0, 0, 0, loc),
		},
		{
			name: "between the slots",
			now:  time.Date(2026, 9, 10, 14, 0, 0, 0, loc),
			want: time.Date(2026, 9, 10, 21, 0, 0, 0, loc),
		},
		{
			name: "after the evening slot rolls to tomorrow",
			now:  time.Date(2026, 9, 10, 23, 45, 0, 0, loc),
			want: time.Date(2026, 9, 11, 9, 0, 0, 0, loc),
		},
		{
			name: "exactly on a slot waits for the next one",
			now:  time.Date(2026, 9, 10, 9, 0, 0, 0, loc),
			want: time.Date(2026, 9, 10, 21, 0, 0, 0, loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextOddsRun(tt.now); !got.Equal(tt.want) {
				t.Fatalf("nextOddsRun(%s): got=%s want=%s", tt.now, got, tt.want)
			}
		})
	}
}

func TestNextOddsRunHandlesUTCInput(t *testing.T) {
	t.Parallel()

	// 05:00 UTC on Sept 11 is 22:00 Pacific on Sept 10, past both slots.
	now := time.Date(2026, 9, 11, 5, 0, 0, 0, time.UTC)
	want := time.Date(2026, 9, 11, 9, 0, 0, 0, models.PacificLocation())
	if got := nextOddsRun(now); !got.Equal(want) {
		t.Fatalf("nextOddsRun(%s): got=%s want=%s", now, got, want)
	}
}

func TestBackgroundUpdaterStartStop(t *testing.T) {
	t.Parallel()

	// Collectors never fire: the odds slot is hours away and the scores
	// client points at a dead address, so its immediate run fails fast.
	client := NewOddsAPIClient(OddsAPIConfig{BaseURL: "http://127.0.0.1:0", Timeout: 50 * time.Millisecond})
	odds := NewOddsCollector(client, &fakeRawRecords{})
	builder := NewSnapshotBuilder(&fakeRawRecords{}, &fakeSnapshots{}, "DraftKings")
	scores := NewScoresCollector(client, &fakeRawRecords{}, &fakeGameScores{}, 1)

	updater := NewBackgroundUpdater(odds, builder, scores, time.Hour)
	if updater.IsRunning() {
		t.Fatal("running before Start")
	}

	updater.Start()
	if !updater.IsRunning() {
		t.Fatal("not running after Start")
	}
	updater.Start() // second Start is a no-op

	updater.Stop()
	if updater.IsRunning() {
		t.Fatal("still running after Stop")
	}
	updater.Stop() // second Stop must not panic on the closed channel
}

func TestNewBackgroundUpdaterDefaultsInterval(t *testing.T) {
	t.Parallel()

	updater := NewBackgroundUpdater(nil, nil, nil, 0)
	if updater.scoresInterval != 6*time.Hour {
		t.Fatalf("default interval: got=%v want=6h", updater.scoresInterval)
	}
}
