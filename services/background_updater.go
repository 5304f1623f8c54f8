package services

import (
	"context"
	"time"

	"pickem-app-go/logging"
	"pickem-app-go/models"
)

// Odds collection hours, Pacific time.
var oddsCollectionHours = []int{9, 21}

// BackgroundUpdater runs the odds and scores collectors on their own
// schedules for deployments without an external scheduler. Odds are pulled
// twice daily at fixed Pacific hours and folded straight into a snapshot;
// scores run on a plain interval.
type BackgroundUpdater struct {
	oddsCollector   *OddsCollector
	snapshotBuilder *SnapshotBuilder
	scoresCollector *ScoresCollector
	scoresInterval  time.Duration
	stopChan        chan struct{}
	running         bool
	logger          *logging.Logger
}

// NewBackgroundUpdater creates a new background updater service
func NewBackgroundUpdater(oddsCollector *OddsCollector, snapshotBuilder *SnapshotBuilder, scoresCollector *ScoresCollector, scoresInterval time.Duration) *BackgroundUpdater {
	if scoresInterval <= 0 {
		scoresInterval = 6 * time.Hour
	}
	return &BackgroundUpdater{
		oddsCollector:   oddsCollector,
		snapshotBuilder: snapshotBuilder,
		scoresCollector: scoresCollector,
		scoresInterval:  scoresInterval,
		stopChan:        make(chan struct{}),
		logger:          logging.WithPrefix("BackgroundUpdater"),
	}
}

// Start launches both collection loops. Calling Start twice is a no-op.
func (bu *BackgroundUpdater) Start() {
	if bu.running {
		bu.logger.Warnf("Already running")
		return
	}
	bu.running = true

	bu.logger.Infof("Starting: odds at %02d:00/%02d:00 Pacific, scores every %v",
		oddsCollectionHours[0], oddsCollectionHours[1], bu.scoresInterval)

	go bu.oddsLoop()
	go bu.scoresLoop()
}

// Stop halts both loops. In-flight runs finish on their own.
func (bu *BackgroundUpdater) Stop() {
	if !bu.running {
		return
	}
	bu.logger.Infof("Stopping background collection")
	bu.running = false
	close(bu.stopChan)
}

// IsRunning returns whether the background updater is currently running
func (bu *BackgroundUpdater) IsRunning() bool {
	return bu.running
}

// oddsLoop sleeps until the next scheduled Pacific collection hour, runs a
// collection, and repeats.
func (bu *BackgroundUpdater) oddsLoop() {
	for {
		wait := time.Until(nextOddsRun(time.Now()))
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			bu.collectOdds()
		case <-bu.stopChan:
			timer.Stop()
			return
		}
	}
}

// scoresLoop runs one collection immediately, then on the configured
// interval.
func (bu *BackgroundUpdater) scoresLoop() {
	bu.collectScores()

	ticker := time.NewTicker(bu.scoresInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			bu.collectScores()
		case <-bu.stopChan:
			return
		}
	}
}

func (bu *BackgroundUpdater) collectOdds() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	record, err := bu.oddsCollector.CollectOdds(ctx, models.TriggerAutomated)
	if err != nil {
		bu.logger.Errorf("Odds collection failed: %v", err)
		return
	}

	snapshot, err := bu.snapshotBuilder.BuildSnapshot(ctx, record)
	if err != nil {
		bu.logger.Errorf("Snapshot build failed: %v", err)
		return
	}

	bu.logger.Infof("Odds run finished in %v: %d games, snapshot %s",
		time.Since(start), record.GameCount, snapshot.SnapshotID)
}

func (bu *BackgroundUpdater) collectScores() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	snapshot, err := bu.scoresCollector.CollectScores(ctx, models.TriggerAutomated)
	if err != nil {
		bu.logger.Errorf("Scores collection failed: %v", err)
		return
	}

	bu.logger.Infof("Scores run finished in %v: %d completed games",
		time.Since(start), snapshot.CompletedCount)
}

// nextOddsRun returns the first scheduled collection instant after now.
func nextOddsRun(now time.Time) time.Time {
	pacific := now.In(models.PacificLocation())
	for _, hour := range oddsCollectionHours {
		candidate := time.Date(pacific.Year(), pacific.Month(), pacific.Day(), hour, 0, 0, 0, pacific.Location())
		if candidate.After(pacific) {
			return candidate
		}
	}
	// Both hours are behind us; first slot tomorrow.
	tomorrow := pacific.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), oddsCollectionHours[0], 0, 0, 0, pacific.Location())
}
