package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pickem-app-go/cache"
	"pickem-app-go/logging"
	"pickem-app-go/models"
)

// ErrNoSnapshot means no line snapshot exists that can serve the request.
var ErrNoSnapshot = errors.New("no line snapshot available")

// LockResult reports which snapshot a week locked to and how it was chosen.
type LockResult struct {
	Snapshot     *models.Snapshot `json:"snapshot"`
	Cutoff       time.Time        `json:"cutoff"`
	UsedFallback bool             `json:"used_fallback"`
}

// LineLocker selects the snapshot a week's picks are played against:
// the one created closest to but not after Wednesday 09:00 Pacific of
// that week.
type LineLocker struct {
	snapshots SnapshotRepository
	calendar  models.SeasonCalendar
	strict    bool
	cache     *cache.RedisCache
	logger    *logging.Logger
}

// NewLineLocker creates a new line locker. In strict mode a week with no
// snapshot before its cutoff is an error instead of falling back to the
// most recent snapshot.
func NewLineLocker(snapshots SnapshotRepository, calendar models.SeasonCalendar, strict bool, redisCache *cache.RedisCache) *LineLocker {
	return &LineLocker{
		snapshots: snapshots,
		calendar:  calendar,
		strict:    strict,
		cache:     redisCache,
		logger:    logging.WithPrefix("LineLocker"),
	}
}

// LockedLines resolves the locked snapshot for (season, week). The result
// names the cutoff used and whether the fallback branch ran, so callers can
// show which lines actually applied. Deterministic for a fixed snapshot set.
func (l *LineLocker) LockedLines(ctx context.Context, season, week int) (*LockResult, error) {
	if week < models.FirstWeek || week > models.FinalWeek {
		return nil, fmt.Errorf("week %d out of range %d-%d", week, models.FirstWeek, models.FinalWeek)
	}

	cutoff := l.calendar.ForSeason(season).LockCutoff(week)

	cacheKey := cache.LockedLinesKey(season, week)
	var cached LockResult
	if l.cache.GetJSON(ctx, cacheKey, &cached) && cached.Snapshot != nil {
		return &cached, nil
	}

	snapshot, err := l.snapshots.LatestBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to select snapshot for week %d: %w", week, err)
	}

	usedFallback := false
	if snapshot == nil {
		if l.strict {
			return nil, fmt.Errorf("%w at or before cutoff %s", ErrNoSnapshot, cutoff.Format(time.RFC3339))
		}
		snapshot, err = l.snapshots.Latest(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to select fallback snapshot: %w", err)
		}
		if snapshot == nil {
			return nil, ErrNoSnapshot
		}
		usedFallback = true
		l.logger.Warnf("Week %d/%d: no snapshot before cutoff %s, using most recent %s",
			season, week, cutoff.Format(time.RFC3339), snapshot.SnapshotID)
	}

	result := &LockResult{
		Snapshot:     snapshot,
		Cutoff:       cutoff,
		UsedFallback: usedFallback,
	}
	l.cache.SetJSON(ctx, cacheKey, result)
	return result, nil
}

// SubmissionDeadline returns the instant picks for the week close.
func (l *LineLocker) SubmissionDeadline(season, week int) time.Time {
	return l.calendar.ForSeason(season).SubmissionDeadline(week)
}

// CurrentWeek returns the league week containing now for the season.
func (l *LineLocker) CurrentWeek(now time.Time) int {
	return l.calendar.WeekOf(now)
}
