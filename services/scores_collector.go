package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pickem-app-go/logging"
	"pickem-app-go/metrics"
	"pickem-app-go/models"
)

// ScoresCollector pulls final scores from the provider, archives the raw
// response, and folds completed games into a score snapshot.
type ScoresCollector struct {
	client       *OddsAPIClient
	rawRecords   RawRecordRepository
	gameScores   GameScoreRepository
	lookbackDays int
	logger       *logging.Logger
}

// NewScoresCollector creates a new scores collector
func NewScoresCollector(client *OddsAPIClient, rawRecords RawRecordRepository, gameScores GameScoreRepository, lookbackDays int) *ScoresCollector {
	if lookbackDays < 1 {
		lookbackDays = 1
	}
	return &ScoresCollector{
		client:       client,
		rawRecords:   rawRecords,
		gameScores:   gameScores,
		lookbackDays: lookbackDays,
		logger:       logging.WithPrefix("ScoresCollector"),
	}
}

// CollectScores performs one provider round trip. The raw payload is
// archived before any parsing so a bad response still leaves an audit
// trail. Only games the provider marks completed, with both scores
// parseable, make it into the snapshot.
func (c *ScoresCollector) CollectScores(ctx context.Context, trigger models.TriggerSource) (*models.ScoreSnapshot, error) {
	metrics.CollectorRuns.WithLabelValues(metrics.CollectorScores).Inc()

	result, err := c.client.FetchScores(ctx, c.lookbackDays)
	if err != nil {
		metrics.CollectorFailures.WithLabelValues(metrics.CollectorScores).Inc()
		return nil, fmt.Errorf("scores fetch failed: %w", err)
	}

	if result.QuotaRemaining >= 0 {
		metrics.QuotaRemaining.Set(float64(result.QuotaRemaining))
	}

	record := &models.RawRecord{
		APITimestamp:     time.Now().UTC(),
		APIType:          models.ScoresAPIType(trigger),
		APIParameters:    result.Params,
		Payload:          result.Raw,
		GameCount:        len(result.Games),
		AutomationRun:    trigger != models.TriggerManual,
		AutomationSource: automationSource(trigger),
	}
	if err := c.rawRecords.Insert(ctx, record); err != nil {
		metrics.CollectorFailures.WithLabelValues(metrics.CollectorScores).Inc()
		return nil, fmt.Errorf("failed to store raw scores record: %w", err)
	}

	snapshot := &models.ScoreSnapshot{
		SnapshotID: uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
	}
	for _, game := range result.Games {
		score, ok := c.finalScore(game)
		if !ok {
			continue
		}
		snapshot.Scores = append(snapshot.Scores, score)
	}
	snapshot.CompletedCount = len(snapshot.Scores)

	if err := c.gameScores.Insert(ctx, snapshot); err != nil {
		metrics.CollectorFailures.WithLabelValues(metrics.CollectorScores).Inc()
		return nil, fmt.Errorf("failed to store score snapshot: %w", err)
	}

	c.logger.Infof("Collected scores (%s): %d games, %d completed, quota remaining %d",
		trigger, len(result.Games), snapshot.CompletedCount, result.QuotaRemaining)
	return snapshot, nil
}

// RecordResults stores manually entered final scores as their own score
// snapshot. Used when the provider is down or misses a game.
func (c *ScoresCollector) RecordResults(ctx context.Context, scores []models.GameScore) (*models.ScoreSnapshot, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("no results to record")
	}
	for i, score := range scores {
		if score.GameID == "" {
			return nil, fmt.Errorf("result %d is missing a game id", i)
		}
		if score.HomeTeam == "" || score.AwayTeam == "" {
			return nil, fmt.Errorf("result for game %s is missing a team name", score.GameID)
		}
		if score.HomeScore < 0 || score.AwayScore < 0 {
			return nil, fmt.Errorf("result for game %s has a negative score", score.GameID)
		}
		scores[i].TotalPoints = score.HomeScore + score.AwayScore
	}

	snapshot := &models.ScoreSnapshot{
		SnapshotID:     uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		CompletedCount: len(scores),
		Scores:         scores,
	}
	if err := c.gameScores.Insert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to store manual results: %w", err)
	}

	c.logger.Infof("Recorded %d manual results in snapshot %s", len(scores), snapshot.SnapshotID)
	return snapshot, nil
}

// finalScore converts a provider game into a GameScore, skipping anything
// incomplete or unparseable.
func (c *ScoresCollector) finalScore(game ScoredGame) (models.GameScore, bool) {
	if !game.Completed || game.ID == "" {
		return models.GameScore{}, false
	}
	homeScore, ok := game.ScoreFor(game.HomeTeam)
	if !ok {
		c.logger.Warnf("Completed game %s (%s) has no parseable home score",
			game.ID, models.ShortMatchup(game.AwayTeam, game.HomeTeam))
		return models.GameScore{}, false
	}
	awayScore, ok := game.ScoreFor(game.AwayTeam)
	if !ok {
		c.logger.Warnf("Completed game %s (%s) has no parseable away score",
			game.ID, models.ShortMatchup(game.AwayTeam, game.HomeTeam))
		return models.GameScore{}, false
	}
	return models.GameScore{
		GameID:      game.ID,
		HomeTeam:    game.HomeTeam,
		HomeScore:   homeScore,
		AwayTeam:    game.AwayTeam,
		AwayScore:   awayScore,
		TotalPoints: homeScore + awayScore,
	}, true
}
