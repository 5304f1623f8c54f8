package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"pickem-app-go/logging"
	"pickem-app-go/metrics"
	"pickem-app-go/models"
)

// SnapshotBuilder turns one raw odds record into a frozen snapshot of
// per-game lines for the configured bookmaker.
type SnapshotBuilder struct {
	rawRecords RawRecordRepository
	snapshots  SnapshotRepository
	bookmaker  string
	logger     *logging.Logger
}

// NewSnapshotBuilder creates a new snapshot builder
func NewSnapshotBuilder(rawRecords RawRecordRepository, snapshots SnapshotRepository, bookmaker string) *SnapshotBuilder {
	if bookmaker == "" {
		bookmaker = "DraftKings"
	}
	return &SnapshotBuilder{
		rawRecords: rawRecords,
		snapshots:  snapshots,
		bookmaker:  bookmaker,
		logger:     logging.WithPrefix("SnapshotBuilder"),
	}
}

// BuildSnapshot extracts lines from one raw odds record and persists the
// result. Games without the configured bookmaker are skipped entirely;
// input order is preserved and game ids are not deduplicated.
func (b *SnapshotBuilder) BuildSnapshot(ctx context.Context, record *models.RawRecord) (*models.Snapshot, error) {
	if record == nil {
		return nil, fmt.Errorf("no raw record to build from")
	}
	if !record.IsOddsRecord() {
		return nil, fmt.Errorf("raw record %s is %s, not an odds record", record.ID.Hex(), record.APIType)
	}

	var games []OddsGame
	if err := sonic.Unmarshal(record.Payload, &games); err != nil {
		return nil, fmt.Errorf("failed to decode odds payload: %w", err)
	}

	lines := make([]models.GameLine, 0, len(games))
	skipped := 0
	for _, game := range games {
		line, ok := b.buildLine(game)
		if !ok {
			skipped++
			continue
		}
		lines = append(lines, line)
	}

	snapshot := &models.Snapshot{
		SnapshotID: uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		GameCount:  len(lines),
		Games:      lines,
	}

	if err := b.snapshots.Insert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}

	metrics.SnapshotsBuilt.Inc()
	b.logger.Infof("Built snapshot %s: %d games kept, %d skipped (no %s lines)",
		snapshot.SnapshotID, len(lines), skipped, b.bookmaker)
	return snapshot, nil
}

// BuildFromLatest builds a snapshot from the most recent odds collection.
func (b *SnapshotBuilder) BuildFromLatest(ctx context.Context) (*models.Snapshot, error) {
	record, err := b.rawRecords.LatestOdds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest odds record: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("no odds records collected yet")
	}
	return b.BuildSnapshot(ctx, record)
}

// buildLine extracts one game's lines. The second return is false when the
// game must be skipped: missing identity or no entry from the configured
// bookmaker. A missing market only leaves that market's fields absent.
func (b *SnapshotBuilder) buildLine(game OddsGame) (models.GameLine, bool) {
	if game.ID == "" || game.HomeTeam == "" || game.AwayTeam == "" {
		return models.GameLine{}, false
	}

	bookmaker, ok := game.FindBookmaker(b.bookmaker)
	if !ok {
		return models.GameLine{}, false
	}

	line := models.GameLine{
		GameID:    game.ID,
		Kickoff:   game.CommenceTime,
		HomeTeam:  game.HomeTeam,
		AwayTeam:  game.AwayTeam,
		Bookmaker: bookmaker.Title,
	}

	if market, ok := bookmaker.Market(MarketH2H); ok {
		if outcome, ok := market.OutcomeByName(game.HomeTeam); ok {
			price := outcome.Price
			line.HomeMoneyline = &price
		}
		if outcome, ok := market.OutcomeByName(game.AwayTeam); ok {
			price := outcome.Price
			line.AwayMoneyline = &price
		}
	}

	if market, ok := bookmaker.Market(MarketSpreads); ok {
		if outcome, ok := market.OutcomeByName(game.HomeTeam); ok && outcome.Point != nil {
			point, price := *outcome.Point, outcome.Price
			line.HomeSpread = &point
			line.HomeSpreadPrice = &price
		}
		if outcome, ok := market.OutcomeByName(game.AwayTeam); ok && outcome.Point != nil {
			point, price := *outcome.Point, outcome.Price
			line.AwaySpread = &point
			line.AwaySpreadPrice = &price
		}
	}

	if market, ok := bookmaker.Market(MarketTotals); ok {
		if outcome, ok := market.OutcomeByName("Over"); ok && outcome.Point != nil {
			point, price := *outcome.Point, outcome.Price
			line.TotalPoints = &point
			line.OverPrice = &price
		}
		if outcome, ok := market.OutcomeByName("Under"); ok {
			price := outcome.Price
			line.UnderPrice = &price
		}
	}

	return line, true
}
