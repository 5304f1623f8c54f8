// One-shot odds collection for cron or CI schedulers: pull the current
// board, archive it, build a line snapshot, exit. Exits non-zero on any
// failure so the scheduler can alert.
package main

import (
	"context"
	"time"

	"pickem-app-go/config"
	"pickem-app-go/database"
	"pickem-app-go/logging"
	"pickem-app-go/models"
	"pickem-app-go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Configuration error: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())
	logger := logging.WithPrefix("OddsCollectorCmd")

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	rawRecordRepo := database.NewMongoRawRecordRepository(db)
	snapshotRepo := database.NewMongoSnapshotRepository(db)

	client := services.NewOddsAPIClient(services.OddsAPIConfig{
		BaseURL: cfg.Odds.BaseURL,
		APIKey:  cfg.Odds.APIKey,
		Timeout: cfg.Odds.Timeout,
	})
	collector := services.NewOddsCollector(client, rawRecordRepo)
	builder := services.NewSnapshotBuilder(rawRecordRepo, snapshotRepo, cfg.Odds.Bookmaker)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	record, err := collector.CollectOdds(ctx, models.TriggerScheduled)
	if err != nil {
		logger.Fatalf("Odds collection failed: %v", err)
	}

	snapshot, err := builder.BuildSnapshot(ctx, record)
	if err != nil {
		logger.Fatalf("Snapshot build failed: %v", err)
	}

	logger.Infof("Collected %d games; snapshot %s holds %d lines",
		record.GameCount, snapshot.SnapshotID, snapshot.GameCount)
}
