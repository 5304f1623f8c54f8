// One-shot scores collection for cron or CI schedulers: pull recent
// results, archive the response, store the completed games, exit.
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
	logger := logging.WithPrefix("ScoresCollectorCmd")

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	rawRecordRepo := database.NewMongoRawRecordRepository(db)
	gameScoreRepo := database.NewMongoGameScoreRepository(db)

	client := services.NewOddsAPIClient(services.OddsAPIConfig{
		BaseURL: cfg.Odds.BaseURL,
		APIKey:  cfg.Odds.APIKey,
		Timeout: cfg.Odds.Timeout,
	})
	collector := services.NewScoresCollector(client, rawRecordRepo, gameScoreRepo, cfg.Odds.ScoresLookbackDays)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snapshot, err := collector.CollectScores(ctx, models.TriggerScheduled)
	if err != nil {
		logger.Fatalf("Scores collection failed: %v", err)
	}

	logger.Infof("Stored %d completed games in snapshot %s",
		snapshot.CompletedCount, snapshot.SnapshotID)
}
