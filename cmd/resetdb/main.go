// Development utility that clears collected and derived league data so a
// fresh collection cycle can start from nothing. Users are preserved; they
// hold login credentials.
package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"pickem-app-go/config"
	"pickem-app-go/database"
	"pickem-app-go/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Configuration error: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())
	logger := logging.WithPrefix("ResetDB")

	logger.Warn("This removes ALL collected odds, snapshots, scores, picks, and standings data")

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.TestConnection(); err != nil {
		logger.Fatalf("Database connection test failed: %v", err)
	}

	collections := []string{
		"raw_records",
		"snapshots",
		"game_scores",
		"picks",
		"weekly_scores",
	}

	ctx := context.Background()
	for _, name := range collections {
		result, err := db.GetCollection(name).DeleteMany(ctx, bson.M{})
		if err != nil {
			logger.Fatalf("Failed to clear %s: %v", name, err)
		}
		logger.Infof("Cleared %s (%d documents)", name, result.DeletedCount)
	}

	logger.Info("Users collection preserved (contains login credentials)")
	logger.Info("Database reset complete; run the odds collector to rebuild")
}
