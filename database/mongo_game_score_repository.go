package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickem-app-go/logging"
	"pickem-app-go/models"
)

// MongoGameScoreRepository stores score snapshots of completed games.
type MongoGameScoreRepository struct {
	collection *mongo.Collection
}

// NewMongoGameScoreRepository creates a new MongoDB game score repository
func NewMongoGameScoreRepository(db *MongoDB) *MongoGameScoreRepository {
	collection := db.GetCollection("game_scores")

	ctx, cancel := WithMediumTimeout()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "created_at", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "scores.game_id", Value: 1},
			},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warnf("Could not create game_scores indexes: %v", err)
	}

	return &MongoGameScoreRepository{collection: collection}
}

// Insert writes a new score snapshot.
func (r *MongoGameScoreRepository) Insert(ctx context.Context, snapshot *models.ScoreSnapshot) error {
	if _, err := r.collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert score snapshot: %w", err)
	}
	return nil
}

// CurrentScores folds all score snapshots, oldest first, into the current
// final score per game id. A later collection of the same game overwrites
// the earlier entry.
func (r *MongoGameScoreRepository) CurrentScores(ctx context.Context) (map[string]models.GameScore, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load score snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var snapshots []*models.ScoreSnapshot
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to decode score snapshots: %w", err)
	}

	return models.LatestGameScores(snapshots), nil
}

// ScoresSince folds score snapshots created at or after the given time.
// Narrower than CurrentScores when only a recent window matters.
func (r *MongoGameScoreRepository) ScoresSince(ctx context.Context, since time.Time) (map[string]models.GameScore, error) {
	filter := bson.M{"created_at": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load score snapshots since %s: %w", since, err)
	}
	defer cursor.Close(ctx)

	var snapshots []*models.ScoreSnapshot
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to decode score snapshots: %w", err)
	}

	return models.LatestGameScores(snapshots), nil
}
