package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickem-app-go/logging"
	"pickem-app-go/models"
)

// MongoWeeklyScoreRepository stores derived weekly scoring results.
type MongoWeeklyScoreRepository struct {
	collection *mongo.Collection
}

// NewMongoWeeklyScoreRepository creates a new MongoDB weekly score repository
func NewMongoWeeklyScoreRepository(db *MongoDB) *MongoWeeklyScoreRepository {
	collection := db.GetCollection("weekly_scores")

	ctx, cancel := WithMediumTimeout()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "season", Value: 1},
				{Key: "week", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "season", Value: 1},
				{Key: "week", Value: 1},
			},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warnf("Could not create weekly_scores indexes: %v", err)
	}

	return &MongoWeeklyScoreRepository{collection: collection}
}

// Upsert overwrites the score for (user, season, week). Rescoring a week is
// always safe; the document is pure derived data.
func (r *MongoWeeklyScoreRepository) Upsert(ctx context.Context, score *models.WeeklyScore) error {
	filter := bson.M{
		"user_id": score.UserID,
		"season":  score.Season,
		"week":    score.Week,
	}
	update := bson.M{"$set": bson.M{
		"user_id":       score.UserID,
		"season":        score.Season,
		"week":          score.Week,
		"points":        score.Points,
		"correct_count": score.CorrectCount,
		"perfect_week":  score.PerfectWeek,
		"scored_at":     score.ScoredAt,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert weekly score: %w", err)
	}
	return nil
}

// FindByWeek retrieves all users' scores for a week.
func (r *MongoWeeklyScoreRepository) FindByWeek(ctx context.Context, season, week int) ([]*models.WeeklyScore, error) {
	filter := bson.M{
		"season": season,
		"week":   week,
	}
	opts := options.Find().SetSort(bson.D{{Key: "points", Value: -1}, {Key: "user_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find weekly scores: %w", err)
	}
	defer cursor.Close(ctx)

	var scores []*models.WeeklyScore
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode weekly scores: %w", err)
	}
	return scores, nil
}

// FindBySeason retrieves every stored weekly score in a season.
func (r *MongoWeeklyScoreRepository) FindBySeason(ctx context.Context, season int) ([]*models.WeeklyScore, error) {
	filter := bson.M{"season": season}
	opts := options.Find().SetSort(bson.D{{Key: "week", Value: 1}, {Key: "user_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find season scores: %w", err)
	}
	defer cursor.Close(ctx)

	var scores []*models.WeeklyScore
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode season scores: %w", err)
	}
	return scores, nil
}
