package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickem-app-go/logging"
	"pickem-app-go/models"
)

// MongoPickRepository stores pick sheets, one per (user, season, week).
type MongoPickRepository struct {
	collection *mongo.Collection
}

// NewMongoPickRepository creates a new MongoDB pick repository
func NewMongoPickRepository(db *MongoDB) *MongoPickRepository {
	collection := db.GetCollection("picks")

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
		logging.Warnf("Could not create picks indexes: %v", err)
	}

	return &MongoPickRepository{collection: collection}
}

// Upsert replaces the user's sheet for the week, inserting when absent.
// Resubmission before the deadline is a wholesale overwrite.
func (r *MongoPickRepository) Upsert(ctx context.Context, pick *models.Pick) error {
	filter := bson.M{
		"user_id": pick.UserID,
		"season":  pick.Season,
		"week":    pick.Week,
	}

	// _id stays owned by Mongo; a zero ObjectID is omitted on marshal so
	// replacement never fights the existing document's key.
	doc := *pick
	doc.ID = primitive.NilObjectID

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, filter, &doc, opts); err != nil {
		return fmt.Errorf("failed to upsert pick: %w", err)
	}
	return nil
}

// FindByUserWeek retrieves one user's sheet for a week, nil when absent.
func (r *MongoPickRepository) FindByUserWeek(ctx context.Context, userID, season, week int) (*models.Pick, error) {
	filter := bson.M{
		"user_id": userID,
		"season":  season,
		"week":    week,
	}

	var pick models.Pick
	err := r.collection.FindOne(ctx, filter).Decode(&pick)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pick: %w", err)
	}
	return &pick, nil
}

// FindByWeek retrieves every user's sheet for a week.
func (r *MongoPickRepository) FindByWeek(ctx context.Context, season, week int) ([]*models.Pick, error) {
	filter := bson.M{
		"season": season,
		"week":   week,
	}
	opts := options.Find().SetSort(bson.D{{Key: "user_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find picks for week: %w", err)
	}
	defer cursor.Close(ctx)

	var picks []*models.Pick
	if err := cursor.All(ctx, &picks); err != nil {
		return nil, fmt.Errorf("failed to decode picks: %w", err)
	}
	return picks, nil
}

// FindByUserSeason retrieves all of a user's sheets in a season, used to
// enforce one-per-season powerups.
func (r *MongoPickRepository) FindByUserSeason(ctx context.Context, userID, season int) ([]*models.Pick, error) {
	filter := bson.M{
		"user_id": userID,
		"season":  season,
	}
	opts := options.Find().SetSort(bson.D{{Key: "week", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find picks for season: %w", err)
	}
	defer cursor.Close(ctx)

	var picks []*models.Pick
	if err := cursor.All(ctx, &picks); err != nil {
		return nil, fmt.Errorf("failed to decode picks: %w", err)
	}
	return picks, nil
}
