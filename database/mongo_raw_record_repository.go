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

// MongoRawRecordRepository stores the immutable audit copies of provider
// API calls.
type MongoRawRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoRawRecordRepository creates a new MongoDB raw record repository
func NewMongoRawRecordRepository(db *MongoDB) *MongoRawRecordRepository {
	collection := db.GetCollection("raw_records")

	ctx, cancel := WithMediumTimeout()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "api_timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "api_type", Value: 1},
				{Key: "api_timestamp", Value: -1},
			},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warnf("Could not create raw_records indexes: %v", err)
	}

	return &MongoRawRecordRepository{collection: collection}
}

// Insert writes a new raw record. Records are never updated afterward.
func (r *MongoRawRecordRepository) Insert(ctx context.Context, record *models.RawRecord) error {
	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to insert raw record: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}
	return nil
}

// FindByID retrieves one raw record by its ObjectID hex string.
func (r *MongoRawRecordRepository) FindByID(ctx context.Context, id string) (*models.RawRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid raw record id %q: %w", id, err)
	}

	var record models.RawRecord
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find raw record: %w", err)
	}
	return &record, nil
}

// LatestOdds returns the most recent odds-type raw record, or nil when no
// odds collection has run yet.
func (r *MongoRawRecordRepository) LatestOdds(ctx context.Context) (*models.RawRecord, error) {
	filter := bson.M{"api_type": bson.M{"$in": []string{
		models.APITypeGetOdds,
		models.APITypeAutomatedGetOdds,
		models.APITypeScheduledGetOdds,
	}}}
	opts := options.FindOne().SetSort(bson.D{{Key: "api_timestamp", Value: -1}})

	var record models.RawRecord
	err := r.collection.FindOne(ctx, filter, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest odds record: %w", err)
	}
	return &record, nil
}

// List returns recent raw records newest first, optionally filtered by
// api_type. Payloads are projected out; the audit listing only needs the
// metadata.
func (r *MongoRawRecordRepository) List(ctx context.Context, apiType string, limit int) ([]*models.RawRecord, error) {
	filter := bson.M{}
	if apiType != "" {
		filter["api_type"] = apiType
	}
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "api_timestamp", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"payload": 0})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list raw records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*models.RawRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode raw records: %w", err)
	}
	return records, nil
}
