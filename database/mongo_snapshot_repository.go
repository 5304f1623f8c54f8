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

// MongoSnapshotRepository stores frozen line snapshots.
type MongoSnapshotRepository struct {
	collection *mongo.Collection
}

// NewMongoSnapshotRepository creates a new MongoDB snapshot repository
func NewMongoSnapshotRepository(db *MongoDB) *MongoSnapshotRepository {
	collection := db.GetCollection("snapshots")

	ctx, cancel := WithMediumTimeout()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "snapshot_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warnf("Could not create snapshots indexes: %v", err)
	}

	return &MongoSnapshotRepository{collection: collection}
}

// Insert writes a newly built snapshot.
func (r *MongoSnapshotRepository) Insert(ctx context.Context, snapshot *models.Snapshot) error {
	if _, err := r.collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// FindBySnapshotID retrieves one snapshot by its uuid.
func (r *MongoSnapshotRepository) FindBySnapshotID(ctx context.Context, snapshotID string) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	err := r.collection.FindOne(ctx, bson.M{"snapshot_id": snapshotID}).Decode(&snapshot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find snapshot %s: %w", snapshotID, err)
	}
	return &snapshot, nil
}

// LatestBefore returns the snapshot created closest to but not after the
// cutoff, or nil when every snapshot postdates it.
func (r *MongoSnapshotRepository) LatestBefore(ctx context.Context, cutoff time.Time) (*models.Snapshot, error) {
	filter := bson.M{"created_at": bson.M{"$lte": cutoff}}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var snapshot models.Snapshot
	err := r.collection.FindOne(ctx, filter, opts).Decode(&snapshot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find snapshot before %s: %w", cutoff, err)
	}
	return &snapshot, nil
}

// Latest returns the most recently created snapshot, or nil when none exist.
func (r *MongoSnapshotRepository) Latest(ctx context.Context) (*models.Snapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var snapshot models.Snapshot
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&snapshot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest snapshot: %w", err)
	}
	return &snapshot, nil
}
