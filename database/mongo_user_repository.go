package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickem-app-go/models"
)

// ErrUserNotFound is returned for lookups that match no user.
var ErrUserNotFound = errors.New("user not found")

// MongoUserRepository stores league members. User ids are small integers
// assigned by the league, used directly as _id.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *MongoDB) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.GetCollection("users"),
	}
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (r *MongoUserRepository) GetUserByEmail(email string) (*models.User, error) {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	filter := bson.M{"email": bson.M{"$regex": "^" + strings.ToLower(email) + "$", "$options": "i"}}

	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their league id.
func (r *MongoUserRepository) GetUserByID(id int) (*models.User, error) {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return &user, nil
}

// GetUserByResetToken retrieves the user holding an outstanding reset token.
func (r *MongoUserRepository) GetUserByResetToken(token string) (*models.User, error) {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"reset_token": token}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by reset token: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new user.
func (r *MongoUserRepository) CreateUser(user *models.User) error {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser replaces the stored fields of an existing user.
func (r *MongoUserRepository) UpdateUser(user *models.User) error {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	user.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": user}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// GetAllUsers retrieves every league member, ordered by id.
func (r *MongoUserRepository) GetAllUsers() ([]*models.User, error) {
	ctx, cancel := WithMediumTimeout()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// EnsureIndexes creates the unique email index.
func (r *MongoUserRepository) EnsureIndexes() error {
	ctx, cancel := WithMediumTimeout()
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	return nil
}
