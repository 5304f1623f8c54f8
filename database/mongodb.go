package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickem-app-go/logging"
)

// Config holds MongoDB connection settings. Credentials are optional for
// local unauthenticated instances.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Timeout  time.Duration
}

// uri builds the connection string. Authenticated connections use the
// application database as authSource.
func (c Config) uri() string {
	if c.Username != "" && c.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=%s",
			c.Username, c.Password, c.Host, c.Port, c.Database, c.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", c.Host, c.Port, c.Database)
}

// MongoDB wraps one client connected to the application database.
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewMongoConnection dials MongoDB and verifies the connection with a ping
// before handing it out.
func NewMongoConnection(cfg Config) (*MongoDB, error) {
	logger := logging.WithPrefix("MongoDB")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = MediumTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if cfg.Username != "" {
		logger.Infof("Connecting to %s:%s as %s", cfg.Host, cfg.Port, cfg.Username)
	} else {
		logger.Infof("Connecting to %s:%s without authentication", cfg.Host, cfg.Port)
	}

	opts := options.Client().ApplyURI(cfg.uri()).SetAppName("pickem-app")
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Infof("Connected to %s:%s database=%s", cfg.Host, cfg.Port, cfg.Database)
	return &MongoDB{
		client:   client,
		database: client.Database(cfg.Database),
	}, nil
}

// Close disconnects the underlying client.
func (m *MongoDB) Close() error {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	if err := m.client.Disconnect(ctx); err != nil {
		logging.Errorf("MongoDB disconnect failed: %v", err)
		return err
	}
	return nil
}

// TestConnection pings the server, used by health checks.
func (m *MongoDB) TestConnection() error {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB ping failed: %w", err)
	}
	return nil
}

// GetCollection returns a handle to a named collection.
func (m *MongoDB) GetCollection(name string) *mongo.Collection {
	return m.database.Collection(name)
}
