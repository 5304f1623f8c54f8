package services

import (
	"context"
	"time"

	"pickem-app-go/models"
)

// Storage interfaces the services consume. The database package provides
// the MongoDB implementations; tests substitute in-memory stubs.

// RawRecordRepository stores provider API audit records.
type RawRecordRepository interface {
	Insert(ctx context.Context, record *models.RawRecord) error
	FindByID(ctx context.Context, id string) (*models.RawRecord, error)
	LatestOdds(ctx context.Context) (*models.RawRecord, error)
	List(ctx context.Context, apiType string, limit int) ([]*models.RawRecord, error)
}

// SnapshotRepository stores frozen line snapshots.
type SnapshotRepository interface {
	Insert(ctx context.Context, snapshot *models.Snapshot) error
	FindBySnapshotID(ctx context.Context, snapshotID string) (*models.Snapshot, error)
	LatestBefore(ctx context.Context, cutoff time.Time) (*models.Snapshot, error)
	Latest(ctx context.Context) (*models.Snapshot, error)
}

// GameScoreRepository stores score snapshots of completed games.
type GameScoreRepository interface {
	Insert(ctx context.Context, snapshot *models.ScoreSnapshot) error
	CurrentScores(ctx context.Context) (map[string]models.GameScore, error)
}

// PickRepository stores pick sheets.
type PickRepository interface {
	Upsert(ctx context.Context, pick *models.Pick) error
	FindByUserWeek(ctx context.Context, userID, season, week int) (*models.Pick, error)
	FindByWeek(ctx context.Context, season, week int) ([]*models.Pick, error)
	FindByUserSeason(ctx context.Context, userID, season int) ([]*models.Pick, error)
}

// WeeklyScoreRepository stores derived weekly results.
type WeeklyScoreRepository interface {
	Upsert(ctx context.Context, score *models.WeeklyScore) error
	FindByWeek(ctx context.Context, season, week int) ([]*models.WeeklyScore, error)
	FindBySeason(ctx context.Context, season int) ([]*models.WeeklyScore, error)
}

// UserRepository stores league members. These calls back short, indexed
// lookups, so they carry their own timeouts instead of a caller context.
type UserRepository interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	GetUserByResetToken(token string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
	GetAllUsers() ([]*models.User, error)
}
