package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyScore is the scored outcome of one user's week. Derived data: the
// scoring engine can recompute and overwrite it at any time from the stored
// pick, locked lines, and final scores.
type WeeklyScore struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       int                `bson:"user_id" json:"user_id"`
	Season       int                `bson:"season" json:"season"`
	Week         int                `bson:"week" json:"week"`
	Points       float64            `bson:"points" json:"points"`
	CorrectCount int                `bson:"correct_count" json:"correct_count"`
	PerfectWeek  bool               `bson:"perfect_week" json:"perfect_week"`
	ScoredAt     time.Time          `bson:"scored_at" json:"scored_at"`
}

// ScoreboardRow is one user's line on the weekly scoreboard.
type ScoreboardRow struct {
	UserID       int     `json:"user_id"`
	UserName     string  `json:"user_name"`
	Points       float64 `json:"points"`
	CorrectCount int     `json:"correct_count"`
	PerfectWeek  bool    `json:"perfect_week"`
}
