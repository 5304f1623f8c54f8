package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameScore is one completed game's final result inside a score snapshot.
type GameScore struct {
	GameID      string `bson:"game_id" json:"game_id"`
	HomeTeam    string `bson:"home_team" json:"home_team"`
	HomeScore   int    `bson:"home_score" json:"home_score"`
	AwayTeam    string `bson:"away_team" json:"away_team"`
	AwayScore   int    `bson:"away_score" json:"away_score"`
	TotalPoints int    `bson:"total_points" json:"total_points"`
}

// ScoreSnapshot groups the completed games found by one scores collection
// run. Re-collection writes a new snapshot rather than editing an old one;
// readers take the latest snapshot's entry per game id as authoritative.
type ScoreSnapshot struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SnapshotID     string             `bson:"snapshot_id" json:"snapshot_id"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	CompletedCount int                `bson:"completed_count" json:"completed_count"`
	Scores         []GameScore        `bson:"scores" json:"scores"`
}

// MarginFor returns the named team's winning margin, negative on a loss.
// The second return is false when the team isn't part of this game.
func (g *GameScore) MarginFor(team string) (int, bool) {
	switch {
	case SameTeam(team, g.HomeTeam):
		return g.HomeScore - g.AwayScore, true
	case SameTeam(team, g.AwayTeam):
		return g.AwayScore - g.HomeScore, true
	}
	return 0, false
}

// Combined returns the combined points scored in the game.
func (g *GameScore) Combined() int {
	return g.HomeScore + g.AwayScore
}

// LatestGameScores folds score snapshots into the current final score per
// game id. Snapshots must be ordered oldest first; later entries overwrite
// earlier ones.
func LatestGameScores(snapshots []*ScoreSnapshot) map[string]GameScore {
	latest := make(map[string]GameScore)
	for _, snap := range snapshots {
		for _, score := range snap.Scores {
			latest[score.GameID] = score
		}
	}
	return latest
}
