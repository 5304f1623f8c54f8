package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Snapshot is one frozen view of the betting board: every game the provider
// listed at collection time with its DraftKings lines. Snapshots are built
// from exactly one raw collection and never mutated afterward.
type Snapshot struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SnapshotID string             `bson:"snapshot_id" json:"snapshot_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	GameCount  int                `bson:"game_count" json:"game_count"`
	Games      []GameLine         `bson:"games" json:"games"`
}

// GameLine holds one game's lines inside a snapshot. Market fields are
// pointers so a market the bookmaker didn't offer stays absent rather than
// reading as a zero line.
type GameLine struct {
	GameID    string    `bson:"game_id" json:"game_id"`
	Kickoff   time.Time `bson:"kickoff" json:"kickoff"`
	HomeTeam  string    `bson:"home_team" json:"home_team"`
	AwayTeam  string    `bson:"away_team" json:"away_team"`
	Bookmaker string    `bson:"bookmaker" json:"bookmaker"`

	HomeMoneyline *int `bson:"home_moneyline,omitempty" json:"home_moneyline,omitempty"`
	AwayMoneyline *int `bson:"away_moneyline,omitempty" json:"away_moneyline,omitempty"`

	HomeSpread      *float64 `bson:"home_spread,omitempty" json:"home_spread,omitempty"`
	HomeSpreadPrice *int     `bson:"home_spread_price,omitempty" json:"home_spread_price,omitempty"`
	AwaySpread      *float64 `bson:"away_spread,omitempty" json:"away_spread,omitempty"`
	AwaySpreadPrice *int     `bson:"away_spread_price,omitempty" json:"away_spread_price,omitempty"`

	TotalPoints *float64 `bson:"total_points,omitempty" json:"total_points,omitempty"`
	OverPrice   *int     `bson:"over_price,omitempty" json:"over_price,omitempty"`
	UnderPrice  *int     `bson:"under_price,omitempty" json:"under_price,omitempty"`
}

// Game looks up a line by its provider game id.
func (s *Snapshot) Game(gameID string) (*GameLine, bool) {
	for i := range s.Games {
		if s.Games[i].GameID == gameID {
			return &s.Games[i], true
		}
	}
	return nil, false
}

// HasSpread reports whether the spreads market was present for this game.
func (g *GameLine) HasSpread() bool {
	return g.HomeSpread != nil && g.AwaySpread != nil
}

// HasTotal reports whether the totals market was present for this game.
func (g *GameLine) HasTotal() bool {
	return g.TotalPoints != nil
}

// SpreadFor returns the spread attached to the named team. The second return
// is false when the team isn't in this game or the market is absent.
func (g *GameLine) SpreadFor(team string) (float64, bool) {
	switch {
	case SameTeam(team, g.HomeTeam):
		if g.HomeSpread == nil {
			return 0, false
		}
		return *g.HomeSpread, true
	case SameTeam(team, g.AwayTeam):
		if g.AwaySpread == nil {
			return 0, false
		}
		return *g.AwaySpread, true
	}
	return 0, false
}

// Involves reports whether the named team plays in this game.
func (g *GameLine) Involves(team string) bool {
	return SameTeam(team, g.HomeTeam) || SameTeam(team, g.AwayTeam)
}

// Matchup returns "Away @ Home" for display.
func (g *GameLine) Matchup() string {
	return g.AwayTeam + " @ " + g.HomeTeam
}

// SameTeam compares provider team names ignoring case and stray whitespace.
func SameTeam(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
