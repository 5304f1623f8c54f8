package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PickCategory names one of the four required selections on a pick sheet.
type PickCategory string

const (
	CategoryFavorite PickCategory = "favorite"
	CategoryUnderdog PickCategory = "underdog"
	CategoryOver     PickCategory = "over"
	CategoryUnder    PickCategory = "under"
)

// TotalHelperSide records which total category, if any, the Total Helper
// powerup shifts.
type TotalHelperSide string

const (
	TotalHelperNone  TotalHelperSide = ""
	TotalHelperOver  TotalHelperSide = "over"
	TotalHelperUnder TotalHelperSide = "under"
)

// League powerup rules.
const (
	// TotalHelperShift is the number of points the helper moves a total line.
	TotalHelperShift = 5.0
	// SuperSpreadMinFavorite is the most generous favorite spread that still
	// qualifies for the Super Spread powerup (spread must be at or below it).
	SuperSpreadMinFavorite = -5.0
	// SuperSpreadPoints is the favorite-category payout on a double cover.
	SuperSpreadPoints = 2.5
)

// TeamPick is a spread selection: a team locked to the spread it carried in
// the week's snapshot.
type TeamPick struct {
	GameID string  `bson:"game_id" json:"game_id"`
	Team   string  `bson:"team" json:"team"`
	Spread float64 `bson:"spread" json:"spread"`
}

// TotalPick is a totals selection: a game locked to its total line.
type TotalPick struct {
	GameID string  `bson:"game_id" json:"game_id"`
	Line   float64 `bson:"line" json:"line"`
}

// Pick is one user's full sheet for a week: four resolved selections plus
// any powerups in play. Exactly one exists per (user, season, week);
// resubmitting before the deadline replaces it wholesale.
type Pick struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID int                `bson:"user_id" json:"user_id"`
	Season int                `bson:"season" json:"season"`
	Week   int                `bson:"week" json:"week"`

	Favorite TeamPick  `bson:"favorite" json:"favorite"`
	Underdog TeamPick  `bson:"underdog" json:"underdog"`
	Over     TotalPick `bson:"over" json:"over"`
	Under    TotalPick `bson:"under" json:"under"`

	PerfectPowerup        bool            `bson:"perfect_powerup" json:"perfect_powerup"`
	SuperSpread           bool            `bson:"super_spread" json:"super_spread"`
	TotalHelper           TotalHelperSide `bson:"total_helper" json:"total_helper"`
	TotalHelperAdjustment float64         `bson:"total_helper_adjustment" json:"total_helper_adjustment"`

	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
}

// TotalHelperAdjustmentFor returns the line shift a helper side carries:
// over lowers the line, under raises it.
func TotalHelperAdjustmentFor(side TotalHelperSide) float64 {
	switch side {
	case TotalHelperOver:
		return -TotalHelperShift
	case TotalHelperUnder:
		return +TotalHelperShift
	}
	return 0
}

// GameIDs returns the four referenced game ids in category order.
func (p *Pick) GameIDs() []string {
	return []string{p.Favorite.GameID, p.Underdog.GameID, p.Over.GameID, p.Under.GameID}
}

// UsesScoringSpecial reports whether a powerup that rewrites category
// payouts is in play. Such weeks forfeit the perfect-week bonus; the
// total helper only shifts a line and does not count.
func (p *Pick) UsesScoringSpecial() bool {
	return p.SuperSpread || p.PerfectPowerup
}

// AdjustedOverLine returns the over line after any helper shift.
func (p *Pick) AdjustedOverLine() float64 {
	if p.TotalHelper == TotalHelperOver {
		return p.Over.Line + p.TotalHelperAdjustment
	}
	return p.Over.Line
}

// AdjustedUnderLine returns the under line after any helper shift.
func (p *Pick) AdjustedUnderLine() float64 {
	if p.TotalHelper == TotalHelperUnder {
		return p.Under.Line + p.TotalHelperAdjustment
	}
	return p.Under.Line
}
