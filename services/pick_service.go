package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"pickem-app-go/logging"
	"pickem-app-go/metrics"
	"pickem-app-go/models"
)

// ErrDeadlinePassed means the week's submission deadline is behind us.
var ErrDeadlinePassed = errors.New("submission deadline has passed")

// Rejection codes, also used as metric labels.
const (
	RejectInvalid       = "invalid"
	RejectDeadline      = "deadline"
	RejectUnmatchedGame = "unmatched_game"
	RejectDuplicateGame = "duplicate_game"
	RejectCompletedGame = "completed_game"
	RejectNoLine        = "no_line"
	RejectWrongSign     = "wrong_sign"
	RejectPowerupReused = "powerup_reused"
)

// ValidationError is a category-specific submission rejection. Category is
// empty for sheet-level failures.
type ValidationError struct {
	Category models.PickCategory `json:"category,omitempty"`
	Code     string              `json:"code"`
	Reason   string              `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("%s: %s", e.Category, e.Reason)
	}
	return e.Reason
}

// TeamSelection is one raw spread selection from the submission form.
type TeamSelection struct {
	GameID string `json:"game_id" validate:"required"`
	Team   string `json:"team" validate:"required"`
}

// TotalSelection is one raw totals selection from the submission form.
type TotalSelection struct {
	GameID string `json:"game_id" validate:"required"`
}

// PickSubmission is the raw sheet a user submits: exactly one selection per
// category plus powerup flags. Lines are never taken from the client; they
// are resolved from the week's locked snapshot.
type PickSubmission struct {
	Season int `json:"season" validate:"required,min=2020,max=2035"`
	Week   int `json:"week" validate:"required,min=1,max=18"`

	Favorite TeamSelection  `json:"favorite"`
	Underdog TeamSelection  `json:"underdog"`
	Over     TotalSelection `json:"over"`
	Under    TotalSelection `json:"under"`

	PerfectPowerup bool   `json:"perfect_powerup"`
	SuperSpread    bool   `json:"super_spread"`
	TotalHelper    string `json:"total_helper" validate:"omitempty,oneof=over under"`
}

// PickService resolves raw submissions against the week's locked snapshot
// and stores the result.
type PickService struct {
	picks    PickRepository
	scores   GameScoreRepository
	locker   *LineLocker
	validate *validator.Validate
	now      func() time.Time
	logger   *logging.Logger
}

// NewPickService creates a new pick service
func NewPickService(picks PickRepository, scores GameScoreRepository, locker *LineLocker) *PickService {
	return &PickService{
		picks:    picks,
		scores:   scores,
		locker:   locker,
		validate: validator.New(),
		now:      time.Now,
		logger:   logging.WithPrefix("PickService"),
	}
}

// SubmitPicks validates and resolves a submission, then upserts the sheet
// keyed by (user, season, week). Nothing persists on any rejection.
func (s *PickService) SubmitPicks(ctx context.Context, userID int, submission *PickSubmission) (*models.Pick, error) {
	if err := s.validate.Struct(submission); err != nil {
		return nil, s.reject(&ValidationError{
			Code:   RejectInvalid,
			Reason: fmt.Sprintf("invalid submission: %v", err),
		})
	}

	deadline := s.locker.SubmissionDeadline(submission.Season, submission.Week)
	if !s.now().Before(deadline) {
		metrics.PicksRejected.WithLabelValues(RejectDeadline).Inc()
		return nil, fmt.Errorf("%w (week %d closed %s)", ErrDeadlinePassed,
			submission.Week, deadline.Format(time.RFC1123))
	}

	lock, err := s.locker.LockedLines(ctx, submission.Season, submission.Week)
	if err != nil {
		return nil, fmt.Errorf("failed to lock lines for submission: %w", err)
	}
	snapshot := lock.Snapshot

	favorite, vErr := resolveTeamPick(snapshot, models.CategoryFavorite, submission.Favorite)
	if vErr != nil {
		return nil, s.reject(vErr)
	}
	if favorite.Spread >= 0 {
		return nil, s.reject(&ValidationError{
			Category: models.CategoryFavorite,
			Code:     RejectWrongSign,
			Reason:   fmt.Sprintf("%s carries spread %+.1f, not a favorite line", favorite.Team, favorite.Spread),
		})
	}

	underdog, vErr := resolveTeamPick(snapshot, models.CategoryUnderdog, submission.Underdog)
	if vErr != nil {
		return nil, s.reject(vErr)
	}
	if underdog.Spread < 0 {
		return nil, s.reject(&ValidationError{
			Category: models.CategoryUnderdog,
			Code:     RejectWrongSign,
			Reason:   fmt.Sprintf("%s carries spread %+.1f, not an underdog line", underdog.Team, underdog.Spread),
		})
	}

	over, vErr := resolveTotalPick(snapshot, models.CategoryOver, submission.Over)
	if vErr != nil {
		return nil, s.reject(vErr)
	}
	under, vErr := resolveTotalPick(snapshot, models.CategoryUnder, submission.Under)
	if vErr != nil {
		return nil, s.reject(vErr)
	}

	// The four selections must reference four distinct games.
	used := map[string]models.PickCategory{}
	for _, ref := range []struct {
		category models.PickCategory
		gameID   string
	}{
		{models.CategoryFavorite, favorite.GameID},
		{models.CategoryUnderdog, underdog.GameID},
		{models.CategoryOver, over.GameID},
		{models.CategoryUnder, under.GameID},
	} {
		if prev, dup := used[ref.gameID]; dup {
			return nil, s.reject(&ValidationError{
				Category: ref.category,
				Code:     RejectDuplicateGame,
				Reason:   fmt.Sprintf("game already selected for %s", prev),
			})
		}
		used[ref.gameID] = ref.category
	}

	// A game that already went final can't be picked.
	finals, err := s.scores.CurrentScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load final scores: %w", err)
	}
	for _, category := range []models.PickCategory{
		models.CategoryFavorite, models.CategoryUnderdog, models.CategoryOver, models.CategoryUnder,
	} {
		gameID := gameIDForCategory(category, favorite, underdog, over, under)
		if _, done := finals[gameID]; done {
			return nil, s.reject(&ValidationError{
				Category: category,
				Code:     RejectCompletedGame,
				Reason:   "game already has a final score",
			})
		}
	}

	if submission.SuperSpread && favorite.Spread > models.SuperSpreadMinFavorite {
		return nil, s.reject(&ValidationError{
			Category: models.CategoryFavorite,
			Code:     RejectWrongSign,
			Reason: fmt.Sprintf("super spread requires a favorite of %.1f or steeper, got %+.1f",
				models.SuperSpreadMinFavorite, favorite.Spread),
		})
	}

	helper := models.TotalHelperSide(submission.TotalHelper)
	if vErr := s.checkPowerupReuse(ctx, userID, submission, helper); vErr != nil {
		return nil, s.reject(vErr)
	}

	pick := &models.Pick{
		UserID:                userID,
		Season:                submission.Season,
		Week:                  submission.Week,
		Favorite:              favorite,
		Underdog:              underdog,
		Over:                  over,
		Under:                 under,
		PerfectPowerup:        submission.PerfectPowerup,
		SuperSpread:           submission.SuperSpread,
		TotalHelper:           helper,
		TotalHelperAdjustment: models.TotalHelperAdjustmentFor(helper),
		SubmittedAt:           s.now().UTC(),
	}

	if err := s.picks.Upsert(ctx, pick); err != nil {
		return nil, fmt.Errorf("failed to store pick: %w", err)
	}

	metrics.PicksSubmitted.Inc()
	s.logger.Infof("User %d submitted week %d/%d picks: %s %.1f, %s %+.1f (perfect=%t super=%t helper=%s)",
		userID, pick.Season, pick.Week,
		models.Abbreviation(favorite.Team), favorite.Spread,
		models.Abbreviation(underdog.Team), underdog.Spread,
		pick.PerfectPowerup, pick.SuperSpread, pick.TotalHelper)
	return pick, nil
}

// GetPick returns the user's sheet for a week, nil when none submitted.
func (s *PickService) GetPick(ctx context.Context, userID, season, week int) (*models.Pick, error) {
	pick, err := s.picks.FindByUserWeek(ctx, userID, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load pick: %w", err)
	}
	return pick, nil
}

// checkPowerupReuse enforces each powerup's one-use-per-season budget.
// Resubmitting the same week is fine because the old sheet is replaced.
func (s *PickService) checkPowerupReuse(ctx context.Context, userID int, submission *PickSubmission, helper models.TotalHelperSide) *ValidationError {
	if !submission.PerfectPowerup && !submission.SuperSpread && helper == models.TotalHelperNone {
		return nil
	}

	seasonPicks, err := s.picks.FindByUserSeason(ctx, userID, submission.Season)
	if err != nil {
		s.logger.Errorf("Powerup check failed for user %d: %v", userID, err)
		return &ValidationError{Code: RejectInvalid, Reason: "could not verify powerup usage"}
	}

	for _, prev := range seasonPicks {
		if prev.Week == submission.Week {
			continue
		}
		if submission.PerfectPowerup && prev.PerfectPowerup {
			return &ValidationError{
				Code:   RejectPowerupReused,
				Reason: fmt.Sprintf("perfect prediction already played in week %d", prev.Week),
			}
		}
		if submission.SuperSpread && prev.SuperSpread {
			return &ValidationError{
				Category: models.CategoryFavorite,
				Code:     RejectPowerupReused,
				Reason:   fmt.Sprintf("super spread already played in week %d", prev.Week),
			}
		}
		if helper != models.TotalHelperNone && prev.TotalHelper != models.TotalHelperNone {
			category := models.CategoryOver
			if helper == models.TotalHelperUnder {
				category = models.CategoryUnder
			}
			return &ValidationError{
				Category: category,
				Code:     RejectPowerupReused,
				Reason:   fmt.Sprintf("total helper already played in week %d", prev.Week),
			}
		}
	}
	return nil
}

// reject counts the rejection and returns it unchanged.
func (s *PickService) reject(vErr *ValidationError) error {
	metrics.PicksRejected.WithLabelValues(vErr.Code).Inc()
	s.logger.Debugf("Submission rejected (%s): %s", vErr.Code, vErr.Reason)
	return vErr
}

func gameIDForCategory(category models.PickCategory, favorite, underdog models.TeamPick, over, under models.TotalPick) string {
	switch category {
	case models.CategoryFavorite:
		return favorite.GameID
	case models.CategoryUnderdog:
		return underdog.GameID
	case models.CategoryOver:
		return over.GameID
	default:
		return under.GameID
	}
}

// resolveTeamPick maps a raw team selection to the game and spread it locks
// in from the snapshot.
func resolveTeamPick(snapshot *models.Snapshot, category models.PickCategory, selection TeamSelection) (models.TeamPick, *ValidationError) {
	game, ok := snapshot.Game(selection.GameID)
	if !ok {
		return models.TeamPick{}, &ValidationError{
			Category: category,
			Code:     RejectUnmatchedGame,
			Reason:   "game not in the locked snapshot",
		}
	}
	if !game.Involves(selection.Team) {
		return models.TeamPick{}, &ValidationError{
			Category: category,
			Code:     RejectUnmatchedGame,
			Reason:   fmt.Sprintf("%s does not play in %s", selection.Team, game.Matchup()),
		}
	}
	spread, ok := game.SpreadFor(selection.Team)
	if !ok {
		return models.TeamPick{}, &ValidationError{
			Category: category,
			Code:     RejectNoLine,
			Reason:   "no spread line for that game",
		}
	}
	return models.TeamPick{
		GameID: game.GameID,
		Team:   selection.Team,
		Spread: spread,
	}, nil
}

// resolveTotalPick maps a raw totals selection to the game and line it
// locks in from the snapshot.
func resolveTotalPick(snapshot *models.Snapshot, category models.PickCategory, selection TotalSelection) (models.TotalPick, *ValidationError) {
	game, ok := snapshot.Game(selection.GameID)
	if !ok {
		return models.TotalPick{}, &ValidationError{
			Category: category,
			Code:     RejectUnmatchedGame,
			Reason:   "game not in the locked snapshot",
		}
	}
	if !game.HasTotal() {
		return models.TotalPick{}, &ValidationError{
			Category: category,
			Code:     RejectNoLine,
			Reason:   "no total line for that game",
		}
	}
	return models.TotalPick{
		GameID: game.GameID,
		Line:   *game.TotalPoints,
	}, nil
}
