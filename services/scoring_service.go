package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pickem-app-go/cache"
	"pickem-app-go/logging"
	"pickem-app-go/metrics"
	"pickem-app-go/models"
)

// ErrNotScorable means at least one game a sheet references has no final
// score yet. Sheets grade all-or-nothing, so nothing is written for them.
var ErrNotScorable = errors.New("week not yet scorable")

type categoryOutcome int

const (
	outcomeLoss categoryOutcome = iota
	outcomePush
	outcomeWin
)

// ScoringReport summarizes one scoring pass over a week.
type ScoringReport struct {
	Season   int                   `json:"season"`
	Week     int                   `json:"week"`
	Scored   int                   `json:"scored"`
	Deferred int                   `json:"deferred"`
	Scores   []*models.WeeklyScore `json:"scores"`
}

// ScoringService grades stored picks against final scores and writes
// weekly score documents.
type ScoringService struct {
	picks        PickRepository
	gameScores   GameScoreRepository
	weeklyScores WeeklyScoreRepository
	cache        *cache.RedisCache
	logger       *logging.Logger
}

// NewScoringService creates a new scoring service
func NewScoringService(picks PickRepository, gameScores GameScoreRepository, weeklyScores WeeklyScoreRepository, redisCache *cache.RedisCache) *ScoringService {
	return &ScoringService{
		picks:        picks,
		gameScores:   gameScores,
		weeklyScores: weeklyScores,
		cache:        redisCache,
		logger:       logging.WithPrefix("ScoringService"),
	}
}

// ScoreWeek grades every sheet submitted for the week. Sheets referencing a
// game without a final score are deferred whole; everything else is graded
// and upserted, so re-running is safe at any time.
func (s *ScoringService) ScoreWeek(ctx context.Context, season, week int) (*ScoringReport, error) {
	if week < models.FirstWeek || week > models.FinalWeek {
		return nil, fmt.Errorf("week %d out of range", week)
	}

	picks, err := s.picks.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for week %d: %w", week, err)
	}

	finals, err := s.gameScores.CurrentScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load final scores: %w", err)
	}

	report := &ScoringReport{Season: season, Week: week}
	for _, pick := range picks {
		score, err := gradeSheet(pick, finals)
		if err != nil {
			if errors.Is(err, ErrNotScorable) {
				s.logger.Infof("Deferring user %d week %d: %v", pick.UserID, week, err)
				report.Deferred++
				continue
			}
			return nil, fmt.Errorf("failed to grade user %d week %d: %w", pick.UserID, week, err)
		}

		if err := s.weeklyScores.Upsert(ctx, score); err != nil {
			return nil, fmt.Errorf("failed to store score for user %d week %d: %w", pick.UserID, week, err)
		}
		report.Scored++
		report.Scores = append(report.Scores, score)
	}

	if report.Scored > 0 {
		metrics.WeeksScored.Inc()
		s.cache.Invalidate(ctx, cache.StandingsKey(season))
	}

	s.logger.Infof("Scored season %d week %d: %d graded, %d deferred", season, week, report.Scored, report.Deferred)
	return report, nil
}

// RescoreWeek re-grades a week from scratch. Grading is deterministic over
// stored picks and the current final scores, so this is the same pass as
// ScoreWeek; it exists as an explicit admin entry point.
func (s *ScoringService) RescoreWeek(ctx context.Context, season, week int) (*ScoringReport, error) {
	s.logger.Infof("Rescoring season %d week %d", season, week)
	return s.ScoreWeek(ctx, season, week)
}

// ScoreUserWeek grades a single user's sheet without persisting anything,
// for previewing a week still in progress.
func (s *ScoringService) ScoreUserWeek(ctx context.Context, userID, season, week int) (*models.WeeklyScore, error) {
	pick, err := s.picks.FindByUserWeek(ctx, userID, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load pick: %w", err)
	}
	if pick == nil {
		return nil, nil
	}
	finals, err := s.gameScores.CurrentScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load final scores: %w", err)
	}
	return gradeSheet(pick, finals)
}

// gradeSheet scores one sheet against the final-score map.
//
// Base scoring is +1 per correct category with pushes worth nothing, plus a
// +1 bonus for going 4-for-4. Super spread replaces the favorite's point
// with 2.5 when the win margin reaches double the locked spread, and a week
// playing super spread or perfect prediction forfeits the 4-for-4 bonus.
// Perfect prediction overrides everything: 8 points on a sweep, 0 otherwise.
func gradeSheet(pick *models.Pick, finals map[string]models.GameScore) (*models.WeeklyScore, error) {
	for _, gameID := range pick.GameIDs() {
		if _, done := finals[gameID]; !done {
			return nil, fmt.Errorf("%w: game %s has no final score", ErrNotScorable, gameID)
		}
	}

	favorite, err := gradeSpread(pick.Favorite, finals)
	if err != nil {
		return nil, err
	}
	underdog, err := gradeSpread(pick.Underdog, finals)
	if err != nil {
		return nil, err
	}
	over := gradeTotal(finals[pick.Over.GameID], pick.AdjustedOverLine(), true)
	under := gradeTotal(finals[pick.Under.GameID], pick.AdjustedUnderLine(), false)

	wins := 0
	for _, outcome := range []categoryOutcome{favorite, underdog, over, under} {
		if outcome == outcomeWin {
			wins++
		}
	}

	points := float64(wins)
	perfectWeek := wins == 4

	if perfectWeek && !pick.UsesScoringSpecial() {
		points++
	}

	if pick.SuperSpread && favorite == outcomeWin {
		if coveredDoubleSpread(pick.Favorite, finals[pick.Favorite.GameID]) {
			points += models.SuperSpreadPoints - 1
		}
	}

	if pick.PerfectPowerup {
		if perfectWeek {
			points = 8
		} else {
			points = 0
		}
	}

	return &models.WeeklyScore{
		UserID:       pick.UserID,
		Season:       pick.Season,
		Week:         pick.Week,
		Points:       points,
		CorrectCount: wins,
		PerfectWeek:  perfectWeek,
		ScoredAt:     time.Now().UTC(),
	}, nil
}

// gradeSpread grades a team-against-the-spread category. The margin signed
// toward the chosen team plus the locked spread decides it: positive
// covers, zero pushes.
func gradeSpread(teamPick models.TeamPick, finals map[string]models.GameScore) (categoryOutcome, error) {
	score := finals[teamPick.GameID]
	margin, ok := score.MarginFor(teamPick.Team)
	if !ok {
		return outcomeLoss, fmt.Errorf("%w: %s not found in final for game %s",
			ErrNotScorable, teamPick.Team, teamPick.GameID)
	}
	adjusted := float64(margin) + teamPick.Spread
	switch {
	case adjusted > 0:
		return outcomeWin, nil
	case adjusted == 0:
		return outcomePush, nil
	default:
		return outcomeLoss, nil
	}
}

// gradeTotal grades an over or under against the helper-adjusted line.
// Landing exactly on the line is a push either way.
func gradeTotal(score models.GameScore, line float64, over bool) categoryOutcome {
	total := float64(score.Combined())
	if total == line {
		return outcomePush
	}
	if over == (total > line) {
		return outcomeWin
	}
	return outcomeLoss
}

// coveredDoubleSpread reports whether the favorite's win margin reached
// twice the locked spread, e.g. a -5.0 favorite winning by 10 or more.
func coveredDoubleSpread(teamPick models.TeamPick, score models.GameScore) bool {
	margin, ok := score.MarginFor(teamPick.Team)
	if !ok {
		return false
	}
	double := teamPick.Spread * 2
	return float64(margin) >= -double
}
