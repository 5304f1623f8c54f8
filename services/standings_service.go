package services

import (
	"context"
	"fmt"
	"sort"

	"pickem-app-go/cache"
	"pickem-app-go/logging"
	"pickem-app-go/models"
)

// StandingsService derives season standings and weekly scoreboards from
// stored weekly scores. Everything here is a pure fold over those
// documents, so results can be rebuilt at any time.
type StandingsService struct {
	weeklyScores WeeklyScoreRepository
	users        UserRepository
	cache        *cache.RedisCache
	logger       *logging.Logger
}

// NewStandingsService creates a new standings service
func NewStandingsService(weeklyScores WeeklyScoreRepository, users UserRepository, redisCache *cache.RedisCache) *StandingsService {
	return &StandingsService{
		weeklyScores: weeklyScores,
		users:        users,
		cache:        redisCache,
		logger:       logging.WithPrefix("StandingsService"),
	}
}

// Standings returns the season table ordered by total points, then perfect
// weeks, then name.
func (s *StandingsService) Standings(ctx context.Context, season int) ([]models.StandingsEntry, error) {
	cacheKey := cache.StandingsKey(season)
	var cached []models.StandingsEntry
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return cached, nil
	}

	scores, err := s.weeklyScores.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load season %d scores: %w", season, err)
	}

	names, err := s.userNames()
	if err != nil {
		return nil, err
	}

	byUser := make(map[int]*models.StandingsEntry)
	var order []int
	for _, score := range scores {
		entry, ok := byUser[score.UserID]
		if !ok {
			entry = &models.StandingsEntry{
				UserID:   score.UserID,
				UserName: s.nameFor(names, score.UserID),
			}
			byUser[score.UserID] = entry
			order = append(order, score.UserID)
		}
		entry.TotalPoints += score.Points
		entry.WeeksPlayed++
		if score.PerfectWeek {
			entry.PerfectWeeks++
		}
	}

	entries := make([]models.StandingsEntry, 0, len(order))
	for _, userID := range order {
		entries = append(entries, *byUser[userID])
	}
	models.SortStandings(entries)

	s.cache.SetJSON(ctx, cacheKey, entries)
	return entries, nil
}

// Scoreboard returns one week's graded rows, best score first.
func (s *StandingsService) Scoreboard(ctx context.Context, season, week int) ([]models.ScoreboardRow, error) {
	if week < models.FirstWeek || week > models.FinalWeek {
		return nil, fmt.Errorf("week %d out of range", week)
	}

	scores, err := s.weeklyScores.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load week %d scores: %w", week, err)
	}

	names, err := s.userNames()
	if err != nil {
		return nil, err
	}

	rows := make([]models.ScoreboardRow, 0, len(scores))
	for _, score := range scores {
		rows = append(rows, models.ScoreboardRow{
			UserID:       score.UserID,
			UserName:     s.nameFor(names, score.UserID),
			Points:       score.Points,
			CorrectCount: score.CorrectCount,
			PerfectWeek:  score.PerfectWeek,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].UserName < rows[j].UserName
	})
	return rows, nil
}

func (s *StandingsService) userNames() (map[int]string, error) {
	users, err := s.users.GetAllUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	names := make(map[int]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Name
	}
	return names, nil
}

func (s *StandingsService) nameFor(names map[int]string, userID int) string {
	if name, ok := names[userID]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("User %d", userID)
}
