// Development utility that fills pick sheets for every league user from the
// locked lines, week 1 through the current week. Sheets are written straight
// to the repository so past deadlines don't block backfilling history.
// Requires at least one snapshot; run the odds collector first.
package main

import (
	"context"
	"math/rand"
	"time"

	"pickem-app-go/config"
	"pickem-app-go/database"
	"pickem-app-go/logging"
	"pickem-app-go/models"
	"pickem-app-go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Configuration error: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())
	logger := logging.WithPrefix("SeedPicks")

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	snapshotRepo := database.NewMongoSnapshotRepository(db)
	pickRepo := database.NewMongoPickRepository(db)
	userRepo := database.NewMongoUserRepository(db)

	locker := services.NewLineLocker(snapshotRepo, cfg.ToSeasonCalendar(), false, nil)

	users, err := userRepo.GetAllUsers()
	if err != nil {
		logger.Fatalf("Failed to load users: %v", err)
	}
	if len(users) == 0 {
		logger.Fatal("No users to seed picks for; start the server in development mode first")
	}

	season := cfg.League.Season
	lastWeek := locker.CurrentWeek(time.Now())
	logger.Infof("Seeding picks for %d users, season %d weeks 1-%d", len(users), season, lastWeek)

	ctx := context.Background()
	sheets := 0

	for week := 1; week <= lastWeek; week++ {
		lock, err := locker.LockedLines(ctx, season, week)
		if err != nil {
			logger.Fatalf("Week %d has no usable snapshot: %v", week, err)
		}

		for _, user := range users {
			pick, ok := buildSheet(lock.Snapshot, user.ID, season, week)
			if !ok {
				logger.Warnf("Week %d: snapshot %s lacks enough lined games for a full sheet, skipping",
					week, lock.Snapshot.SnapshotID)
				break
			}
			if err := pickRepo.Upsert(ctx, pick); err != nil {
				logger.Fatalf("Failed to store week %d sheet for %s: %v", week, user.Name, err)
			}
			sheets++
			logger.Debugf("Week %d: %s took %s %.1f / %s %+.1f / over %.1f / under %.1f",
				week, user.Name,
				pick.Favorite.Team, pick.Favorite.Spread,
				pick.Underdog.Team, pick.Underdog.Spread,
				pick.Over.Line, pick.Under.Line)
		}
	}

	logger.Infof("Seeded %d pick sheets", sheets)
}

// buildSheet assembles one full sheet from a shuffled copy of the snapshot's
// games: a favorite, an underdog, and two totals, each on a distinct game.
// Returns false when the snapshot can't cover all four categories.
func buildSheet(snapshot *models.Snapshot, userID, season, week int) (*models.Pick, bool) {
	games := make([]models.GameLine, len(snapshot.Games))
	copy(games, snapshot.Games)
	rand.Shuffle(len(games), func(i, j int) {
		games[i], games[j] = games[j], games[i]
	})

	used := make(map[string]bool)

	favorite, ok := takeTeamPick(games, used, true)
	if !ok {
		return nil, false
	}
	underdog, ok := takeTeamPick(games, used, false)
	if !ok {
		return nil, false
	}
	over, ok := takeTotalPick(games, used)
	if !ok {
		return nil, false
	}
	under, ok := takeTotalPick(games, used)
	if !ok {
		return nil, false
	}

	return &models.Pick{
		UserID:      userID,
		Season:      season,
		Week:        week,
		Favorite:    favorite,
		Underdog:    underdog,
		Over:        over,
		Under:       under,
		SubmittedAt: time.Now().UTC(),
	}, true
}

// takeTeamPick claims the first unused game with a spread side matching the
// wanted sign. Favorites need a negative spread; a pick-em game still has an
// underdog side.
func takeTeamPick(games []models.GameLine, used map[string]bool, wantFavorite bool) (models.TeamPick, bool) {
	for i := range games {
		g := &games[i]
		if used[g.GameID] || !g.HasSpread() {
			continue
		}

		var team string
		var spread float64
		switch {
		case wantFavorite && *g.HomeSpread < 0:
			team, spread = g.HomeTeam, *g.HomeSpread
		case wantFavorite && *g.AwaySpread < 0:
			team, spread = g.AwayTeam, *g.AwaySpread
		case !wantFavorite && *g.HomeSpread >= 0:
			team, spread = g.HomeTeam, *g.HomeSpread
		case !wantFavorite && *g.AwaySpread >= 0:
			team, spread = g.AwayTeam, *g.AwaySpread
		default:
			continue
		}

		used[g.GameID] = true
		return models.TeamPick{GameID: g.GameID, Team: team, Spread: spread}, true
	}
	return models.TeamPick{}, false
}

// takeTotalPick claims the first unused game with a totals line.
func takeTotalPick(games []models.GameLine, used map[string]bool) (models.TotalPick, bool) {
	for i := range games {
		g := &games[i]
		if used[g.GameID] || !g.HasTotal() {
			continue
		}
		used[g.GameID] = true
		return models.TotalPick{GameID: g.GameID, Line: *g.TotalPoints}, true
	}
	return models.TotalPick{}, false
}
