package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickem-app-go/middleware"
	"pickem-app-go/models"
	"pickem-app-go/services"
)

// In-memory repository stubs for wiring real services under the handlers.

type stubPicks struct {
	picks []*models.Pick
}

func (s *stubPicks) Upsert(_ context.Context, pick *models.Pick) error {
	for i, existing := range s.picks {
		if existing.UserID == pick.UserID && existing.Season == pick.Season && existing.Week == pick.Week {
			s.picks[i] = pick
			return nil
		}
	}
	s.picks = append(s.picks, pick)
	return nil
}

func (s *stubPicks) FindByUserWeek(_ context.Context, userID, season, week int) (*models.Pick, error) {
	for _, pick := range s.picks {
		if pick.UserID == userID && pick.Season == season && pick.Week == week {
			return pick, nil
		}
	}
	return nil, nil
}

func (s *stubPicks) FindByWeek(_ context.Context, season, week int) ([]*models.Pick, error) {
	var out []*models.Pick
	for _, pick := range s.picks {
		if pick.Season == season && pick.Week == week {
			out = append(out, pick)
		}
	}
	return out, nil
}

func (s *stubPicks) FindByUserSeason(_ context.Context, userID, season int) ([]*models.Pick, error) {
	var out []*models.Pick
	for _, pick := range s.picks {
		if pick.UserID == userID && pick.Season == season {
			out = append(out, pick)
		}
	}
	return out, nil
}

type stubGameScores struct {
	snapshots []*models.ScoreSnapshot
	finals    map[string]models.GameScore
}

func (s *stubGameScores) Insert(_ context.Context, snapshot *models.ScoreSnapshot) error {
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

func (s *stubGameScores) CurrentScores(_ context.Context) (map[string]models.GameScore, error) {
	if s.finals != nil {
		return s.finals, nil
	}
	return models.LatestGameScores(s.snapshots), nil
}

type stubSnapshots struct {
	snapshots []*models.Snapshot
}

func (s *stubSnapshots) Insert(_ context.Context, snapshot *models.Snapshot) error {
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

func (s *stubSnapshots) FindBySnapshotID(_ context.Context, snapshotID string) (*models.Snapshot, error) {
	for _, snap := range s.snapshots {
		if snap.SnapshotID == snapshotID {
			return snap, nil
		}
	}
	return nil, nil
}

func (s *stubSnapshots) LatestBefore(_ context.Context, cutoff time.Time) (*models.Snapshot, error) {
	var best *models.Snapshot
	for _, snap := range s.snapshots {
		if snap.CreatedAt.After(cutoff) {
			continue
		}
		if best == nil || snap.CreatedAt.After(best.CreatedAt) {
			best = snap
		}
	}
	return best, nil
}

func (s *stubSnapshots) Latest(_ context.Context) (*models.Snapshot, error) {
	var best *models.Snapshot
	for _, snap := range s.snapshots {
		if best == nil || snap.CreatedAt.After(best.CreatedAt) {
			best = snap
		}
	}
	return best, nil
}

type stubWeeklyScores struct {
	scores []*models.WeeklyScore
}

func (s *stubWeeklyScores) Upsert(_ context.Context, score *models.WeeklyScore) error {
	for i, existing := range s.scores {
		if existing.UserID == score.UserID && existing.Season == score.Season && existing.Week == score.Week {
			s.scores[i] = score
			return nil
		}
	}
	s.scores = append(s.scores, score)
	return nil
}

func (s *stubWeeklyScores) FindByWeek(_ context.Context, season, week int) ([]*models.WeeklyScore, error) {
	var out []*models.WeeklyScore
	for _, score := range s.scores {
		if score.Season == season && score.Week == week {
			out = append(out, score)
		}
	}
	return out, nil
}

func (s *stubWeeklyScores) FindBySeason(_ context.Context, season int) ([]*models.WeeklyScore, error) {
	var out []*models.WeeklyScore
	for _, score := range s.scores {
		if score.Season == season {
			out = append(out, score)
		}
	}
	return out, nil
}

type stubUsers struct {
	users []*models.User
}

func (s *stubUsers) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, nil
}

func (s *stubUsers) GetUserByID(id int) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (s *stubUsers) GetUserByResetToken(token string) (*models.User, error) {
	for _, user := range s.users {
		if user.ResetToken != "" && user.ResetToken == token {
			return user, nil
		}
	}
	return nil, nil
}

func (s *stubUsers) CreateUser(user *models.User) error {
	s.users = append(s.users, user)
	return nil
}

func (s *stubUsers) UpdateUser(user *models.User) error {
	for i, existing := range s.users {
		if existing.ID == user.ID {
			s.users[i] = user
			return nil
		}
	}
	s.users = append(s.users, user)
	return nil
}

func (s *stubUsers) GetAllUsers() ([]*models.User, error) {
	return s.users, nil
}

type stubRawRecords struct {
	records []*models.RawRecord
}

func (s *stubRawRecords) Insert(_ context.Context, record *models.RawRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	s.records = append(s.records, record)
	return nil
}

func (s *stubRawRecords) FindByID(_ context.Context, id string) (*models.RawRecord, error) {
	for _, record := range s.records {
		if record.ID.Hex() == id {
			return record, nil
		}
	}
	return nil, nil
}

func (s *stubRawRecords) LatestOdds(_ context.Context) (*models.RawRecord, error) {
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].IsOddsRecord() {
			return s.records[i], nil
		}
	}
	return nil, nil
}

func (s *stubRawRecords) List(_ context.Context, apiType string, limit int) ([]*models.RawRecord, error) {
	var out []*models.RawRecord
	for i := len(s.records) - 1; i >= 0; i-- {
		if apiType != "" && s.records[i].APIType != apiType {
			continue
		}
		out = append(out, s.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// testSeason stays a year out so week 1 submissions are always open.
func testSeason() int {
	return time.Now().Year() + 1
}

func testCalendar() models.SeasonCalendar {
	return models.NewSeasonCalendar(testSeason(), time.September, 5, 17)
}

// lockedWeekOne returns a snapshot created just before the week-1 cutoff
// with four pickable games.
func lockedWeekOne(calendar models.SeasonCalendar) *models.Snapshot {
	spread := func(id, home, away string, homeSpread, total float64) models.GameLine {
		hs, as, tp := homeSpread, -homeSpread, total
		return models.GameLine{
			GameID:      id,
			HomeTeam:    home,
			AwayTeam:    away,
			Bookmaker:   "DraftKings",
			HomeSpread:  &hs,
			AwaySpread:  &as,
			TotalPoints: &tp,
		}
	}
	snapshot := &models.Snapshot{
		SnapshotID: "locked-week-1",
		CreatedAt:  calendar.LockCutoff(1).Add(-time.Hour),
		Games: []models.GameLine{
			spread("g1", "Dallas Cowboys", "New York Giants", -6.5, 47.5),
			spread("g2", "Green Bay Packers", "Chicago Bears", -3.0, 41.5),
			spread("g3", "Buffalo Bills", "Miami Dolphins", -5.5, 48.5),
			spread("g4", "Kansas City Chiefs", "Las Vegas Raiders", -7.0, 44.0),
		},
	}
	snapshot.GameCount = len(snapshot.Games)
	return snapshot
}

func newTestLocker(snapshots *stubSnapshots, strict bool) *services.LineLocker {
	return services.NewLineLocker(snapshots, testCalendar(), strict, nil)
}

// withUser injects an authenticated user the way the auth middleware does.
func withUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserKey, user)
	return r.WithContext(ctx)
}

func leagueMember() *models.User {
	return &models.User{ID: 3, Name: "SAM", Email: "sam@pickem.local"}
}

func leagueAdmin() *models.User {
	return &models.User{ID: 0, Name: "COMMISH", Email: "commish@pickem.local", IsAdmin: true}
}

// decodeResponse unmarshals a recorded JSON body, failing loudly with the
// raw body so bad shapes are easy to diagnose.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
