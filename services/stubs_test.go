package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"pickem-app-go/models"
)

// In-memory repository fakes shared by the service tests.

type fakeRawRecords struct {
	records   []*models.RawRecord
	insertErr error
}

func (f *fakeRawRecords) Insert(_ context.Context, record *models.RawRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRawRecords) FindByID(_ context.Context, id string) (*models.RawRecord, error) {
	for _, record := range f.records {
		if record.ID.Hex() == id {
			return record, nil
		}
	}
	return nil, nil
}

func (f *fakeRawRecords) LatestOdds(_ context.Context) (*models.RawRecord, error) {
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].IsOddsRecord() {
			return f.records[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRawRecords) List(_ context.Context, apiType string, limit int) ([]*models.RawRecord, error) {
	var out []*models.RawRecord
	for i := len(f.records) - 1; i >= 0; i-- {
		if apiType != "" && f.records[i].APIType != apiType {
			continue
		}
		out = append(out, f.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeSnapshots struct {
	snapshots []*models.Snapshot
	insertErr error
	findErr   error
}

func (f *fakeSnapshots) Insert(_ context.Context, snapshot *models.Snapshot) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func (f *fakeSnapshots) FindBySnapshotID(_ context.Context, snapshotID string) (*models.Snapshot, error) {
	for _, snap := range f.snapshots {
		if snap.SnapshotID == snapshotID {
			return snap, nil
		}
	}
	return nil, nil
}

func (f *fakeSnapshots) LatestBefore(_ context.Context, cutoff time.Time) (*models.Snapshot, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var best *models.Snapshot
	for _, snap := range f.snapshots {
		if snap.CreatedAt.After(cutoff) {
			continue
		}
		if best == nil || snap.CreatedAt.After(best.CreatedAt) {
			best = snap
		}
	}
	return best, nil
}

func (f *fakeSnapshots) Latest(_ context.Context) (*models.Snapshot, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var best *models.Snapshot
	for _, snap := range f.snapshots {
		if best == nil || snap.CreatedAt.After(best.CreatedAt) {
			best = snap
		}
	}
	return best, nil
}

type fakeGameScores struct {
	snapshots  []*models.ScoreSnapshot
	finals     map[string]models.GameScore
	insertErr  error
	currentErr error
}

func (f *fakeGameScores) Insert(_ context.Context, snapshot *models.ScoreSnapshot) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func (f *fakeGameScores) CurrentScores(_ context.Context) (map[string]models.GameScore, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	if f.finals != nil {
		return f.finals, nil
	}
	return models.LatestGameScores(f.snapshots), nil
}

type fakePicks struct {
	picks     []*models.Pick
	upsertErr error
}

func pickKeyMatches(p *models.Pick, userID, season, week int) bool {
	return p.UserID == userID && p.Season == season && p.Week == week
}

func (f *fakePicks) Upsert(_ context.Context, pick *models.Pick) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for i, existing := range f.picks {
		if pickKeyMatches(existing, pick.UserID, pick.Season, pick.Week) {
			f.picks[i] = pick
			return nil
		}
	}
	f.picks = append(f.picks, pick)
	return nil
}

func (f *fakePicks) FindByUserWeek(_ context.Context, userID, season, week int) (*models.Pick, error) {
	for _, pick := range f.picks {
		if pickKeyMatches(pick, userID, season, week) {
			return pick, nil
		}
	}
	return nil, nil
}

func (f *fakePicks) FindByWeek(_ context.Context, season, week int) ([]*models.Pick, error) {
	var out []*models.Pick
	for _, pick := range f.picks {
		if pick.Season == season && pick.Week == week {
			out = append(out, pick)
		}
	}
	return out, nil
}

func (f *fakePicks) FindByUserSeason(_ context.Context, userID, season int) ([]*models.Pick, error) {
	var out []*models.Pick
	for _, pick := range f.picks {
		if pick.UserID == userID && pick.Season == season {
			out = append(out, pick)
		}
	}
	return out, nil
}

type fakeWeeklyScores struct {
	scores    []*models.WeeklyScore
	upsertErr error
}

func (f *fakeWeeklyScores) Upsert(_ context.Context, score *models.WeeklyScore) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for i, existing := range f.scores {
		if existing.UserID == score.UserID && existing.Season == score.Season && existing.Week == score.Week {
			f.scores[i] = score
			return nil
		}
	}
	f.scores = append(f.scores, score)
	return nil
}

func (f *fakeWeeklyScores) FindByWeek(_ context.Context, season, week int) ([]*models.WeeklyScore, error) {
	var out []*models.WeeklyScore
	for _, score := range f.scores {
		if score.Season == season && score.Week == week {
			out = append(out, score)
		}
	}
	return out, nil
}

func (f *fakeWeeklyScores) FindBySeason(_ context.Context, season int) ([]*models.WeeklyScore, error) {
	var out []*models.WeeklyScore
	for _, score := range f.scores {
		if score.Season == season {
			out = append(out, score)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

type fakeUsers struct {
	users []*models.User
}

func (f *fakeUsers) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetUserByID(id int) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetUserByResetToken(token string) (*models.User, error) {
	for _, user := range f.users {
		if user.ResetToken == token {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) CreateUser(user *models.User) error {
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUsers) UpdateUser(user *models.User) error {
	for i, existing := range f.users {
		if existing.ID == user.ID {
			f.users[i] = user
			return nil
		}
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUsers) GetAllUsers() ([]*models.User, error) {
	return f.users, nil
}
