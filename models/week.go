package models

import (
	"time"
)

const (
	// FirstWeek and FinalWeek bound the regular-season week range.
	FirstWeek = 1
	FinalWeek = 18
)

// PacificLocation returns the league's display/lock time zone.
// Falls back to a fixed PST offset if tzdata is unavailable.
func PacificLocation() *time.Location {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return time.FixedZone("PST", -8*3600)
	}
	return loc
}

// SeasonCalendar derives league weeks from the season's anchor date.
// Week 1 starts on the anchor day; weeks advance in fixed 7-day steps.
// Lines lock the Wednesday before each week's opening Thursday, and
// submissions close at Thursday kickoff.
type SeasonCalendar struct {
	Season       int
	anchor       time.Time // midnight Pacific on the first day of week 1
	deadlineHour int
	loc          *time.Location
}

// NewSeasonCalendar builds the calendar for a season. anchorMonth/anchorDay
// locate week 1's first game day (the season opener); deadlineHour is the
// local hour of Thursday kickoff.
func NewSeasonCalendar(season int, anchorMonth time.Month, anchorDay, deadlineHour int) SeasonCalendar {
	loc := PacificLocation()
	return SeasonCalendar{
		Season:       season,
		anchor:       time.Date(season, anchorMonth, anchorDay, 0, 0, 0, 0, loc),
		deadlineHour: deadlineHour,
		loc:          loc,
	}
}

// WeekOf returns the league week containing t, clamped to the season range.
func (c SeasonCalendar) WeekOf(t time.Time) int {
	local := t.In(c.loc)
	// Compare calendar days so DST transitions cannot shift the boundary.
	cur := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	anchor := time.Date(c.anchor.Year(), c.anchor.Month(), c.anchor.Day(), 0, 0, 0, 0, time.UTC)
	days := int(cur.Sub(anchor).Hours() / 24)
	week := days/7 + 1
	if week < FirstWeek {
		return FirstWeek
	}
	if week > FinalWeek {
		return FinalWeek
	}
	return week
}

// WeekStart returns midnight Pacific on the first day of the given week.
func (c SeasonCalendar) WeekStart(week int) time.Time {
	return time.Date(c.anchor.Year(), c.anchor.Month(), c.anchor.Day()+7*(week-1), 0, 0, 0, 0, c.loc)
}

// LockCutoff returns the line-lock instant for a week: 09:00 Pacific on the
// Wednesday at or before the week's first game day.
func (c SeasonCalendar) LockCutoff(week int) time.Time {
	d := c.WeekStart(week)
	for d.Weekday() != time.Wednesday {
		d = d.AddDate(0, 0, -1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, c.loc)
}

// SubmissionDeadline returns the instant after which picks for a week are
// rejected: Thursday kickoff, the day after the lock Wednesday.
func (c SeasonCalendar) SubmissionDeadline(week int) time.Time {
	cutoff := c.LockCutoff(week)
	thursday := cutoff.AddDate(0, 0, 1)
	return time.Date(thursday.Year(), thursday.Month(), thursday.Day(), c.deadlineHour, 0, 0, 0, c.loc)
}

// SubmissionsOpen reports whether picks for a week may still be written at t.
func (c SeasonCalendar) SubmissionsOpen(week int, t time.Time) bool {
	return t.Before(c.SubmissionDeadline(week))
}

// ForSeason returns a calendar with the same anchor rules for another
// season year.
func (c SeasonCalendar) ForSeason(season int) SeasonCalendar {
	if season == c.Season {
		return c
	}
	return NewSeasonCalendar(season, c.anchor.Month(), c.anchor.Day(), c.deadlineHour)
}
