package models

import "sort"

// StandingsEntry is one user's season-to-date totals. Standings are derived
// from weekly scores on demand and never stored as an authority.
type StandingsEntry struct {
	UserID       int     `json:"user_id"`
	UserName     string  `json:"user_name"`
	TotalPoints  float64 `json:"total_points"`
	PerfectWeeks int     `json:"perfect_weeks"`
	WeeksPlayed  int     `json:"weeks_played"`
}

// SortStandings orders entries by total points, then perfect weeks, then
// name so ties render stably.
func SortStandings(entries []StandingsEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		if entries[i].PerfectWeeks != entries[j].PerfectWeeks {
			return entries[i].PerfectWeeks > entries[j].PerfectWeeks
		}
		return entries[i].UserName < entries[j].UserName
	})
}
