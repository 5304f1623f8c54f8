package models

import "strings"

// Team pairs a provider team name with its display abbreviation.
type Team struct {
	Name string `json:"name"`
	Abbr string `json:"abbr"`
}

// nflAbbreviations maps the provider's full team names to the usual
// three-letter codes. Keys are lowercase; look up through Abbreviation.
var nflAbbreviations = map[string]string{
	"arizona cardinals":    "ARI",
	"atlanta falcons":      "ATL",
	"baltimore ravens":     "BAL",
	"buffalo bills":        "BUF",
	"carolina panthers":    "CAR",
	"chicago bears":        "CHI",
	"cincinnati bengals":   "CIN",
	"cleveland browns":     "CLE",
	"dallas cowboys":       "DAL",
	"denver broncos":       "DEN",
	"detroit lions":        "DET",
	"green bay packers":    "GB",
	"houston texans":       "HOU",
	"indianapolis colts":   "IND",
	"jacksonville jaguars": "JAX",
	"kansas city chiefs":   "KC",
	"las vegas raiders":    "LV",
	"los angeles chargers": "LAC",
	"los angeles rams":     "LAR",
	"miami dolphins":       "MIA",
	"minnesota vikings":    "MIN",
	"new england patriots": "NE",
	"new orleans saints":   "NO",
	"new york giants":      "NYG",
	"new york jets":        "NYJ",
	"philadelphia eagles":  "PHI",
	"pittsburgh steelers":  "PIT",
	"san francisco 49ers":  "SF",
	"seattle seahawks":     "SEA",
	"tampa bay buccaneers": "TB",
	"tennessee titans":     "TEN",
	"washington commanders": "WAS",
}

// Abbreviation returns the short code for a provider team name, or the name
// itself when it isn't a known NFL team (preseason oddities, renames).
func Abbreviation(name string) string {
	if abbr, ok := nflAbbreviations[strings.ToLower(strings.TrimSpace(name))]; ok {
		return abbr
	}
	return name
}

// ShortMatchup returns "AWY @ HOM" using abbreviations.
func ShortMatchup(awayTeam, homeTeam string) string {
	return Abbreviation(awayTeam) + " @ " + Abbreviation(homeTeam)
}
