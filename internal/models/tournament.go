package models

import "fmt"

// SeedRow assigns a bracket seed label (e.g. "W01", "X12b") to a team for
// one season's tournament.
type SeedRow struct {
	Season int    `json:"season"`
	Seed   string `json:"seed"`
	TeamID int    `json:"team_id"`
}

// SlotRow is one node of the bracket: the slot's winner advances, and its
// two inputs are either raw seed labels (first round) or other slot ids.
type SlotRow struct {
	Season     int    `json:"season"`
	Slot       string `json:"slot"`
	StrongSeed string `json:"strong_seed"`
	WeakSeed   string `json:"weak_seed"`
}

// ConferenceRow records a team's conference membership for one season.
// Teams move between conferences across seasons.
type ConferenceRow struct {
	Season     int    `json:"season"`
	TeamID     int    `json:"team_id"`
	ConfAbbrev string `json:"conf_abbrev"`
}

// Pairing is one requested matchup: two distinct teams from the same
// season's tournament field, lower id first.
type Pairing struct {
	Season int `json:"season"`
	TeamA  int `json:"team_a"`
	TeamB  int `json:"team_b"`
}

// Prediction is the estimated probability that TeamID beats OtherTeamID
// in Season's tournament.
type Prediction struct {
	Season      int     `json:"season"`
	TeamID      int     `json:"team_id"`
	OtherTeamID int     `json:"other_team_id"`
	Pred        float64 `json:"pred"`
}

// ID renders the submission row key, e.g. "2019_1101_1205".
func (p Prediction) ID() string {
	return fmt.Sprintf("%d_%d_%d", p.Season, p.TeamID, p.OtherTeamID)
}

// PairingID renders the canonical key for a season and two teams, lower
// team id first. Prediction lookups for (b, a) resolve to the (a, b) row
// with the probability complemented by the caller.
func PairingID(season, teamA, teamB int) string {
	if teamB < teamA {
		teamA, teamB = teamB, teamA
	}
	return fmt.Sprintf("%d_%d_%d", season, teamA, teamB)
}
