// Package logic implements the feature derivation pipeline: normalizing raw
// game results, expanding them to team perspective, deriving the sequential
// feature columns (streaks, rest days, Elo ratings), resolving bracket
// paths, and training tournament win-probability predictors.
package logic

import (
	"sort"

	"github.com/bracketlab/predict-api/internal/models"
)

// WithTeamNames returns a copy of games with team names resolved from the
// roster. Ids without a roster entry get an empty name; a missing mapping is
// never an error.
func WithTeamNames(games []models.GameRecord, teams []models.TeamRow) []models.GameRecord {
	namesByID := make(map[int]string, len(teams))
	for _, t := range teams {
		namesByID[t.TeamID] = t.TeamName
	}
	out := make([]models.GameRecord, len(games))
	for i, g := range games {
		g.WTeamName = namesByID[g.WTeamID]
		g.LTeamName = namesByID[g.LTeamID]
		out[i] = g
	}
	return out
}

// AllSeasonResults merges regular-season and tournament results into a
// single game table, tagging each row's phase, sorted by
// (Season, DayNum, WTeamID, LTeamID). The sort is stable so same-key rows
// keep their input order.
func AllSeasonResults(regular, tourney []models.GameRecord) []models.GameRecord {
	all := make([]models.GameRecord, 0, len(regular)+len(tourney))
	for _, g := range regular {
		g.Tourney = false
		all = append(all, g)
	}
	for _, g := range tourney {
		g.Tourney = true
		all = append(all, g)
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.DayNum != b.DayNum {
			return a.DayNum < b.DayNum
		}
		if a.WTeamID != b.WTeamID {
			return a.WTeamID < b.WTeamID
		}
		return a.LTeamID < b.LTeamID
	})
	return all
}
