package models

import "database/sql"

// FeatureRow is one team-perspective game augmented with every derived
// feature column. Rows are ordered by (TeamID, Season, DayNum, OtherTeamID);
// the sequential features (Streak, RestDays, Elo) are only meaningful under
// that ordering.
type FeatureRow struct {
	TeamGameRecord

	Win             int `json:"win"` // +1 win, -1 loss
	ScoreDifference int `json:"score_difference"`
	HomeAdvantage   int `json:"home_advantage"` // H:+1 N:0 A:-1
	Streak          int `json:"streak"`

	// RestDays is null for a team's first recorded game. The capped
	// variants clamp known values at the cap and leave nulls null.
	RestDays      sql.NullFloat64 `json:"rest_days"`
	RestDaysMax14 sql.NullFloat64 `json:"rest_days_max_14"`
	RestDaysMax7  sql.NullFloat64 `json:"rest_days_max_7"`
	RestDaysMax3  sql.NullFloat64 `json:"rest_days_max_3"`

	// Elo is this team's rating immediately after the game.
	Elo float64 `json:"elo"`
}
