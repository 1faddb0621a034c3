package logic

import (
	"database/sql"

	"github.com/bracketlab/predict-api/internal/models"
)

// trainingColumns is the ordered feature vector the learned predictor
// trains and scores with. "p" columns are the subject team's most recent
// prior snapshot, "po" the opponent's; EloAdvantage is their rating gap.
var trainingColumns = []string{
	"home_advantage",
	"elo_advantage",
	"p_streak",
	"po_streak",
	"p_score_difference",
	"po_score_difference",
	"p_rest_days_max_14",
	"po_rest_days_max_14",
}

// TrainingSet is a dense matrix ready for a Classifier: one row per game
// with both sides' prior snapshots known, labeled with the subject's
// outcome (1 win, 0 loss).
type TrainingSet struct {
	Columns []string
	X       [][]float64
	Y       []int
}

// snapshot is the feature state of one team as of (strictly after) one of
// its games. It is what "the most recent known form" of a team looks like
// to a later game.
type snapshot struct {
	Streak          int
	ScoreDifference int
	RestDaysMax14   sql.NullFloat64
	Elo             float64
}

func rowSnapshot(r models.FeatureRow) snapshot {
	return snapshot{
		Streak:          r.Streak,
		ScoreDifference: r.ScoreDifference,
		RestDaysMax14:   r.RestDaysMax14,
		Elo:             r.Elo,
	}
}

type teamGameKey struct {
	season, dayNum, teamID, otherTeamID int
}

// priorSnapshots returns, for each team-perspective row, the snapshot of
// that row's team from its previous game: a shift-by-one within the team's
// chronologically ordered history, crossing season boundaries. A team's
// first game has no prior and is absent from the map.
func priorSnapshots(rows []models.FeatureRow) map[teamGameKey]snapshot {
	priors := make(map[teamGameKey]snapshot, len(rows))
	// Rows are sorted by (TeamID, Season, DayNum), so the previous row of
	// the same team is the previous game.
	for i, r := range rows {
		if i == 0 || rows[i-1].TeamID != r.TeamID {
			continue
		}
		key := teamGameKey{r.Season, r.DayNum, r.TeamID, r.OtherTeamID}
		priors[key] = rowSnapshot(rows[i-1])
	}
	return priors
}

// BuildTrainingSet assembles the learned predictor's training matrix. Each
// game contributes at most one example (subject id below opponent id, so a
// game is not counted from both perspectives); games where either side has
// no complete prior snapshot are dropped.
func BuildTrainingSet(rows []models.FeatureRow) TrainingSet {
	priors := priorSnapshots(rows)
	set := TrainingSet{Columns: trainingColumns}

	for _, r := range rows {
		if r.TeamID >= r.OtherTeamID {
			continue
		}
		p, ok := priors[teamGameKey{r.Season, r.DayNum, r.TeamID, r.OtherTeamID}]
		if !ok {
			continue
		}
		po, ok := priors[teamGameKey{r.Season, r.DayNum, r.OtherTeamID, r.TeamID}]
		if !ok {
			continue
		}
		x, ok := featureVector(float64(r.Loc.HomeAdvantage()), p, po)
		if !ok {
			continue
		}
		label := 0
		if r.Score > r.OtherScore {
			label = 1
		}
		set.X = append(set.X, x)
		set.Y = append(set.Y, label)
	}
	return set
}

// featureVector lays out one example in trainingColumns order. It fails
// when a rest-day value is null (a side's first recorded game).
func featureVector(homeAdvantage float64, p, po snapshot) ([]float64, bool) {
	if !p.RestDaysMax14.Valid || !po.RestDaysMax14.Valid {
		return nil, false
	}
	return []float64{
		homeAdvantage,
		p.Elo - po.Elo,
		float64(p.Streak),
		float64(po.Streak),
		float64(p.ScoreDifference),
		float64(po.ScoreDifference),
		p.RestDaysMax14.Float64,
		po.RestDaysMax14.Float64,
	}, true
}

type seasonTeamKey struct {
	season, teamID int
}

// lastRegularSeasonSnapshots returns each team's feature state after its
// final regular-season game, per season. Tournament rows are excluded so
// the snapshot is the team's form entering the tournament.
func lastRegularSeasonSnapshots(rows []models.FeatureRow) map[seasonTeamKey]snapshot {
	out := make(map[seasonTeamKey]snapshot)
	for _, r := range rows {
		if r.Tourney {
			continue
		}
		// Rows are in chronological order per team, so the last write wins.
		out[seasonTeamKey{r.Season, r.TeamID}] = rowSnapshot(r)
	}
	return out
}
