package logic

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/bracketlab/predict-api/internal/models"
)

func featureRow(teamID, otherID, dayNum, score, otherScore int, loc models.Venue, streak int, elo float64, rest sql.NullFloat64) models.FeatureRow {
	r := models.FeatureRow{
		TeamGameRecord: models.TeamGameRecord{
			TeamID: teamID, OtherTeamID: otherID, Season: 2019, DayNum: dayNum,
			Score: score, OtherScore: otherScore, Loc: loc,
		},
		Streak:        streak,
		Elo:           elo,
		RestDaysMax14: rest,
	}
	r.Win = r.Outcome()
	r.ScoreDifference = score - otherScore
	r.HomeAdvantage = loc.HomeAdvantage()
	return r
}

func valid(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

// threeGameSeries builds the feature rows for three games between teams 1
// and 2 on days 1-3, in (TeamID, Season, DayNum) order.
func threeGameSeries() []models.FeatureRow {
	return []models.FeatureRow{
		// team 1: won day 1 at home, lost day 2 away, won day 3 at home
		featureRow(1, 2, 1, 70, 60, models.VenueHome, 1, 1307, sql.NullFloat64{}),
		featureRow(1, 2, 2, 62, 65, models.VenueAway, -1, 1310, valid(1)),
		featureRow(1, 2, 3, 80, 70, models.VenueHome, 1, 1318, valid(1)),
		// team 2: the mirror image
		featureRow(2, 1, 1, 60, 70, models.VenueAway, -1, 1293, sql.NullFloat64{}),
		featureRow(2, 1, 2, 65, 62, models.VenueHome, 1, 1301, valid(1)),
		featureRow(2, 1, 3, 70, 80, models.VenueAway, -1, 1295, valid(1)),
	}
}

func TestPriorSnapshots(t *testing.T) {
	priors := priorSnapshots(threeGameSeries())

	// Day-1 games have no prior; days 2 and 3 do, for both teams.
	if len(priors) != 4 {
		t.Fatalf("priors = %d, want 4", len(priors))
	}
	p, ok := priors[teamGameKey{2019, 3, 1, 2}]
	if !ok {
		t.Fatal("missing prior for team 1's day-3 game")
	}
	// The prior is team 1's state after its day-2 game.
	if p.Streak != -1 || p.Elo != 1310 {
		t.Errorf("prior = %+v, want streak -1 elo 1310", p)
	}
}

func TestBuildTrainingSet(t *testing.T) {
	set := BuildTrainingSet(threeGameSeries())

	// Only the day-3 game trains: day 1 has no priors, day 2's priors
	// carry null rest days, and only the team-1 perspective (lower id)
	// contributes.
	if len(set.X) != 1 || len(set.Y) != 1 {
		t.Fatalf("examples = %d/%d, want 1/1", len(set.X), len(set.Y))
	}
	if set.Y[0] != 1 {
		t.Errorf("label = %d, want 1 (team 1 won day 3)", set.Y[0])
	}

	want := []float64{
		1,    // home advantage: team 1 at home
		9,    // elo advantage: 1310 - 1301
		-1,   // team 1 streak entering the game
		1,    // team 2 streak entering the game
		-3,   // team 1 prior score difference
		3,    // team 2 prior score difference
		1, 1, // both sides' capped rest days
	}
	if !reflect.DeepEqual(set.X[0], want) {
		t.Errorf("X[0] = %v, want %v", set.X[0], want)
	}
	if len(set.Columns) != len(want) {
		t.Errorf("columns = %d, want %d", len(set.Columns), len(want))
	}
}

func TestLastRegularSeasonSnapshots(t *testing.T) {
	rows := threeGameSeries()
	// Mark the day-3 games as tournament play; the snapshot must stop at
	// day 2.
	rows[2].Tourney = true
	rows[5].Tourney = true

	last := lastRegularSeasonSnapshots(rows)
	s, ok := last[seasonTeamKey{2019, 1}]
	if !ok {
		t.Fatal("missing snapshot for team 1")
	}
	if s.Elo != 1310 {
		t.Errorf("snapshot elo = %v, want 1310 (day-2 state)", s.Elo)
	}
}
