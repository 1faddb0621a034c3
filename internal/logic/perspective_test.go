package logic

import (
	"reflect"
	"testing"

	"github.com/bracketlab/predict-api/internal/models"
)

func TestToTeamPerspective(t *testing.T) {
	games := []models.GameRecord{
		{Season: 2019, DayNum: 20, WTeamID: 1101, WTeamName: "Aardvarks", WScore: 70,
			LTeamID: 1205, LTeamName: "Badgers", LScore: 60, Loc: models.VenueHome, NumOT: 1},
		{Season: 2019, DayNum: 25, WTeamID: 1205, WTeamName: "Badgers", WScore: 55,
			LTeamID: 1101, LTeamName: "Aardvarks", LScore: 50, Loc: models.VenueNeutral},
	}

	rows := ToTeamPerspective(games)
	if len(rows) != 2*len(games) {
		t.Fatalf("rows = %d, want %d", len(rows), 2*len(games))
	}

	// Sorted by (TeamID, Season, DayNum, OtherTeamID): team 1101's two
	// games first, then team 1205's.
	wantOrder := []struct {
		teamID, dayNum int
	}{
		{1101, 20}, {1101, 25}, {1205, 20}, {1205, 25},
	}
	for i, want := range wantOrder {
		if rows[i].TeamID != want.teamID || rows[i].DayNum != want.dayNum {
			t.Errorf("row %d = team %d day %d, want team %d day %d",
				i, rows[i].TeamID, rows[i].DayNum, want.teamID, want.dayNum)
		}
	}

	winner := rows[0] // 1101 won at home on day 20
	if winner.Score != 70 || winner.OtherScore != 60 || winner.Loc != models.VenueHome {
		t.Errorf("winner view = %+v", winner)
	}
	if winner.NumOT != 1 {
		t.Errorf("winner view NumOT = %d, want 1", winner.NumOT)
	}

	loser := rows[2] // 1205 lost that game; venue flips to away
	if loser.Score != 60 || loser.OtherScore != 70 || loser.Loc != models.VenueAway {
		t.Errorf("loser view = %+v", loser)
	}

	neutralLoser := rows[1] // 1101 lost on day 25 at a neutral site
	if neutralLoser.Loc != models.VenueNeutral {
		t.Errorf("neutral venue flipped to %v", neutralLoser.Loc)
	}
}

func TestPerspectiveRoundTrip(t *testing.T) {
	games := []models.GameRecord{
		{Season: 2018, DayNum: 11, WTeamID: 1300, WTeamName: "Cougars", WScore: 81,
			LTeamID: 1102, LTeamName: "Drakes", LScore: 77, Loc: models.VenueAway, NumOT: 2, Tourney: true},
	}
	rows := ToTeamPerspective(games)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	// Both perspective rows must recover the identical original game.
	for i, r := range rows {
		if got := ToGameRecord(r); !reflect.DeepEqual(got, games[0]) {
			t.Errorf("row %d round trip = %+v, want %+v", i, got, games[0])
		}
	}
}

func TestPerspectiveStableTieBreak(t *testing.T) {
	// An unrealistic same-day rematch: rows with identical sort keys must
	// keep their input game order.
	games := []models.GameRecord{
		{Season: 2019, DayNum: 30, WTeamID: 1101, WScore: 70, LTeamID: 1205, LScore: 60, Loc: models.VenueNeutral},
		{Season: 2019, DayNum: 30, WTeamID: 1101, WScore: 90, LTeamID: 1205, LScore: 40, Loc: models.VenueNeutral},
	}
	rows := ToTeamPerspective(games)
	if rows[0].Score != 70 || rows[1].Score != 90 {
		t.Errorf("tie-broken order = %d, %d; want 70, 90", rows[0].Score, rows[1].Score)
	}
}
