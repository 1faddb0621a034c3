package logic

import (
	"sort"

	"github.com/bracketlab/predict-api/internal/models"
)

// ToTeamPerspective expands each game into two team-perspective rows: the
// winner's view (venue unchanged) and the loser's view (venue flipped,
// neutral stays neutral). The result has exactly twice as many rows as the
// input and is stably sorted by (TeamID, Season, DayNum, OtherTeamID).
func ToTeamPerspective(games []models.GameRecord) []models.TeamGameRecord {
	rows := make([]models.TeamGameRecord, 0, 2*len(games))
	for _, g := range games {
		rows = append(rows, winnerView(g))
	}
	for _, g := range games {
		rows = append(rows, loserView(g))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.TeamID != b.TeamID {
			return a.TeamID < b.TeamID
		}
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.DayNum != b.DayNum {
			return a.DayNum < b.DayNum
		}
		return a.OtherTeamID < b.OtherTeamID
	})
	return rows
}

func winnerView(g models.GameRecord) models.TeamGameRecord {
	return models.TeamGameRecord{
		TeamID:        g.WTeamID,
		TeamName:      g.WTeamName,
		Season:        g.Season,
		DayNum:        g.DayNum,
		Score:         g.WScore,
		OtherTeamID:   g.LTeamID,
		OtherTeamName: g.LTeamName,
		OtherScore:    g.LScore,
		Loc:           g.Loc,
		NumOT:         g.NumOT,
		Tourney:       g.Tourney,
	}
}

func loserView(g models.GameRecord) models.TeamGameRecord {
	return models.TeamGameRecord{
		TeamID:        g.LTeamID,
		TeamName:      g.LTeamName,
		Season:        g.Season,
		DayNum:        g.DayNum,
		Score:         g.LScore,
		OtherTeamID:   g.WTeamID,
		OtherTeamName: g.WTeamName,
		OtherScore:    g.WScore,
		Loc:           g.Loc.Flip(),
		NumOT:         g.NumOT,
		Tourney:       g.Tourney,
	}
}

// ToGameRecord recovers the winner-oriented game from either perspective
// row. Applying it to both rows of one game yields identical records, which
// makes the perspective transform its own near-inverse.
func ToGameRecord(r models.TeamGameRecord) models.GameRecord {
	if r.Score > r.OtherScore {
		return models.GameRecord{
			Season:    r.Season,
			DayNum:    r.DayNum,
			WTeamID:   r.TeamID,
			WTeamName: r.TeamName,
			WScore:    r.Score,
			LTeamID:   r.OtherTeamID,
			LTeamName: r.OtherTeamName,
			LScore:    r.OtherScore,
			Loc:       r.Loc,
			NumOT:     r.NumOT,
			Tourney:   r.Tourney,
		}
	}
	return models.GameRecord{
		Season:    r.Season,
		DayNum:    r.DayNum,
		WTeamID:   r.OtherTeamID,
		WTeamName: r.OtherTeamName,
		WScore:    r.OtherScore,
		LTeamID:   r.TeamID,
		LTeamName: r.TeamName,
		LScore:    r.Score,
		Loc:       r.Loc.Flip(),
		NumOT:     r.NumOT,
		Tourney:   r.Tourney,
	}
}
