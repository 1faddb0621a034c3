package logic

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/bracketlab/predict-api/internal/models"
)

// Rating system constants, following the FiveThirtyEight NBA Elo variant.
const (
	// BaselineRating is the rating every team starts its history at.
	BaselineRating = 1300.0

	// homeCourtBonus is added to a side's rating, for the expected-score
	// and K-factor computation only, when that side had the home floor.
	homeCourtBonus = 100.0

	// ratingScale is the logistic scale: a ratingScale-point gap means
	// ten-to-one expected odds.
	ratingScale = 400.0

	// meanRegression is the fraction of a team's rating pulled toward its
	// conference mean at the start of each season.
	meanRegression = 0.25
)

// GameRating carries the post-update ratings of both sides of one game,
// aligned one-to-one with the engine's input order.
type GameRating struct {
	Season  int
	DayNum  int
	WTeamID int
	LTeamID int
	WElo    float64
	LElo    float64
}

// EloEngine replays an ordered game history, maintaining a running rating
// per team. State belongs to exactly one replay: the engine is single-use,
// strictly sequential, and deterministic for a given input order.
type EloEngine struct {
	ratings map[int]float64
	logger  *zap.SugaredLogger
}

// NewEloEngine returns an engine with an empty rating table. Teams not yet
// in the table rate at BaselineRating.
func NewEloEngine(logger *zap.SugaredLogger) *EloEngine {
	return &EloEngine{
		ratings: make(map[int]float64),
		logger:  logger,
	}
}

// Rating returns a team's current rating, or the baseline if the team has
// not appeared yet.
func (e *EloEngine) Rating(teamID int) float64 {
	if r, ok := e.ratings[teamID]; ok {
		return r
	}
	return BaselineRating
}

// ProcessAll replays games in input order, which must already be ascending
// by (Season, DayNum) with stable order within a day. Before the first game
// of each season, every team's rating regresses 25% toward its conference's
// current mean, using that season's conference assignments; teams without
// an assignment that season keep their rating unchanged.
//
// The returned slice holds the post-update rating pair for each game, in
// input order. A game whose winner did not outscore the loser is an input
// error and aborts the replay.
func (e *EloEngine) ProcessAll(games []models.GameRecord, conferences []models.ConferenceRow) ([]GameRating, error) {
	confTeams := teamsByConferenceAndSeason(conferences)

	out := make([]GameRating, 0, len(games))
	currentSeason := 0
	for i, g := range games {
		if g.Season != currentSeason {
			currentSeason = g.Season
			e.regressToConferenceMeans(confTeams[currentSeason])
		}

		gr, err := e.applyGame(g)
		if err != nil {
			return nil, fmt.Errorf("game %d (season %d day %d): %w", i, g.Season, g.DayNum, err)
		}
		out = append(out, gr)
	}
	return out, nil
}

// applyGame updates both teams' ratings for one result and returns the
// post-update pair.
func (e *EloEngine) applyGame(g models.GameRecord) (GameRating, error) {
	margin := g.WScore - g.LScore
	if margin <= 0 {
		return GameRating{}, fmt.Errorf("winner score %d does not exceed loser score %d", g.WScore, g.LScore)
	}

	wBase := e.Rating(g.WTeamID)
	lBase := e.Rating(g.LTeamID)

	// Home-court adjustment enters the expectation, never the stored rating.
	wAdj := wBase
	lAdj := lBase
	switch g.Loc {
	case models.VenueHome:
		wAdj += homeCourtBonus
	case models.VenueAway:
		lAdj += homeCourtBonus
	}

	eloDiff := wAdj - lAdj
	k := 20 * math.Pow(float64(margin)+3, 0.8) / (7.5 + 0.006*eloDiff)

	eWin := 1 / (1 + math.Pow(10, (lAdj-wAdj)/ratingScale))
	eLose := 1 - eWin

	wNew := k*(1-eWin) + wBase
	lNew := k*(0-eLose) + lBase

	e.ratings[g.WTeamID] = wNew
	e.ratings[g.LTeamID] = lNew

	return GameRating{
		Season:  g.Season,
		DayNum:  g.DayNum,
		WTeamID: g.WTeamID,
		LTeamID: g.LTeamID,
		WElo:    wNew,
		LElo:    lNew,
	}, nil
}

// regressToConferenceMeans pulls each conference member toward its
// conference's mean rating. Means are computed over the full membership
// first (absent teams counting as baseline), then applied, so the result
// does not depend on iteration order.
func (e *EloEngine) regressToConferenceMeans(teamsByConf map[string][]int) {
	if len(teamsByConf) == 0 {
		return
	}

	confs := make([]string, 0, len(teamsByConf))
	for conf := range teamsByConf {
		confs = append(confs, conf)
	}
	sort.Strings(confs)

	means := make(map[string]float64, len(confs))
	for _, conf := range confs {
		teams := teamsByConf[conf]
		sum := 0.0
		for _, id := range teams {
			sum += e.Rating(id)
		}
		means[conf] = sum / float64(len(teams))
	}

	for _, conf := range confs {
		mean := means[conf]
		for _, id := range teamsByConf[conf] {
			e.ratings[id] = meanRegression*mean + (1-meanRegression)*e.Rating(id)
		}
	}
}

// teamsByConferenceAndSeason groups conference membership rows into
// season -> conference -> member team ids.
func teamsByConferenceAndSeason(rows []models.ConferenceRow) map[int]map[string][]int {
	out := make(map[int]map[string][]int)
	for _, r := range rows {
		season, ok := out[r.Season]
		if !ok {
			season = make(map[string][]int)
			out[r.Season] = season
		}
		season[r.ConfAbbrev] = append(season[r.ConfAbbrev], r.TeamID)
	}
	return out
}
