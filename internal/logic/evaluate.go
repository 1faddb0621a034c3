package logic

import (
	"errors"
	"math"

	"github.com/bracketlab/predict-api/internal/models"
)

// logLossEpsilon clamps probabilities away from 0 and 1 so a single
// confidently wrong prediction cannot produce an infinite loss.
const logLossEpsilon = 1e-15

// LogLoss scores predictions against realized tournament results from
// fromSeason onward. Each tournament game is matched to its prediction by
// the canonical lower-team-first pairing id; the label is whether the lower
// team won. Games without a matching prediction are ignored.
func LogLoss(predictions []models.Prediction, tourneyGames []models.GameRecord, fromSeason int) (float64, error) {
	predByID := make(map[string]float64, len(predictions))
	for _, p := range predictions {
		predByID[p.ID()] = p.Pred
	}

	sum := 0.0
	n := 0
	for _, g := range tourneyGames {
		if g.Season < fromSeason {
			continue
		}
		p, ok := predByID[models.PairingID(g.Season, g.WTeamID, g.LTeamID)]
		if !ok {
			continue
		}
		if g.LTeamID < g.WTeamID {
			// Prediction is for the lower id beating the higher; the lower
			// id lost this game.
			p = 1 - p
		}
		p = math.Min(math.Max(p, logLossEpsilon), 1-logLossEpsilon)
		sum += -math.Log(p)
		n++
	}
	if n == 0 {
		return 0, errors.New("no tournament games matched any prediction")
	}
	return sum / float64(n), nil
}
