package logic

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/bracketlab/predict-api/internal/models"
)

// Predictor strategy tags, chosen by configuration.
const (
	StrategyElo     = "elo"
	StrategyLearned = "lr"
)

// TournamentPredictor estimates win probabilities for tournament pairings
// from the historical feature table. Strategies are interchangeable: both
// consume the same feature rows and return one probability in [0,1] per
// requested pairing.
type TournamentPredictor interface {
	Train(rows []models.FeatureRow) error
	EstimateProbability(pairings []models.Pairing) ([]models.Prediction, error)
}

// NewPredictor builds the predictor for the configured strategy tag.
func NewPredictor(strategy string, logger *zap.SugaredLogger) (TournamentPredictor, error) {
	switch strategy {
	case StrategyElo:
		return NewEloPredictor(logger), nil
	case StrategyLearned:
		return NewLearnedPredictor(NewLogisticRegression(), logger), nil
	default:
		return nil, fmt.Errorf("unknown predictor strategy %q", strategy)
	}
}

// EloPredictor scores a pairing from the two teams' ratings at the end of
// the regular season: P(a beats b) = 1 / (1 + 10^((Rb-Ra)/400)). The
// estimate is zero-sum by construction.
type EloPredictor struct {
	lastRatings map[seasonTeamKey]float64
	logger      *zap.SugaredLogger
}

func NewEloPredictor(logger *zap.SugaredLogger) *EloPredictor {
	return &EloPredictor{logger: logger}
}

// Train records each team's final regular-season rating per season.
func (p *EloPredictor) Train(rows []models.FeatureRow) error {
	p.lastRatings = make(map[seasonTeamKey]float64)
	for _, r := range rows {
		if r.Tourney {
			continue
		}
		p.lastRatings[seasonTeamKey{r.Season, r.TeamID}] = r.Elo
	}
	return nil
}

func (p *EloPredictor) rating(season, teamID int) float64 {
	if r, ok := p.lastRatings[seasonTeamKey{season, teamID}]; ok {
		return r
	}
	// A team with no regular-season rating rates at the baseline, matching
	// the engine's treatment of unseen teams.
	return BaselineRating
}

func (p *EloPredictor) EstimateProbability(pairings []models.Pairing) ([]models.Prediction, error) {
	if p.lastRatings == nil {
		return nil, errors.New("elo predictor not trained")
	}
	preds := make([]models.Prediction, 0, len(pairings))
	for _, pair := range pairings {
		ra := p.rating(pair.Season, pair.TeamA)
		rb := p.rating(pair.Season, pair.TeamB)
		preds = append(preds, models.Prediction{
			Season:      pair.Season,
			TeamID:      pair.TeamA,
			OtherTeamID: pair.TeamB,
			Pred:        1 / (1 + math.Pow(10, (rb-ra)/ratingScale)),
		})
	}
	return preds, nil
}

// LearnedPredictor trains a Classifier on prior-snapshot feature vectors
// and scores pairings from each team's last pre-tournament snapshot, with
// home advantage forced to neutral: a tournament site favors neither side.
type LearnedPredictor struct {
	clf           Classifier
	lastSnapshots map[seasonTeamKey]snapshot
	logger        *zap.SugaredLogger
}

func NewLearnedPredictor(clf Classifier, logger *zap.SugaredLogger) *LearnedPredictor {
	return &LearnedPredictor{clf: clf, logger: logger}
}

func (p *LearnedPredictor) Train(rows []models.FeatureRow) error {
	set := BuildTrainingSet(rows)
	if len(set.X) == 0 {
		return errors.New("no trainable examples in feature table")
	}
	p.lastSnapshots = lastRegularSeasonSnapshots(rows)
	if err := p.clf.Fit(set.X, set.Y); err != nil {
		return fmt.Errorf("fit classifier: %w", err)
	}
	p.logger.Infow("trained classifier", "examples", len(set.X), "features", len(set.Columns))
	return nil
}

func (p *LearnedPredictor) EstimateProbability(pairings []models.Pairing) ([]models.Prediction, error) {
	if p.lastSnapshots == nil {
		return nil, errors.New("learned predictor not trained")
	}

	preds := make([]models.Prediction, len(pairings))
	var x [][]float64
	var scored []int // pairing index per matrix row
	unknown := 0
	for i, pair := range pairings {
		preds[i] = models.Prediction{Season: pair.Season, TeamID: pair.TeamA, OtherTeamID: pair.TeamB, Pred: 0.5}

		a, okA := p.lastSnapshots[seasonTeamKey{pair.Season, pair.TeamA}]
		b, okB := p.lastSnapshots[seasonTeamKey{pair.Season, pair.TeamB}]
		if !okA || !okB {
			unknown++
			continue
		}
		vec, ok := featureVector(0, a, b)
		if !ok {
			unknown++
			continue
		}
		x = append(x, vec)
		scored = append(scored, i)
	}
	if unknown > 0 {
		// Pairings without a usable snapshot keep the even-odds default.
		p.logger.Warnw("pairings without pre-tournament snapshots", "count", unknown)
	}

	if len(x) > 0 {
		probs, err := p.clf.PredictProbability(x)
		if err != nil {
			return nil, fmt.Errorf("score pairings: %w", err)
		}
		for k, i := range scored {
			preds[i].Pred = probs[k]
		}
	}
	return preds, nil
}
