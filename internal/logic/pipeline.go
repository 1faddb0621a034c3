package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bracketlab/predict-api/internal/datasource"
	"github.com/bracketlab/predict-api/internal/models"
)

// Prometheus metrics
var (
	gamesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predict_games_processed_total",
		Help: "Total number of raw game records processed",
	}, []string{"division"})

	rowsTransformed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predict_perspective_rows_total",
		Help: "Total number of team-perspective rows produced",
	}, []string{"division"})

	producerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "predict_feature_producer_duration_seconds",
		Help:    "Duration of each feature producer run",
		Buckets: prometheus.DefBuckets,
	}, []string{"producer"})

	unresolvedSlots = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predict_unresolved_slots_total",
		Help: "Tournament games whose bracket slot could not be inferred",
	}, []string{"division"})
)

// Pipeline assembles the full feature table for one division: normalize,
// expand to team perspective, then run every registered feature producer.
// One Pipeline is one run; its cache does not outlive it.
type Pipeline struct {
	source   datasource.DataSource
	registry []FeatureProducer
	logger   *zap.SugaredLogger
}

func NewPipeline(source datasource.DataSource, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		source:   source,
		registry: Registry(),
		logger:   logger,
	}
}

// BuildFeatureTable runs the pipeline end to end and returns the feature
// rows sorted by (TeamID, Season, DayNum, OtherTeamID).
func (p *Pipeline) BuildFeatureTable(ctx context.Context) ([]models.FeatureRow, error) {
	teams, err := p.source.Teams()
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	regular, err := p.source.RegularSeasonCompactResults()
	if err != nil {
		return nil, fmt.Errorf("load regular season results: %w", err)
	}
	tourney, err := p.source.TourneyCompactResults()
	if err != nil {
		return nil, fmt.Errorf("load tournament results: %w", err)
	}
	conferences, err := p.source.TeamConferences()
	if err != nil {
		return nil, fmt.Errorf("load team conferences: %w", err)
	}

	division := p.source.Prefix()
	games := AllSeasonResults(
		WithTeamNames(regular, teams),
		WithTeamNames(tourney, teams),
	)
	gamesProcessed.WithLabelValues(division).Add(float64(len(games)))

	perspective := ToTeamPerspective(games)
	rowsTransformed.WithLabelValues(division).Add(float64(len(perspective)))
	p.logger.Infow("built team perspective table",
		"division", division, "games", len(games), "rows", len(perspective))

	base := NewFeatureBase(games, perspective, conferences, p.logger)

	setters := make([]ColumnSetter, len(p.registry))
	g, gctx := errgroup.WithContext(ctx)
	for i, producer := range p.registry {
		g.Go(func() error {
			start := time.Now()
			setter, err := producer.Produce(gctx, base)
			if err != nil {
				return fmt.Errorf("producer %s: %w", producer.Name, err)
			}
			producerDuration.WithLabelValues(producer.Name).Observe(time.Since(start).Seconds())
			setters[i] = setter
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]models.FeatureRow, len(perspective))
	for i, r := range perspective {
		rows[i].TeamGameRecord = r
	}
	for _, setter := range setters {
		setter(rows)
	}
	return rows, nil
}

// SlotReport is the result of mapping one division's tournament games onto
// bracket slots.
type SlotReport struct {
	// SlotByGame keys are "season_wTeamID_lTeamID".
	SlotByGame map[string]string
	Unresolved int
}

// AnnotateDecidedSlots infers, for every tournament game, which bracket
// slot it decided. Games whose teams' paths never converge are counted,
// logged, and skipped; they do not fail the run. Slot rows with season zero
// (archives predating the Season column) apply to every season.
func AnnotateDecidedSlots(division string, games []models.GameRecord, slots []models.SlotRow, seeds []models.SeedRow, logger *zap.SugaredLogger) (*SlotReport, error) {
	slotsBySeason := make(map[int][]models.SlotRow)
	var sharedSlots []models.SlotRow
	for _, s := range slots {
		if s.Season == 0 {
			sharedSlots = append(sharedSlots, s)
			continue
		}
		slotsBySeason[s.Season] = append(slotsBySeason[s.Season], s)
	}
	seedsBySeason := make(map[int][]models.SeedRow)
	for _, s := range seeds {
		seedsBySeason[s.Season] = append(seedsBySeason[s.Season], s)
	}

	brackets := make(map[int]*Bracket)
	report := &SlotReport{SlotByGame: make(map[string]string)}
	for _, g := range games {
		if !g.Tourney {
			continue
		}
		b, ok := brackets[g.Season]
		if !ok {
			seasonSlots := slotsBySeason[g.Season]
			if len(seasonSlots) == 0 {
				seasonSlots = sharedSlots
			}
			var err error
			b, err = NewBracket(seasonSlots, seedsBySeason[g.Season])
			if err != nil {
				return nil, fmt.Errorf("season %d bracket: %w", g.Season, err)
			}
			brackets[g.Season] = b
		}

		slot, ok := b.DecidedSlot(g.WTeamID, g.LTeamID)
		if !ok {
			report.Unresolved++
			unresolvedSlots.WithLabelValues(division).Inc()
			continue
		}
		report.SlotByGame[fmt.Sprintf("%d_%d_%d", g.Season, g.WTeamID, g.LTeamID)] = slot
	}
	if report.Unresolved > 0 {
		logger.Warnw("tournament games without a resolvable slot",
			"division", division, "count", report.Unresolved)
	}
	return report, nil
}
