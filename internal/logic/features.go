package logic

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bracketlab/predict-api/internal/models"
)

// FeatureBase is the shared input every feature producer reads: the merged
// game table and its team-perspective expansion, both in canonical sort
// order, plus the season conference assignments. Producers never mutate it.
type FeatureBase struct {
	Games       []models.GameRecord
	Rows        []models.TeamGameRecord
	Conferences []models.ConferenceRow
	Logger      *zap.SugaredLogger

	cache *runCache
}

// NewFeatureBase wires a base with its per-run cache. Producers running
// concurrently share the cache, so the base must be built here rather than
// as a bare literal.
func NewFeatureBase(games []models.GameRecord, rows []models.TeamGameRecord, conferences []models.ConferenceRow, logger *zap.SugaredLogger) *FeatureBase {
	return &FeatureBase{
		Games:       games,
		Rows:        rows,
		Conferences: conferences,
		Logger:      logger,
		cache:       &runCache{},
	}
}

// runCache holds intermediate columns shared between producers within one
// pipeline run. It replaces the original's transparent memoization with an
// explicit per-run object, so nothing survives into the next run.
type runCache struct {
	mu       sync.Mutex
	restDays []sql.NullFloat64
}

// ColumnSetter writes one computed column into the feature rows. Setters
// are applied in registry order after all producers finish.
type ColumnSetter func(rows []models.FeatureRow)

// FeatureProducer derives one feature column from the base tables.
// Producers run concurrently; each returns a setter that is applied
// sequentially, so a producer must not touch rows itself.
type FeatureProducer struct {
	Name    string
	Produce func(ctx context.Context, b *FeatureBase) (ColumnSetter, error)
}

// Registry returns the ordered list of feature producers. The order is the
// column application order, not a dependency order; producers are
// independent of each other.
func Registry() []FeatureProducer {
	return []FeatureProducer{
		{Name: "win", Produce: produceWin},
		{Name: "score_difference", Produce: produceScoreDifference},
		{Name: "home_advantage", Produce: produceHomeAdvantage},
		{Name: "streak", Produce: produceStreak},
		{Name: "rest_days", Produce: produceRestDays},
		{Name: "rest_days_max_14", Produce: produceRestDaysMax(14, func(r *models.FeatureRow, v sql.NullFloat64) { r.RestDaysMax14 = v })},
		{Name: "rest_days_max_7", Produce: produceRestDaysMax(7, func(r *models.FeatureRow, v sql.NullFloat64) { r.RestDaysMax7 = v })},
		{Name: "rest_days_max_3", Produce: produceRestDaysMax(3, func(r *models.FeatureRow, v sql.NullFloat64) { r.RestDaysMax3 = v })},
		{Name: "elo", Produce: produceElo},
	}
}

func produceWin(_ context.Context, b *FeatureBase) (ColumnSetter, error) {
	values := make([]int, len(b.Rows))
	for i, r := range b.Rows {
		values[i] = r.Outcome()
	}
	return func(rows []models.FeatureRow) {
		for i := range rows {
			rows[i].Win = values[i]
		}
	}, nil
}

func produceScoreDifference(_ context.Context, b *FeatureBase) (ColumnSetter, error) {
	values := make([]int, len(b.Rows))
	for i, r := range b.Rows {
		values[i] = r.Score - r.OtherScore
	}
	return func(rows []models.FeatureRow) {
		for i := range rows {
			rows[i].ScoreDifference = values[i]
		}
	}, nil
}

func produceHomeAdvantage(_ context.Context, b *FeatureBase) (ColumnSetter, error) {
	values := make([]int, len(b.Rows))
	for i, r := range b.Rows {
		values[i] = r.Loc.HomeAdvantage()
	}
	return func(rows []models.FeatureRow) {
		for i := range rows {
			rows[i].HomeAdvantage = values[i]
		}
	}, nil
}

// produceStreak computes the signed run length of consecutive same-outcome
// games. A new run starts whenever the outcome, the team, or the season
// changes relative to the previous row in sort order.
func produceStreak(_ context.Context, b *FeatureBase) (ColumnSetter, error) {
	values := make([]int, len(b.Rows))
	for i, r := range b.Rows {
		outcome := r.Outcome()
		if i == 0 {
			values[i] = outcome
			continue
		}
		prev := b.Rows[i-1]
		if prev.TeamID != r.TeamID || prev.Season != r.Season || prev.Outcome() != outcome {
			values[i] = outcome
		} else {
			values[i] = values[i-1] + outcome
		}
	}
	return func(rows []models.FeatureRow) {
		for i := range rows {
			rows[i].Streak = values[i]
		}
	}, nil
}

func produceRestDays(_ context.Context, b *FeatureBase) (ColumnSetter, error) {
	values := b.restDaysColumn()
	return func(rows []models.FeatureRow) {
		for i := range rows {
			rows[i].RestDays = values[i]
		}
	}, nil
}

// produceRestDaysMax caps the rest-day gap at maximum. Null values (a
// team's first game) stay null rather than being filled with the cap.
func produceRestDaysMax(maximum float64, set func(*models.FeatureRow, sql.NullFloat64)) func(context.Context, *FeatureBase) (ColumnSetter, error) {
	return func(_ context.Context, b *FeatureBase) (ColumnSetter, error) {
		base := b.restDaysColumn()
		values := make([]sql.NullFloat64, len(base))
		for i, v := range base {
			if v.Valid && v.Float64 >= maximum {
				v.Float64 = maximum
			}
			values[i] = v
		}
		return func(rows []models.FeatureRow) {
			for i := range rows {
				set(&rows[i], values[i])
			}
		}, nil
	}
}

// restDaysColumn computes (or returns the cached) gap in days since each
// team's previous game, over a continuous day axis spanning seasons. The
// first game of a team's history has no gap.
func (b *FeatureBase) restDaysColumn() []sql.NullFloat64 {
	b.cache.mu.Lock()
	defer b.cache.mu.Unlock()
	if b.cache.restDays != nil {
		return b.cache.restDays
	}

	firstSeason := 0
	for i, r := range b.Rows {
		if i == 0 || r.Season < firstSeason {
			firstSeason = r.Season
		}
	}

	// Rows are sorted by (TeamID, Season, DayNum), so each team's games are
	// contiguous and chronological.
	values := make([]sql.NullFloat64, len(b.Rows))
	lastDay := make(map[int]int)
	for i, r := range b.Rows {
		overall := (r.Season-firstSeason)*365 + r.DayNum
		if prev, ok := lastDay[r.TeamID]; ok {
			values[i] = sql.NullFloat64{Float64: float64(overall - prev), Valid: true}
		}
		lastDay[r.TeamID] = overall
	}
	b.cache.restDays = values
	return values
}

// produceElo replays the full game history through the rating engine and
// joins each game's post-update rating back onto the two perspective rows.
func produceElo(_ context.Context, b *FeatureBase) (ColumnSetter, error) {
	engine := NewEloEngine(b.Logger)
	gameRatings, err := engine.ProcessAll(b.Games, b.Conferences)
	if err != nil {
		return nil, fmt.Errorf("elo replay: %w", err)
	}

	type gameKey struct {
		season, dayNum, wTeamID, lTeamID int
	}
	byGame := make(map[gameKey]GameRating, len(gameRatings))
	for _, gr := range gameRatings {
		byGame[gameKey{gr.Season, gr.DayNum, gr.WTeamID, gr.LTeamID}] = gr
	}

	values := make([]float64, len(b.Rows))
	for i, r := range b.Rows {
		var key gameKey
		won := r.Score > r.OtherScore
		if won {
			key = gameKey{r.Season, r.DayNum, r.TeamID, r.OtherTeamID}
		} else {
			key = gameKey{r.Season, r.DayNum, r.OtherTeamID, r.TeamID}
		}
		gr, ok := byGame[key]
		if !ok {
			return nil, fmt.Errorf("no rating for game season %d day %d teams %d/%d", r.Season, r.DayNum, r.TeamID, r.OtherTeamID)
		}
		if won {
			values[i] = gr.WElo
		} else {
			values[i] = gr.LElo
		}
	}
	return func(rows []models.FeatureRow) {
		for i := range rows {
			rows[i].Elo = values[i]
		}
	}, nil
}
