// Command predict trains the configured tournament predictor on each
// division's stored feature table, estimates a win probability for every
// possible tournament pairing, and writes the submission CSVs. It also
// reports bracket slot coverage and the historical log-loss of the
// predictions.
package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/bracketlab/predict-api/internal/artifact"
	"github.com/bracketlab/predict-api/internal/config"
	"github.com/bracketlab/predict-api/internal/datasource"
	"github.com/bracketlab/predict-api/internal/logic"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	store, err := artifact.Open(cfg.ArtifactDB, sugar)
	if err != nil {
		sugar.Fatalw("open artifact store", "path", cfg.ArtifactDB, "error", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, div := range cfg.Divisions {
		if err := runDivision(ctx, cfg, div, store, sugar); err != nil {
			sugar.Fatalw("prediction failed", "division", div.Prefix, "error", err)
		}
	}
}

func runDivision(ctx context.Context, cfg *config.Config, div config.Division, store *artifact.Store, sugar *zap.SugaredLogger) error {
	rows, err := store.LoadFeatureTable(ctx, div.Prefix+"TeamFeatures")
	if err != nil {
		return err
	}

	predictor, err := logic.NewPredictor(cfg.Strategy, sugar)
	if err != nil {
		return err
	}
	if err := predictor.Train(rows); err != nil {
		return err
	}

	src := datasource.NewZipSource(div.Zip, div.Prefix)
	seeds, err := src.TourneySeeds()
	if err != nil {
		return err
	}
	pairings := logic.EnumeratePairings(seeds)
	preds, err := predictor.EstimateProbability(pairings)
	if err != nil {
		return err
	}
	sugar.Infow("estimated pairings",
		"division", div.Prefix, "strategy", cfg.Strategy, "pairings", len(preds))

	if err := store.SavePredictions(ctx, div.Prefix+"Predictions", preds); err != nil {
		return err
	}
	out, err := os.Create(div.Prefix + "SubmissionStage1.csv")
	if err != nil {
		return err
	}
	defer out.Close()
	if err := artifact.WritePredictionsCSV(out, preds); err != nil {
		return err
	}

	// Bracket slot coverage: how many tournament games map cleanly onto
	// the slot structure.
	tourney, err := src.TourneyCompactResults()
	if err != nil {
		return err
	}
	slots, err := src.TourneySlots()
	if err != nil {
		return err
	}
	tourneyGames := logic.AllSeasonResults(nil, tourney)
	report, err := logic.AnnotateDecidedSlots(div.Prefix, tourneyGames, slots, seeds, sugar)
	if err != nil {
		return err
	}
	sugar.Infow("bracket slot coverage",
		"division", div.Prefix, "resolved", len(report.SlotByGame), "unresolved", report.Unresolved)

	loss, err := logic.LogLoss(preds, tourneyGames, cfg.EvalFromSeason)
	if err != nil {
		sugar.Warnw("log-loss evaluation skipped", "division", div.Prefix, "error", err)
		return nil
	}
	sugar.Infow("evaluated predictions",
		"division", div.Prefix, "from_season", cfg.EvalFromSeason, "log_loss", loss)
	return nil
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
