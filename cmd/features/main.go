// Command features builds the per-division feature tables from the raw
// archives and persists them in the artifact store. The two divisions run
// concurrently; each division's replay is strictly sequential.
package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

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

	runID := uuid.NewString()
	sugar.Infow("starting feature build", "run_id", runID, "divisions", len(cfg.Divisions))

	g, ctx := errgroup.WithContext(context.Background())
	for _, div := range cfg.Divisions {
		g.Go(func() error {
			src := datasource.NewZipSource(div.Zip, div.Prefix)
			rows, err := logic.NewPipeline(src, sugar).BuildFeatureTable(ctx)
			if err != nil {
				return err
			}
			return store.SaveFeatureTable(ctx, div.Prefix+"TeamFeatures", rows)
		})
	}
	if err := g.Wait(); err != nil {
		sugar.Fatalw("feature build failed", "run_id", runID, "error", err)
	}
	sugar.Infow("feature build complete", "run_id", runID)
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
