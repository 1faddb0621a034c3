// Quick debugging tool: dump one team's feature rows from a stored table.
//
//	go run ./tools/inspect -db predict.db -table MTeamFeatures -team 1181
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/bracketlab/predict-api/internal/artifact"
)

func main() {
	dbPath := flag.String("db", "predict.db", "artifact database path")
	table := flag.String("table", "MTeamFeatures", "feature table name")
	teamID := flag.Int("team", 0, "team id to dump (0 = summary only)")
	flag.Parse()

	store, err := artifact.Open(*dbPath, zap.NewNop().Sugar())
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	rows, err := store.LoadFeatureTable(context.Background(), *table)
	if err != nil {
		log.Fatalf("load %s: %v", *table, err)
	}
	fmt.Printf("%s: %d rows\n", *table, len(rows))

	if *teamID == 0 {
		return
	}
	for _, r := range rows {
		if r.TeamID != *teamID {
			continue
		}
		rest := "null"
		if r.RestDays.Valid {
			rest = fmt.Sprintf("%.0f", r.RestDays.Float64)
		}
		fmt.Printf("season=%d day=%3d vs %-4d (%s) %3d-%3d win=%+d streak=%+d rest=%s elo=%.1f\n",
			r.Season, r.DayNum, r.OtherTeamID, r.Loc, r.Score, r.OtherScore,
			r.Win, r.Streak, rest, r.Elo)
	}
}
