// Package artifact persists named feature tables and prediction tables in
// an embedded SQLite database, and writes the submission CSV. Tables are
// namespaced by division prefix in their names (e.g. "MTeamFeatures"), and
// a load returns exactly what was saved, including row order and null
// rest-day values.
package artifact

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/bracketlab/predict-api/internal/models"
)

// Store is a SQLite-backed artifact store. Safe for the single-writer
// batch pipeline and concurrent readers.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// Open opens (creating if needed) the artifact database at path.
func Open(path string, logger *zap.SugaredLogger) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id         TEXT NOT NULL,
			table_name TEXT NOT NULL,
			rows       INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS feature_rows (
			table_name       TEXT    NOT NULL,
			row_order        INTEGER NOT NULL,
			team_id          INTEGER NOT NULL,
			team_name        TEXT,
			season           INTEGER NOT NULL,
			day_num          INTEGER NOT NULL,
			score            INTEGER NOT NULL,
			other_team_id    INTEGER NOT NULL,
			other_team_name  TEXT,
			other_score      INTEGER NOT NULL,
			loc              TEXT    NOT NULL,
			num_ot           INTEGER NOT NULL,
			tourney          INTEGER NOT NULL,
			win              INTEGER NOT NULL,
			score_difference INTEGER NOT NULL,
			home_advantage   INTEGER NOT NULL,
			streak           INTEGER NOT NULL,
			rest_days        REAL,
			rest_days_max_14 REAL,
			rest_days_max_7  REAL,
			rest_days_max_3  REAL,
			elo              REAL    NOT NULL,
			PRIMARY KEY (table_name, row_order)
		)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			table_name    TEXT    NOT NULL,
			id            TEXT    NOT NULL,
			season        INTEGER NOT NULL,
			team_id       INTEGER NOT NULL,
			other_team_id INTEGER NOT NULL,
			pred          REAL    NOT NULL,
			PRIMARY KEY (table_name, id)
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveFeatureTable replaces the named feature table with rows, preserving
// their order. Each save is recorded as a run with a fresh id.
func (s *Store) SaveFeatureTable(ctx context.Context, name string, rows []models.FeatureRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM feature_rows WHERE table_name = ?`, name); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO feature_rows (
		table_name, row_order, team_id, team_name, season, day_num, score,
		other_team_id, other_team_name, other_score, loc, num_ot, tourney,
		win, score_difference, home_advantage, streak,
		rest_days, rest_days_max_14, rest_days_max_7, rest_days_max_3, elo
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", name, err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			name, i, r.TeamID, r.TeamName, r.Season, r.DayNum, r.Score,
			r.OtherTeamID, r.OtherTeamName, r.OtherScore, string(r.Loc), r.NumOT, r.Tourney,
			r.Win, r.ScoreDifference, r.HomeAdvantage, r.Streak,
			r.RestDays, r.RestDaysMax14, r.RestDaysMax7, r.RestDaysMax3, r.Elo,
		); err != nil {
			return fmt.Errorf("insert %s row %d: %w", name, i, err)
		}
	}

	runID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, table_name, rows, created_at) VALUES (?, ?, ?, ?)`,
		runID, name, len(rows), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("record run for %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save %s: %w", name, err)
	}
	s.logger.Infow("saved feature table", "table", name, "rows", len(rows), "run_id", runID)
	return nil
}

// LoadFeatureTable returns the named feature table in saved order.
func (s *Store) LoadFeatureTable(ctx context.Context, name string) ([]models.FeatureRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		team_id, team_name, season, day_num, score,
		other_team_id, other_team_name, other_score, loc, num_ot, tourney,
		win, score_difference, home_advantage, streak,
		rest_days, rest_days_max_14, rest_days_max_7, rest_days_max_3, elo
	FROM feature_rows WHERE table_name = ? ORDER BY row_order`, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer rows.Close()

	var out []models.FeatureRow
	for rows.Next() {
		var r models.FeatureRow
		var loc string
		if err := rows.Scan(
			&r.TeamID, &r.TeamName, &r.Season, &r.DayNum, &r.Score,
			&r.OtherTeamID, &r.OtherTeamName, &r.OtherScore, &loc, &r.NumOT, &r.Tourney,
			&r.Win, &r.ScoreDifference, &r.HomeAdvantage, &r.Streak,
			&r.RestDays, &r.RestDaysMax14, &r.RestDaysMax7, &r.RestDaysMax3, &r.Elo,
		); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		r.Loc = models.Venue(loc)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if out == nil {
		return nil, fmt.Errorf("feature table %s not found", name)
	}
	return out, nil
}
