package artifact

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/bracketlab/predict-api/internal/models"
)

// SavePredictions replaces the named prediction table.
func (s *Store) SavePredictions(ctx context.Context, name string, preds []models.Prediction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM predictions WHERE table_name = ?`, name); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO predictions
		(table_name, id, season, team_id, other_team_id, pred)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", name, err)
	}
	defer stmt.Close()

	for _, p := range preds {
		if _, err := stmt.ExecContext(ctx, name, p.ID(), p.Season, p.TeamID, p.OtherTeamID, p.Pred); err != nil {
			return fmt.Errorf("insert %s %s: %w", name, p.ID(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save %s: %w", name, err)
	}
	s.logger.Infow("saved predictions", "table", name, "rows", len(preds))
	return nil
}

// LoadPredictions returns the named prediction table ordered by id.
func (s *Store) LoadPredictions(ctx context.Context, name string) ([]models.Prediction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT season, team_id, other_team_id, pred FROM predictions
		 WHERE table_name = ? ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer rows.Close()

	var out []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.Season, &p.TeamID, &p.OtherTeamID, &p.Pred); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return out, nil
}

// Prediction looks up one pairing's stored probability by its canonical id.
// The second return is false when no such row exists.
func (s *Store) Prediction(ctx context.Context, name, id string) (float64, bool, error) {
	var pred float64
	err := s.db.QueryRowContext(ctx,
		`SELECT pred FROM predictions WHERE table_name = ? AND id = ?`, name, id).Scan(&pred)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup %s %s: %w", name, id, err)
	}
	return pred, true, nil
}

// WritePredictionsCSV writes the submission file: an ID column of
// "Season_TeamA_TeamB" keys and the win probability of the lower-id team.
func WritePredictionsCSV(w io.Writer, preds []models.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Pred"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range preds {
		if err := cw.Write([]string{p.ID(), strconv.FormatFloat(p.Pred, 'f', 6, 64)}); err != nil {
			return fmt.Errorf("write %s: %w", p.ID(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}
