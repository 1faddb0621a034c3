// Package datasource reads the raw tournament data archives. Each division
// (men's "M", women's "W") ships as one zip of CSV files whose names carry
// the division prefix; the core pipeline only sees typed rows through the
// DataSource interface so tests can substitute in-memory fakes.
package datasource

import (
	"github.com/bracketlab/predict-api/internal/models"
)

// DataSource provides the named record sets for one division. All readers
// are pure lookups over read-only files; implementations must tolerate the
// slots file predating its Season column (such rows apply to every season).
type DataSource interface {
	// Prefix returns the division namespace, "M" or "W".
	Prefix() string

	Teams() ([]models.TeamRow, error)
	RegularSeasonCompactResults() ([]models.GameRecord, error)
	TourneyCompactResults() ([]models.GameRecord, error)
	TourneySeeds() ([]models.SeedRow, error)
	TourneySlots() ([]models.SlotRow, error)
	TeamConferences() ([]models.ConferenceRow, error)
}
