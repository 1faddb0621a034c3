package datasource

import (
	"fmt"

	"github.com/bracketlab/predict-api/internal/models"
)

// Teams reads <prefix>Teams.csv: TeamID, TeamName.
func (z *ZipSource) Teams() ([]models.TeamRow, error) {
	t, err := z.readStage1CSV(z.prefix + "Teams.csv")
	if err != nil {
		return nil, err
	}
	teams := make([]models.TeamRow, 0, len(t.rows))
	for _, row := range t.rows {
		id, err := t.intField(row, "TeamID")
		if err != nil {
			return nil, fmt.Errorf("teams: %w", err)
		}
		name, err := t.field(row, "TeamName")
		if err != nil {
			return nil, fmt.Errorf("teams: %w", err)
		}
		teams = append(teams, models.TeamRow{TeamID: id, TeamName: name})
	}
	return teams, nil
}

// RegularSeasonCompactResults reads <prefix>RegularSeasonCompactResults.csv.
func (z *ZipSource) RegularSeasonCompactResults() ([]models.GameRecord, error) {
	return z.readCompactResults(z.prefix + "RegularSeasonCompactResults.csv")
}

// TourneyCompactResults reads <prefix>NCAATourneyCompactResults.csv.
func (z *ZipSource) TourneyCompactResults() ([]models.GameRecord, error) {
	return z.readCompactResults(z.prefix + "NCAATourneyCompactResults.csv")
}

func (z *ZipSource) readCompactResults(name string) ([]models.GameRecord, error) {
	t, err := z.readStage1CSV(name)
	if err != nil {
		return nil, err
	}
	games := make([]models.GameRecord, 0, len(t.rows))
	for _, row := range t.rows {
		var g models.GameRecord
		var loc string
		fields := []struct {
			name string
			dst  *int
		}{
			{"Season", &g.Season},
			{"DayNum", &g.DayNum},
			{"WTeamID", &g.WTeamID},
			{"WScore", &g.WScore},
			{"LTeamID", &g.LTeamID},
			{"LScore", &g.LScore},
			{"NumOT", &g.NumOT},
		}
		for _, f := range fields {
			if *f.dst, err = t.intField(row, f.name); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		if loc, err = t.field(row, "WLoc"); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		switch models.Venue(loc) {
		case models.VenueHome, models.VenueAway, models.VenueNeutral:
			g.Loc = models.Venue(loc)
		default:
			return nil, fmt.Errorf("%s: invalid WLoc %q", name, loc)
		}
		games = append(games, g)
	}
	return games, nil
}

// TourneySeeds reads <prefix>NCAATourneySeeds.csv: Season, Seed, TeamID.
func (z *ZipSource) TourneySeeds() ([]models.SeedRow, error) {
	t, err := z.readStage1CSV(z.prefix + "NCAATourneySeeds.csv")
	if err != nil {
		return nil, err
	}
	seeds := make([]models.SeedRow, 0, len(t.rows))
	for _, row := range t.rows {
		var s models.SeedRow
		if s.Season, err = t.intField(row, "Season"); err != nil {
			return nil, fmt.Errorf("seeds: %w", err)
		}
		if s.Seed, err = t.field(row, "Seed"); err != nil {
			return nil, fmt.Errorf("seeds: %w", err)
		}
		if s.TeamID, err = t.intField(row, "TeamID"); err != nil {
			return nil, fmt.Errorf("seeds: %w", err)
		}
		seeds = append(seeds, s)
	}
	return seeds, nil
}

// TourneySlots reads <prefix>NCAATourneySlots.csv. Older archives omit the
// Season column; those rows apply to every season and are returned with
// Season zero.
func (z *ZipSource) TourneySlots() ([]models.SlotRow, error) {
	t, err := z.readStage1CSV(z.prefix + "NCAATourneySlots.csv")
	if err != nil {
		return nil, err
	}
	slots := make([]models.SlotRow, 0, len(t.rows))
	for _, row := range t.rows {
		var s models.SlotRow
		if t.hasColumn("Season") {
			if s.Season, err = t.intField(row, "Season"); err != nil {
				return nil, fmt.Errorf("slots: %w", err)
			}
		}
		if s.Slot, err = t.field(row, "Slot"); err != nil {
			return nil, fmt.Errorf("slots: %w", err)
		}
		if s.StrongSeed, err = t.field(row, "StrongSeed"); err != nil {
			return nil, fmt.Errorf("slots: %w", err)
		}
		if s.WeakSeed, err = t.field(row, "WeakSeed"); err != nil {
			return nil, fmt.Errorf("slots: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// TeamConferences reads <prefix>TeamConferences.csv: Season, TeamID, ConfAbbrev.
func (z *ZipSource) TeamConferences() ([]models.ConferenceRow, error) {
	t, err := z.readStage1CSV(z.prefix + "TeamConferences.csv")
	if err != nil {
		return nil, err
	}
	rows := make([]models.ConferenceRow, 0, len(t.rows))
	for _, row := range t.rows {
		var c models.ConferenceRow
		if c.Season, err = t.intField(row, "Season"); err != nil {
			return nil, fmt.Errorf("team conferences: %w", err)
		}
		if c.TeamID, err = t.intField(row, "TeamID"); err != nil {
			return nil, fmt.Errorf("team conferences: %w", err)
		}
		if c.ConfAbbrev, err = t.field(row, "ConfAbbrev"); err != nil {
			return nil, fmt.Errorf("team conferences: %w", err)
		}
		rows = append(rows, c)
	}
	return rows, nil
}
