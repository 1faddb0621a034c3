package logic

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bracketlab/predict-api/internal/models"
)

// ErrCyclicBracket reports a slot table whose advancement graph does not
// terminate at a championship slot.
var ErrCyclicBracket = errors.New("cyclic bracket slot graph")

// ResolvePaths maps each seed label in one season's slot table to the
// ordered slots that seed must win through to take the championship. Slots
// form a forest rooted at the final: every slot's winner feeds at most one
// later slot. A slot chain longer than the slot count means the graph
// cycles, which is a structural error rather than an infinite walk.
func ResolvePaths(slots []models.SlotRow) (map[string][]string, error) {
	// consumedBy[x] is the slot that takes x (a seed label or an earlier
	// slot's winner) as one of its inputs.
	consumedBy := make(map[string]string, 2*len(slots))
	slotIDs := make(map[string]bool, len(slots))
	for _, s := range slots {
		slotIDs[s.Slot] = true
		for _, src := range []string{s.StrongSeed, s.WeakSeed} {
			if prev, ok := consumedBy[src]; ok {
				return nil, fmt.Errorf("source %q feeds both %q and %q", src, prev, s.Slot)
			}
			consumedBy[src] = s.Slot
		}
	}

	paths := make(map[string][]string)
	for _, s := range slots {
		for _, src := range []string{s.StrongSeed, s.WeakSeed} {
			if slotIDs[src] {
				continue // an internal edge, not a seed placement
			}
			path, err := walkPath(src, consumedBy, len(slots))
			if err != nil {
				return nil, fmt.Errorf("seed %q: %w", src, err)
			}
			paths[src] = path
		}
	}
	return paths, nil
}

func walkPath(seed string, consumedBy map[string]string, maxLen int) ([]string, error) {
	var path []string
	cur := seed
	for {
		next, ok := consumedBy[cur]
		if !ok {
			return path, nil
		}
		path = append(path, next)
		if len(path) > maxLen {
			return nil, ErrCyclicBracket
		}
		cur = next
	}
}

// InferSlot returns the first slot common to both paths: the slot where the
// two seeds, having met, decided the game. The second return is false when
// the paths never converge, which signals inconsistent slot or seed data.
func InferSlot(pathA, pathB []string) (string, bool) {
	inB := make(map[string]bool, len(pathB))
	for _, s := range pathB {
		inB[s] = true
	}
	for _, s := range pathA {
		if inB[s] {
			return s, true
		}
	}
	return "", false
}

// Bracket resolves decided slots for one season's tournament games.
type Bracket struct {
	paths      map[string][]string
	seedByTeam map[int]string
}

// NewBracket builds the season's seed paths and team assignments. Slot and
// seed rows must all belong to the same season.
func NewBracket(slots []models.SlotRow, seeds []models.SeedRow) (*Bracket, error) {
	paths, err := ResolvePaths(slots)
	if err != nil {
		return nil, err
	}
	seedByTeam := make(map[int]string, len(seeds))
	for _, s := range seeds {
		seedByTeam[s.TeamID] = s.Seed
	}
	return &Bracket{paths: paths, seedByTeam: seedByTeam}, nil
}

// DecidedSlot returns the slot a game between the two teams settled, or
// false if either team is unseeded or the teams' paths never meet.
func (b *Bracket) DecidedSlot(teamA, teamB int) (string, bool) {
	seedA, okA := b.seedByTeam[teamA]
	seedB, okB := b.seedByTeam[teamB]
	if !okA || !okB {
		return "", false
	}
	return InferSlot(b.paths[seedA], b.paths[seedB])
}

// EnumeratePairings lists, per season, every unordered pair of distinct
// teams in that season's tournament field, lower team id first, ordered by
// (season, team a, team b). The slice can be ranged over repeatedly.
func EnumeratePairings(seeds []models.SeedRow) []models.Pairing {
	teamsBySeason := make(map[int][]int)
	for _, s := range seeds {
		teamsBySeason[s.Season] = append(teamsBySeason[s.Season], s.TeamID)
	}
	seasons := make([]int, 0, len(teamsBySeason))
	for season := range teamsBySeason {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)

	var pairings []models.Pairing
	for _, season := range seasons {
		teams := teamsBySeason[season]
		sort.Ints(teams)
		for i := 0; i < len(teams); i++ {
			for j := i + 1; j < len(teams); j++ {
				if teams[i] == teams[j] {
					continue
				}
				pairings = append(pairings, models.Pairing{Season: season, TeamA: teams[i], TeamB: teams[j]})
			}
		}
	}
	return pairings
}
