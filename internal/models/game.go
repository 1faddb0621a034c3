package models

// Venue encodes where a game was played relative to a reference team:
// that team's home floor, the opponent's floor, or a neutral site.
type Venue string

const (
	VenueHome    Venue = "H"
	VenueAway    Venue = "A"
	VenueNeutral Venue = "N"
)

// Flip returns the venue as seen from the other side of the game.
// Neutral is its own flip.
func (v Venue) Flip() Venue {
	switch v {
	case VenueHome:
		return VenueAway
	case VenueAway:
		return VenueHome
	default:
		return v
	}
}

// HomeAdvantage maps the venue to a signed numeric feature:
// home +1, neutral 0, away -1.
func (v Venue) HomeAdvantage() int {
	switch v {
	case VenueHome:
		return 1
	case VenueAway:
		return -1
	default:
		return 0
	}
}

// GameRecord is one completed game, winner/loser oriented, as published
// in the compact results files. Loc is relative to the winner.
type GameRecord struct {
	Season    int    `json:"season"`
	DayNum    int    `json:"day_num"`
	WTeamID   int    `json:"w_team_id"`
	WTeamName string `json:"w_team_name"`
	WScore    int    `json:"w_score"`
	LTeamID   int    `json:"l_team_id"`
	LTeamName string `json:"l_team_name"`
	LScore    int    `json:"l_score"`
	Loc       Venue  `json:"loc"`
	NumOT     int    `json:"num_ot"`
	Tourney   bool   `json:"tourney"`
}

// TeamGameRecord is one game seen from one team's perspective. Every
// GameRecord expands into exactly two of these: the winner's view and the
// loser's view, with Loc flipped for the loser.
type TeamGameRecord struct {
	TeamID        int    `json:"team_id"`
	TeamName      string `json:"team_name"`
	Season        int    `json:"season"`
	DayNum        int    `json:"day_num"`
	Score         int    `json:"score"`
	OtherTeamID   int    `json:"other_team_id"`
	OtherTeamName string `json:"other_team_name"`
	OtherScore    int    `json:"other_score"`
	Loc           Venue  `json:"loc"`
	NumOT         int    `json:"num_ot"`
	Tourney       bool   `json:"tourney"`
}

// Outcome returns +1 for a win and -1 for a loss.
func (r TeamGameRecord) Outcome() int {
	if r.Score > r.OtherScore {
		return 1
	}
	return -1
}

// TeamRow maps a team id to its display name.
type TeamRow struct {
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name"`
}
