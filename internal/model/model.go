package model

import (
	"strings"
	"time"
)

type Position string

const (
	OutsideHitter  Position = "Outside Hitter"
	MiddleBlocker  Position = "Middle Blocker"
	Setter         Position = "Setter"
	OppositeHitter Position = "Opposite Hitter"
	Libero         Position = "Libero"
)

var Positions = []Position{OutsideHitter, MiddleBlocker, Setter, OppositeHitter, Libero}

func ParsePosition(value string) (Position, bool) {
	for _, p := range Positions {
		if strings.EqualFold(string(p), strings.TrimSpace(value)) {
			return p, true
		}
	}
	return "", false
}

type Player struct {
	ID        string
	TeamID    string
	Name      string
	Position  Position
	Attack    int
	Defense   int
	Serve     int
	Block     int
	Receive   int
	Setting   int
	Overall   int
	CreatedAt time.Time
}

type Team struct {
	ID        string
	Name      string
	City      string
	Managed   bool
	CreatedAt time.Time
}

// SquadState is the persisted form of a team's lineup. Empty slots hold "".
type SquadState struct {
	TeamID    string
	Starters  []string
	Bench     []string
	Available []string
	UpdatedAt time.Time
}

type MatchResult struct {
	ID               string
	TeamID           string
	OpponentTeamID   string
	OpponentName     string
	Matchday         int
	OwnScore         int
	OpponentScore    int
	Won              bool
	IsDraw           bool
	OwnStrength      int
	OpponentStrength int
	StrengthDelta    int
	PlayedAt         time.Time
}

func (r MatchResult) Friendly() bool {
	return r.Matchday == 0
}

// AsSeenBy returns the result from teamID's side. Results recorded for the
// other team are mirrored; the opponent name is cleared because only the
// home side's opponent is stored.
func (r MatchResult) AsSeenBy(teamID string) MatchResult {
	if r.TeamID == teamID || r.OpponentTeamID != teamID {
		return r
	}
	return MatchResult{
		ID:               r.ID,
		TeamID:           r.OpponentTeamID,
		OpponentTeamID:   r.TeamID,
		Matchday:         r.Matchday,
		OwnScore:         r.OpponentScore,
		OpponentScore:    r.OwnScore,
		Won:              r.OpponentScore > r.OwnScore,
		IsDraw:           r.IsDraw,
		OwnStrength:      r.OpponentStrength,
		OpponentStrength: r.OwnStrength,
		StrengthDelta:    -r.StrengthDelta,
		PlayedAt:         r.PlayedAt,
	}
}

type SeasonStats struct {
	MatchesPlayed int
	Won           int
	Lost          int
	Drawn         int
	WinRate       float64
}

type StandingEntry struct {
	Team     Team
	Played   int
	Won      int
	Lost     int
	Drawn    int
	SetsWon  int
	SetsLost int
	Points   int
}

func (e StandingEntry) SetDiff() int {
	return e.SetsWon - e.SetsLost
}
