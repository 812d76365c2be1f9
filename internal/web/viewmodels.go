package web

import (
	"fmt"
	"time"

	"volley-app/internal/game"
	"volley-app/internal/model"
	"volley-app/internal/season"
	"volley-app/internal/squad"

	"github.com/samber/lo"
)

type TeamView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	Managed bool   `json:"managed"`
}

type PlayerView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Attack   int    `json:"attack"`
	Defense  int    `json:"defense"`
	Serve    int    `json:"serve"`
	Block    int    `json:"block"`
	Receive  int    `json:"receive"`
	Setting  int    `json:"setting"`
	Overall  int    `json:"overall"`
}

type SlotView struct {
	Index    int         `json:"index"`
	Position string      `json:"position,omitempty"`
	Player   *PlayerView `json:"player"`
}

type ValidationView struct {
	IsValid    bool     `json:"is_valid"`
	Errors     []string `json:"errors"`
	EmptySlots []int    `json:"empty_slots"`
}

type SquadView struct {
	TeamID     string         `json:"team_id"`
	Starters   []SlotView     `json:"starters"`
	Bench      []SlotView     `json:"bench"`
	Available  []PlayerView   `json:"available"`
	Strength   int            `json:"strength"`
	Validation ValidationView `json:"validation"`
	Warning    string         `json:"warning,omitempty"`
}

type StrengthView struct {
	TeamID   string `json:"team_id"`
	Strength int    `json:"strength"`
}

type MatchView struct {
	ID               string    `json:"id"`
	TeamID           string    `json:"team_id"`
	OpponentTeamID   string    `json:"opponent_team_id,omitempty"`
	OpponentName     string    `json:"opponent_name"`
	Matchday         int       `json:"matchday"`
	Friendly         bool      `json:"friendly"`
	OwnScore         int       `json:"own_score"`
	OpponentScore    int       `json:"opponent_score"`
	ScoreLine        string    `json:"score_line"`
	Won              bool      `json:"won"`
	IsDraw           bool      `json:"is_draw"`
	OwnStrength      int       `json:"own_strength"`
	OpponentStrength int       `json:"opponent_strength"`
	StrengthDelta    int       `json:"strength_delta"`
	PlayedAt         time.Time `json:"played_at"`
}

type StatsView struct {
	TeamID        string  `json:"team_id"`
	MatchesPlayed int     `json:"matches_played"`
	Won           int     `json:"won"`
	Lost          int     `json:"lost"`
	Drawn         int     `json:"drawn"`
	WinRate       float64 `json:"win_rate"`
}

type StandingView struct {
	Rank     int      `json:"rank"`
	Team     TeamView `json:"team"`
	Played   int      `json:"played"`
	Won      int      `json:"won"`
	Lost     int      `json:"lost"`
	Drawn    int      `json:"drawn"`
	SetsWon  int      `json:"sets_won"`
	SetsLost int      `json:"sets_lost"`
	SetDiff  int      `json:"set_diff"`
	Points   int      `json:"points"`
}

type FixtureView struct {
	Matchday   int    `json:"matchday"`
	HomeTeamID string `json:"home_team_id"`
	HomeTeam   string `json:"home_team"`
	AwayTeamID string `json:"away_team_id"`
	AwayTeam   string `json:"away_team"`
}

type SeasonView struct {
	Matchdays    int           `json:"matchdays"`
	NextMatchday int           `json:"next_matchday,omitempty"`
	Finished     bool          `json:"finished"`
	Fixtures     []FixtureView `json:"fixtures"`
}

type AdvanceView struct {
	Matchday int         `json:"matchday"`
	Results  []MatchView `json:"results"`
}

func teamView(t model.Team) TeamView {
	return TeamView{ID: t.ID, Name: t.Name, City: t.City, Managed: t.Managed}
}

func playerView(p model.Player) PlayerView {
	return PlayerView{
		ID:       p.ID,
		Name:     p.Name,
		Position: string(p.Position),
		Attack:   p.Attack,
		Defense:  p.Defense,
		Serve:    p.Serve,
		Block:    p.Block,
		Receive:  p.Receive,
		Setting:  p.Setting,
		Overall:  p.Overall,
	}
}

func playerViews(players []model.Player) []PlayerView {
	return lo.Map(players, func(p model.Player, _ int) PlayerView { return playerView(p) })
}

func slotViews(slots []squad.Slot) []SlotView {
	return lo.Map(slots, func(s squad.Slot, _ int) SlotView {
		view := SlotView{Index: s.Index, Position: string(s.Position)}
		if s.Player != nil {
			p := playerView(*s.Player)
			view.Player = &p
		}
		return view
	})
}

func validationView(v squad.Validation) ValidationView {
	view := ValidationView{IsValid: v.IsValid, Errors: v.Errors, EmptySlots: v.EmptySlots}
	if view.Errors == nil {
		view.Errors = []string{}
	}
	if view.EmptySlots == nil {
		view.EmptySlots = []int{}
	}
	return view
}

func squadView(teamID string, engine *squad.Engine, strength int, warning error) SquadView {
	view := SquadView{
		TeamID:     teamID,
		Starters:   slotViews(engine.Starters()),
		Bench:      slotViews(engine.Bench()),
		Available:  playerViews(engine.Available()),
		Strength:   strength,
		Validation: validationView(engine.Validate()),
	}
	if warning != nil {
		view.Warning = "squad changes could not be saved: " + warning.Error()
	}
	return view
}

func matchView(r model.MatchResult) MatchView {
	return MatchView{
		ID:               r.ID,
		TeamID:           r.TeamID,
		OpponentTeamID:   r.OpponentTeamID,
		OpponentName:     r.OpponentName,
		Matchday:         r.Matchday,
		Friendly:         r.Friendly(),
		OwnScore:         r.OwnScore,
		OpponentScore:    r.OpponentScore,
		ScoreLine:        fmt.Sprintf("%d:%d", r.OwnScore, r.OpponentScore),
		Won:              r.Won,
		IsDraw:           r.IsDraw,
		OwnStrength:      r.OwnStrength,
		OpponentStrength: r.OpponentStrength,
		StrengthDelta:    r.StrengthDelta,
		PlayedAt:         r.PlayedAt,
	}
}

func matchViews(results []model.MatchResult) []MatchView {
	return lo.Map(results, func(r model.MatchResult, _ int) MatchView { return matchView(r) })
}

func statsView(teamID string, s model.SeasonStats) StatsView {
	return StatsView{
		TeamID:        teamID,
		MatchesPlayed: s.MatchesPlayed,
		Won:           s.Won,
		Lost:          s.Lost,
		Drawn:         s.Drawn,
		WinRate:       s.WinRate,
	}
}

func standingViews(entries []model.StandingEntry) []StandingView {
	return lo.Map(entries, func(e model.StandingEntry, i int) StandingView {
		return StandingView{
			Rank:     i + 1,
			Team:     teamView(e.Team),
			Played:   e.Played,
			Won:      e.Won,
			Lost:     e.Lost,
			Drawn:    e.Drawn,
			SetsWon:  e.SetsWon,
			SetsLost: e.SetsLost,
			SetDiff:  e.SetDiff(),
			Points:   e.Points,
		}
	})
}

func seasonView(info game.SeasonInfo, names map[string]string) SeasonView {
	view := SeasonView{Matchdays: info.Matchdays, Finished: info.Finished, Fixtures: []FixtureView{}}
	if !info.Finished {
		view.NextMatchday = info.NextMatchday
	}
	for _, fx := range info.Fixtures {
		view.Fixtures = append(view.Fixtures, fixtureView(fx, names))
	}
	return view
}

func fixtureView(fx season.Fixture, names map[string]string) FixtureView {
	return FixtureView{
		Matchday:   fx.Matchday,
		HomeTeamID: fx.HomeTeamID,
		HomeTeam:   names[fx.HomeTeamID],
		AwayTeamID: fx.AwayTeamID,
		AwayTeam:   names[fx.AwayTeamID],
	}
}
