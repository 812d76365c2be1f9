// Package game ties the roster store, squad engines, the match simulator and
// the season calendar together for one league.
package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"volley-app/internal/model"
	"volley-app/internal/season"
	"volley-app/internal/simulator"
	"volley-app/internal/squad"
	"volley-app/internal/store"
	"volley-app/internal/strength"
)

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrNotEnoughTeams = errors.New("a season needs at least two teams")
	ErrSeasonFinished = errors.New("season finished")
	ErrSameTeam       = errors.New("a team cannot play itself")
	ErrClosed         = errors.New("game service closed")
)

const (
	generatedOpponent  = "Generated opponent"
	defaultSaveTimeout = 5 * time.Second
)

type Options struct {
	BenchSize       int
	StrictPositions bool
	SaveTimeout     time.Duration
	RevealDelay     time.Duration
}

type Service struct {
	store  store.Store
	logger *zap.Logger
	opts   Options

	simMu sync.Mutex
	sim   *simulator.Simulator

	advanceMu sync.Mutex

	mu     sync.RWMutex
	squads map[string]*teamSquad
	closed bool
}

type teamSquad struct {
	engine    *squad.Engine
	persister *squad.Persister
}

type SeasonInfo struct {
	Matchdays    int
	NextMatchday int
	Finished     bool
	Fixtures     []season.Fixture
}

func NewService(st store.Store, sim *simulator.Simulator, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sim == nil {
		sim = simulator.New(nil)
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = defaultSaveTimeout
	}
	return &Service{
		store:  st,
		sim:    sim,
		logger: logger,
		opts:   opts,
		squads: make(map[string]*teamSquad),
	}
}

func (s *Service) RevealDelay() time.Duration {
	return s.opts.RevealDelay
}

func (s *Service) Team(teamID string) (model.Team, error) {
	team, ok := s.store.GetTeam(teamID)
	if !ok {
		return model.Team{}, fmt.Errorf("team %s: %w", teamID, ErrTeamNotFound)
	}
	return team, nil
}

func (s *Service) Teams() []model.Team {
	return s.store.ListTeams()
}

// Roster returns the players known to the team's squad engine, best first.
func (s *Service) Roster(ctx context.Context, teamID string) ([]model.Player, error) {
	engine, err := s.Squad(ctx, teamID)
	if err != nil {
		return nil, err
	}
	roster := engine.Roster()
	sort.Slice(roster, func(i, j int) bool {
		if roster[i].Overall == roster[j].Overall {
			return roster[i].Name < roster[j].Name
		}
		return roster[i].Overall > roster[j].Overall
	})
	return roster, nil
}

// Squad returns the squad engine of a team, building it on first use from
// the stored roster and squad. A roster that cannot be loaded is treated as
// empty and a squad that cannot be loaded as all players available.
func (s *Service) Squad(ctx context.Context, teamID string) (*squad.Engine, error) {
	if _, err := s.Team(teamID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	ts, ok := s.squads[teamID]
	s.mu.RUnlock()
	if ok {
		return ts.engine, nil
	}

	logger := s.logger.With(zap.String("team_id", teamID))
	roster, err := s.store.ListPlayers(ctx, teamID)
	if err != nil {
		logger.Warn("roster unavailable, using empty roster", zap.Error(err))
		roster = nil
	}
	var saved *model.SquadState
	state, err := s.store.GetSquad(ctx, teamID)
	switch {
	case err == nil:
		saved = &state
	case errors.Is(err, store.ErrNotFound):
	default:
		logger.Warn("saved squad unavailable, starting with all players available", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ts, ok := s.squads[teamID]; ok {
		return ts.engine, nil
	}
	if s.closed {
		return nil, ErrClosed
	}
	persister := squad.NewPersister(s.store, logger, s.opts.SaveTimeout)
	opts := []squad.Option{squad.WithBenchSize(s.opts.BenchSize), squad.WithSaver(persister.Submit)}
	if s.opts.StrictPositions {
		opts = append(opts, squad.WithStrictPositions())
	}
	ts = &teamSquad{engine: squad.New(teamID, roster, saved, opts...), persister: persister}
	s.squads[teamID] = ts
	return ts.engine, nil
}

// Warning returns the last failed squad save of a team, if any. It is cleared
// by the next successful save.
func (s *Service) Warning(teamID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts, ok := s.squads[teamID]
	if !ok {
		return nil
	}
	return ts.persister.LastError()
}

// FlushSquad waits until the pending squad save of a team has finished.
func (s *Service) FlushSquad(teamID string) {
	s.mu.RLock()
	ts, ok := s.squads[teamID]
	s.mu.RUnlock()
	if ok {
		ts.persister.Flush()
	}
}

// TeamStrength rates the starting lineup, or the whole roster while no
// starter is assigned.
func (s *Service) TeamStrength(ctx context.Context, teamID string) (int, error) {
	engine, err := s.Squad(ctx, teamID)
	if err != nil {
		return 0, err
	}
	if lineup := engine.Lineup(); len(lineup) > 0 {
		return strength.Evaluate(lineup), nil
	}
	return strength.Evaluate(engine.Roster()), nil
}

// PlayFriendly simulates a friendly against another team or, when
// opponentID is empty, a generated opponent. The result is revealed after
// delay and stored once revealed.
func (s *Service) PlayFriendly(ctx context.Context, teamID, opponentID string, delay time.Duration) (model.MatchResult, error) {
	own, err := s.TeamStrength(ctx, teamID)
	if err != nil {
		return model.MatchResult{}, err
	}

	var gen simulator.OpponentGenerator
	opponentName := generatedOpponent
	if opponentID != "" {
		if opponentID == teamID {
			return model.MatchResult{}, ErrSameTeam
		}
		opponent, err := s.Team(opponentID)
		if err != nil {
			return model.MatchResult{}, err
		}
		opp, err := s.TeamStrength(ctx, opponentID)
		if err != nil {
			return model.MatchResult{}, err
		}
		opponentName = opponent.Name
		gen = func() int { return opp }
	}

	s.simMu.Lock()
	pending := s.sim.SimulateAfter(ctx, delay, own, gen)
	s.simMu.Unlock()

	result, err := pending.Wait(ctx)
	if err != nil {
		pending.Cancel()
		return model.MatchResult{}, fmt.Errorf("friendly: %w", err)
	}
	result.TeamID = teamID
	result.OpponentTeamID = opponentID
	result.OpponentName = opponentName

	stored, err := s.store.CreateResult(result)
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("store friendly: %w", err)
	}
	s.logger.Info("friendly played",
		zap.String("team_id", teamID),
		zap.String("opponent", opponentName),
		zap.Int("own_score", stored.OwnScore),
		zap.Int("opponent_score", stored.OpponentScore),
	)
	return stored, nil
}

func (s *Service) calendar() (season.Calendar, []model.Team, error) {
	teams := s.store.ListTeams()
	if len(teams) < 2 {
		return season.Calendar{}, nil, ErrNotEnoughTeams
	}
	ids := lo.Map(teams, func(t model.Team, _ int) string { return t.ID })
	return season.NewCalendar(ids), teams, nil
}

func (s *Service) SeasonInfo() (SeasonInfo, error) {
	cal, _, err := s.calendar()
	if err != nil {
		return SeasonInfo{}, err
	}
	stored := s.store.ListAllResults()
	next, ok := cal.Next(stored)
	info := SeasonInfo{Matchdays: cal.Len(), NextMatchday: next, Finished: !ok}
	if ok {
		info.Fixtures = cal.Remaining(next, stored)
	}
	return info, nil
}

// AdvanceMatchday plays the fixtures of the next matchday that have no
// stored result. Each home side faces the away side's real strength.
func (s *Service) AdvanceMatchday(ctx context.Context) (int, []model.MatchResult, error) {
	s.advanceMu.Lock()
	defer s.advanceMu.Unlock()

	cal, teams, err := s.calendar()
	if err != nil {
		return 0, nil, err
	}
	stored := s.store.ListAllResults()
	matchday, ok := cal.Next(stored)
	if !ok {
		return 0, nil, ErrSeasonFinished
	}
	names := lo.Associate(teams, func(t model.Team) (string, string) { return t.ID, t.Name })

	fixtures := cal.Remaining(matchday, stored)
	results := make([]model.MatchResult, 0, len(fixtures))
	for _, fx := range fixtures {
		if err := ctx.Err(); err != nil {
			return matchday, results, err
		}
		home, err := s.TeamStrength(ctx, fx.HomeTeamID)
		if err != nil {
			return matchday, results, err
		}
		away, err := s.TeamStrength(ctx, fx.AwayTeamID)
		if err != nil {
			return matchday, results, err
		}

		s.simMu.Lock()
		result := s.sim.Simulate(home, func() int { return away })
		s.simMu.Unlock()

		result.TeamID = fx.HomeTeamID
		result.OpponentTeamID = fx.AwayTeamID
		result.OpponentName = names[fx.AwayTeamID]
		result.Matchday = matchday
		stored, err := s.store.CreateResult(result)
		if err != nil {
			return matchday, results, fmt.Errorf("store matchday %d result: %w", matchday, err)
		}
		results = append(results, stored)
	}
	s.logger.Info("matchday played", zap.Int("matchday", matchday), zap.Int("matches", len(results)))
	return matchday, results, nil
}

// Results lists the team's matches from its own side, newest first.
func (s *Service) Results(teamID string) ([]model.MatchResult, error) {
	if _, err := s.Team(teamID); err != nil {
		return nil, err
	}
	stored := s.store.ListResults(teamID)
	results := make([]model.MatchResult, 0, len(stored))
	for _, r := range stored {
		seen := r.AsSeenBy(teamID)
		if seen.OpponentName == "" {
			if home, ok := s.store.GetTeam(r.TeamID); ok {
				seen.OpponentName = home.Name
			}
		}
		results = append(results, seen)
	}
	return results, nil
}

func (s *Service) Stats(teamID string) (model.SeasonStats, error) {
	results, err := s.Results(teamID)
	if err != nil {
		return model.SeasonStats{}, err
	}
	return season.Stats(teamID, results), nil
}

func (s *Service) Standings() []model.StandingEntry {
	return season.BuildStandings(s.store.ListTeams(), s.store.ListAllResults())
}

// Close drains every pending squad save.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, ts := range s.squads {
		ts.persister.Close()
	}
}
