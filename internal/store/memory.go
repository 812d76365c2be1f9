package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"volley-app/internal/model"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu      sync.RWMutex
	teams   map[string]model.Team
	players map[string]model.Player
	squads  map[string]model.SquadState
	results map[string]model.MatchResult
}

// NewMemoryStore returns an empty store, or one holding a demo league when
// seed is set.
func NewMemoryStore(seed bool) *MemoryStore {
	s := &MemoryStore{
		teams:   make(map[string]model.Team),
		players: make(map[string]model.Player),
		squads:  make(map[string]model.SquadState),
		results: make(map[string]model.MatchResult),
	}
	if seed {
		seedData(s)
	}

	return s
}

func (s *MemoryStore) ListTeams() []model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teams := make([]model.Team, 0, len(s.teams))
	for _, t := range s.teams {
		teams = append(teams, t)
	}
	sortTeams(teams)
	return teams
}

func (s *MemoryStore) GetTeam(id string) (model.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	return t, ok
}

func (s *MemoryStore) CreateTeam(team model.Team) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(team.Name) == "" {
		return model.Team{}, errors.New("team name is required")
	}
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now()
	}
	for _, t := range s.teams {
		if strings.EqualFold(t.Name, team.Name) {
			return model.Team{}, errors.New("team name already exists")
		}
	}
	s.teams[team.ID] = team
	return team, nil
}

func (s *MemoryStore) ListPlayers(ctx context.Context, teamID string) ([]model.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.teams[teamID]; !ok {
		return nil, fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}
	players := make([]model.Player, 0)
	for _, p := range s.players {
		if p.TeamID == teamID {
			players = append(players, p)
		}
	}
	sortPlayers(players)
	return players, nil
}

func (s *MemoryStore) CreatePlayer(player model.Player) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[player.TeamID]; !ok {
		return model.Player{}, errors.New("team not found")
	}
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	s.players[player.ID] = player
	return player, nil
}

func (s *MemoryStore) GetSquad(ctx context.Context, teamID string) (model.SquadState, error) {
	if err := ctx.Err(); err != nil {
		return model.SquadState{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.squads[teamID]
	if !ok {
		return model.SquadState{}, fmt.Errorf("squad %s: %w", teamID, ErrNotFound)
	}
	return cloneSquad(state), nil
}

func (s *MemoryStore) SaveSquad(ctx context.Context, state model.SquadState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[state.TeamID]; !ok {
		return errors.New("team not found")
	}
	s.squads[state.TeamID] = cloneSquad(state)
	return nil
}

func (s *MemoryStore) ListResults(teamID string) []model.MatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]model.MatchResult, 0)
	for _, r := range s.results {
		if r.TeamID == teamID || r.OpponentTeamID == teamID {
			results = append(results, r)
		}
	}
	sortResults(results)
	return results
}

func (s *MemoryStore) ListAllResults() []model.MatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]model.MatchResult, 0, len(s.results))
	for _, r := range s.results {
		results = append(results, r)
	}
	sortResults(results)
	return results
}

func (s *MemoryStore) CreateResult(result model.MatchResult) (model.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.PlayedAt.IsZero() {
		result.PlayedAt = time.Now()
	}
	if _, exists := s.results[result.ID]; exists {
		return model.MatchResult{}, errors.New("result already exists")
	}
	s.results[result.ID] = result
	return result, nil
}

func sortTeams(teams []model.Team) {
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
}

func sortPlayers(players []model.Player) {
	sort.Slice(players, func(i, j int) bool {
		if players[i].Overall == players[j].Overall {
			return players[i].Name < players[j].Name
		}
		return players[i].Overall > players[j].Overall
	})
}

func sortResults(results []model.MatchResult) {
	sort.Slice(results, func(i, j int) bool { return results[i].PlayedAt.After(results[j].PlayedAt) })
}

func cloneSquad(state model.SquadState) model.SquadState {
	state.Starters = append([]string(nil), state.Starters...)
	state.Bench = append([]string(nil), state.Bench...)
	state.Available = append([]string(nil), state.Available...)
	return state
}

func seedData(s *MemoryStore) {
	rng := rand.New(rand.NewSource(42))

	teamDefs := []struct {
		Name, City string
		Managed    bool
		Level      int
	}{
		{"AZS Warszawa", "Warszawa", true, 78},
		{"Jastrzębie Sokoły", "Jastrzębie-Zdrój", false, 84},
		{"Bzura Ozorków", "Ozorków", false, 72},
		{"Czarni Radom", "Radom", false, 76},
		{"Stal Nysa", "Nysa", false, 80},
		{"Trefl Sopot", "Sopot", false, 82},
	}
	firstNames := []string{"Bartosz", "Kamil", "Michał", "Jakub", "Mateusz", "Paweł", "Tomasz", "Łukasz", "Piotr", "Wojciech", "Karol", "Adrian"}
	lastNames := []string{"Kurek", "Nowak", "Zieliński", "Kowal", "Wrona", "Kochanowski", "Bieniek", "Śliwka", "Semeniuk", "Łomacz", "Popiwczak", "Kaczmarek"}
	rosterPositions := []model.Position{
		model.OutsideHitter, model.OutsideHitter, model.OutsideHitter, model.OutsideHitter,
		model.MiddleBlocker, model.MiddleBlocker, model.MiddleBlocker,
		model.Setter, model.Setter,
		model.OppositeHitter, model.OppositeHitter,
		model.Libero,
	}

	for i, td := range teamDefs {
		team := model.Team{
			ID:        uuid.NewString(),
			Name:      td.Name,
			City:      td.City,
			Managed:   td.Managed,
			CreatedAt: time.Now().AddDate(0, 0, -len(teamDefs)+i),
		}
		s.teams[team.ID] = team
		for _, pos := range rosterPositions {
			player := randomPlayer(rng, team.ID, pos, td.Level)
			player.Name = firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
			s.players[player.ID] = player
		}
	}
}

func randomPlayer(rng *rand.Rand, teamID string, pos model.Position, level int) model.Player {
	skill := func(bias int) int {
		v := level + bias + rng.Intn(15) - 7
		if v < 1 {
			return 1
		}
		if v > 100 {
			return 100
		}
		return v
	}
	p := model.Player{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		Position:  pos,
		Attack:    skill(0),
		Defense:   skill(0),
		Serve:     skill(0),
		Block:     skill(0),
		Receive:   skill(0),
		Setting:   skill(-10),
		CreatedAt: time.Now(),
	}
	switch pos {
	case model.OutsideHitter, model.OppositeHitter:
		p.Attack = skill(8)
	case model.MiddleBlocker:
		p.Block = skill(10)
	case model.Setter:
		p.Setting = skill(12)
	case model.Libero:
		p.Receive = skill(10)
		p.Defense = skill(10)
		p.Attack = skill(-20)
	}
	p.Overall = (p.Attack + p.Defense + p.Serve + p.Block + p.Receive + p.Setting) / 6
	return p
}
