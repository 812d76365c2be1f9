package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"volley-app/internal/model"

	"github.com/google/uuid"
)

type dialect struct {
	name         string
	numbered     bool
	upsertSquad  string
	isUniqueFail func(error) bool
}

// rebind turns ? placeholders into $1..$n for dialects that need it.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func containsUnique(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}

// sqlStore implements Store over database/sql; the dialect covers the
// differences between SQLite and Postgres.
type sqlStore struct {
	db *sql.DB
	d  dialect
}

const (
	teamColumns   = `id, name, city, managed, created_at`
	playerColumns = `id, team_id, name, position, attack, defense, serve, block, receive, setting, overall, created_at`
	resultColumns = `id, team_id, opponent_team_id, opponent_name, matchday, own_score, opponent_score, won, is_draw, own_strength, opponent_strength, strength_delta, played_at`
)

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func (s *sqlStore) ListTeams() []model.Team {
	rows, err := s.db.Query(`SELECT ` + teamColumns + ` FROM teams`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		team, err := scanTeamRow(rows)
		if err != nil {
			continue
		}
		teams = append(teams, team)
	}
	sortTeams(teams)
	return teams
}

func (s *sqlStore) GetTeam(id string) (model.Team, bool) {
	row := s.db.QueryRow(s.d.rebind(`SELECT `+teamColumns+` FROM teams WHERE id = ?`), id)
	team, err := scanTeamRow(row)
	if err != nil {
		return model.Team{}, false
	}
	return team, true
}

func (s *sqlStore) CreateTeam(team model.Team) (model.Team, error) {
	if strings.TrimSpace(team.Name) == "" {
		return model.Team{}, errors.New("team name is required")
	}
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(s.d.rebind(`INSERT INTO teams (`+teamColumns+`) VALUES (?,?,?,?,?)`),
		team.ID, team.Name, team.City, team.Managed, timeValuePtr(team.CreatedAt),
	)
	if err != nil {
		if s.d.isUniqueFail(err) {
			return model.Team{}, errors.New("team name already exists")
		}
		return model.Team{}, err
	}
	return team, nil
}

func (s *sqlStore) ListPlayers(ctx context.Context, teamID string) ([]model.Player, error) {
	if _, ok := s.GetTeam(teamID); !ok {
		return nil, fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx, s.d.rebind(`SELECT `+playerColumns+` FROM players WHERE team_id = ?`), teamID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		player, err := scanPlayerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	sortPlayers(players)
	return players, nil
}

func (s *sqlStore) CreatePlayer(player model.Player) (model.Player, error) {
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(s.d.rebind(`INSERT INTO players (`+playerColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`),
		player.ID, player.TeamID, player.Name, string(player.Position), player.Attack, player.Defense, player.Serve,
		player.Block, player.Receive, player.Setting, player.Overall, timeValuePtr(player.CreatedAt),
	)
	if err != nil {
		return model.Player{}, err
	}
	return player, nil
}

func (s *sqlStore) GetSquad(ctx context.Context, teamID string) (model.SquadState, error) {
	row := s.db.QueryRowContext(ctx, s.d.rebind(`SELECT team_id, starters_json, bench_json, available_json, updated_at FROM squads WHERE team_id = ?`), teamID)
	var state model.SquadState
	var starters, bench, available string
	var updatedAt sql.NullTime
	if err := row.Scan(&state.TeamID, &starters, &bench, &available, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SquadState{}, fmt.Errorf("squad %s: %w", teamID, ErrNotFound)
		}
		return model.SquadState{}, fmt.Errorf("get squad: %w", err)
	}
	if updatedAt.Valid {
		state.UpdatedAt = updatedAt.Time
	}
	columns := []struct {
		name string
		raw  string
		dst  *[]string
	}{
		{"starters", starters, &state.Starters},
		{"bench", bench, &state.Bench},
		{"available", available, &state.Available},
	}
	for _, c := range columns {
		if err := json.Unmarshal([]byte(c.raw), c.dst); err != nil {
			return model.SquadState{}, fmt.Errorf("decode squad %s %s: %w", teamID, c.name, err)
		}
	}
	return state, nil
}

func (s *sqlStore) SaveSquad(ctx context.Context, state model.SquadState) error {
	_, err := s.db.ExecContext(ctx, s.d.rebind(s.d.upsertSquad),
		state.TeamID, string(toJSON(state.Starters)), string(toJSON(state.Bench)), string(toJSON(state.Available)), timeValuePtr(state.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save squad: %w", err)
	}
	return nil
}

func (s *sqlStore) ListResults(teamID string) []model.MatchResult {
	return s.queryResults(`SELECT `+resultColumns+` FROM match_results WHERE team_id = ? OR opponent_team_id = ?`, teamID, teamID)
}

func (s *sqlStore) ListAllResults() []model.MatchResult {
	return s.queryResults(`SELECT ` + resultColumns + ` FROM match_results`)
}

func (s *sqlStore) queryResults(query string, args ...any) []model.MatchResult {
	rows, err := s.db.Query(s.d.rebind(query), args...)
	if err != nil {
		return nil
	}
	defer rows.Close()

	results := []model.MatchResult{}
	for rows.Next() {
		result, err := scanResultRow(rows)
		if err != nil {
			continue
		}
		results = append(results, result)
	}
	sortResults(results)
	return results
}

func (s *sqlStore) CreateResult(result model.MatchResult) (model.MatchResult, error) {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.PlayedAt.IsZero() {
		result.PlayedAt = time.Now()
	}
	_, err := s.db.Exec(s.d.rebind(`INSERT INTO match_results (`+resultColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`),
		result.ID, result.TeamID, result.OpponentTeamID, result.OpponentName, result.Matchday, result.OwnScore, result.OpponentScore,
		result.Won, result.IsDraw, result.OwnStrength, result.OpponentStrength, result.StrengthDelta, timeValuePtr(result.PlayedAt),
	)
	if err != nil {
		if s.d.isUniqueFail(err) {
			return model.MatchResult{}, errors.New("result already exists")
		}
		return model.MatchResult{}, err
	}
	return result, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanTeamRow(scanner rowScanner) (model.Team, error) {
	var team model.Team
	var createdAt sql.NullTime
	if err := scanner.Scan(&team.ID, &team.Name, &team.City, &team.Managed, &createdAt); err != nil {
		return model.Team{}, err
	}
	if createdAt.Valid {
		team.CreatedAt = createdAt.Time
	}
	return team, nil
}

func scanPlayerRow(scanner rowScanner) (model.Player, error) {
	var p model.Player
	var position string
	var createdAt sql.NullTime
	if err := scanner.Scan(
		&p.ID,
		&p.TeamID,
		&p.Name,
		&position,
		&p.Attack,
		&p.Defense,
		&p.Serve,
		&p.Block,
		&p.Receive,
		&p.Setting,
		&p.Overall,
		&createdAt,
	); err != nil {
		return model.Player{}, err
	}
	p.Position = model.Position(position)
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	return p, nil
}

func scanResultRow(scanner rowScanner) (model.MatchResult, error) {
	var r model.MatchResult
	var playedAt sql.NullTime
	if err := scanner.Scan(
		&r.ID,
		&r.TeamID,
		&r.OpponentTeamID,
		&r.OpponentName,
		&r.Matchday,
		&r.OwnScore,
		&r.OpponentScore,
		&r.Won,
		&r.IsDraw,
		&r.OwnStrength,
		&r.OpponentStrength,
		&r.StrengthDelta,
		&playedAt,
	); err != nil {
		return model.MatchResult{}, err
	}
	if playedAt.Valid {
		r.PlayedAt = playedAt.Time
	}
	return r, nil
}

func timeValuePtr(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func toJSON(v any) []byte {
	if v == nil {
		return []byte("null")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return data
}
