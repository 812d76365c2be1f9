package store

import (
	"context"
	"errors"

	"volley-app/internal/model"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	ListTeams() []model.Team
	GetTeam(id string) (model.Team, bool)
	CreateTeam(team model.Team) (model.Team, error)

	ListPlayers(ctx context.Context, teamID string) ([]model.Player, error)
	CreatePlayer(player model.Player) (model.Player, error)

	GetSquad(ctx context.Context, teamID string) (model.SquadState, error)
	SaveSquad(ctx context.Context, state model.SquadState) error

	ListResults(teamID string) []model.MatchResult
	ListAllResults() []model.MatchResult
	CreateResult(result model.MatchResult) (model.MatchResult, error)
}
