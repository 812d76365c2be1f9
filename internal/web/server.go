package web

import (
	"net/http"

	"volley-app/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Server struct {
	game   *game.Service
	logger *zap.Logger
}

func NewServer(svc *game.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{game: svc, logger: logger}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/teams", s.handleTeams)
	r.Route("/teams/{teamID}", func(r chi.Router) {
		r.Get("/", s.handleTeam)
		r.Get("/roster", s.handleRoster)
		r.Get("/strength", s.handleStrength)

		r.Get("/squad", s.handleSquad)
		r.Get("/squad/validate", s.handleSquadValidate)
		r.Post("/squad/starters", s.handleAssignStarter)
		r.Post("/squad/bench", s.handleAssignBench)
		r.Post("/squad/remove", s.handleSquadRemove)
		r.Post("/squad/move", s.handleSquadMove)

		r.Get("/matches", s.handleMatches)
		r.Post("/matches", s.handleFriendlyPlay)
		r.Get("/stats", s.handleStats)
	})

	r.Get("/season", s.handleSeason)
	r.Post("/season/advance", s.handleSeasonAdvance)
	r.Get("/standings", s.handleStandings)

	return r
}
