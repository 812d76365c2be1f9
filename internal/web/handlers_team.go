package web

import (
	"net/http"

	"volley-app/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	teams := s.game.Teams()
	writeJSON(w, http.StatusOK, lo.Map(teams, func(t model.Team, _ int) TeamView { return teamView(t) }))
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.game.Team(chi.URLParam(r, "teamID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teamView(team))
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := s.game.Roster(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playerViews(roster))
}

func (s *Server) handleStrength(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	value, err := s.game.TeamStrength(r.Context(), teamID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StrengthView{TeamID: teamID, Strength: value})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	stats, err := s.game.Stats(teamID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsView(teamID, stats))
}
