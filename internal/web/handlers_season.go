package web

import (
	"net/http"

	"volley-app/internal/model"

	"github.com/samber/lo"
)

func (s *Server) teamNames() map[string]string {
	return lo.Associate(s.game.Teams(), func(t model.Team) (string, string) { return t.ID, t.Name })
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	info, err := s.game.SeasonInfo()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seasonView(info, s.teamNames()))
}

func (s *Server) handleSeasonAdvance(w http.ResponseWriter, r *http.Request) {
	matchday, results, err := s.game.AdvanceMatchday(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AdvanceView{Matchday: matchday, Results: matchViews(results)})
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, standingViews(s.game.Standings()))
}
