package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	results, err := s.game.Results(chi.URLParam(r, "teamID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchViews(results))
}

// handleFriendlyPlay simulates a friendly and answers once the result is
// revealed. A client that disconnects before the reveal discards the match.
func (s *Server) handleFriendlyPlay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	delay, err := parseDelay(r.FormValue("delay"), s.game.RevealDelay())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.game.PlayFriendly(r.Context(), chi.URLParam(r, "teamID"), r.FormValue("opponent_id"), delay)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, matchView(result))
}
