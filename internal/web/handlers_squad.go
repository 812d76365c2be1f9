package web

import (
	"net/http"

	"volley-app/internal/squad"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSquad(w http.ResponseWriter, r *http.Request) {
	s.renderSquad(w, r, chi.URLParam(r, "teamID"))
}

func (s *Server) handleSquadValidate(w http.ResponseWriter, r *http.Request) {
	engine, err := s.game.Squad(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validationView(engine.Validate()))
}

func (s *Server) handleAssignStarter(w http.ResponseWriter, r *http.Request) {
	s.assign(w, r, func(e *squad.Engine, playerID string, slot int) error {
		return e.AssignToStarter(playerID, slot)
	})
}

func (s *Server) handleAssignBench(w http.ResponseWriter, r *http.Request) {
	s.assign(w, r, func(e *squad.Engine, playerID string, slot int) error {
		return e.AssignToBench(playerID, slot)
	})
}

func (s *Server) assign(w http.ResponseWriter, r *http.Request, fn func(*squad.Engine, string, int) error) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	playerID := r.FormValue("player_id")
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	slot, err := parseSlot(r.FormValue("slot"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mutateSquad(w, r, func(e *squad.Engine) error { return fn(e, playerID, slot) })
}

func (s *Server) handleSquadRemove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	loc, err := parseLocation("location", r.FormValue("location"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	index, err := parseIndex("index", r.FormValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mutateSquad(w, r, func(e *squad.Engine) error { return e.Remove(loc, index) })
}

func (s *Server) handleSquadMove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	from, err := parseLocation("from", r.FormValue("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fromIndex, err := parseIndex("from_index", r.FormValue("from_index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseLocation("to", r.FormValue("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	toIndex, err := parseIndex("to_index", r.FormValue("to_index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mutateSquad(w, r, func(e *squad.Engine) error { return e.Move(from, fromIndex, to, toIndex) })
}

func (s *Server) mutateSquad(w http.ResponseWriter, r *http.Request, fn func(*squad.Engine) error) {
	teamID := chi.URLParam(r, "teamID")
	engine, err := s.game.Squad(r.Context(), teamID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := fn(engine); err != nil {
		s.fail(w, err)
		return
	}
	s.renderSquad(w, r, teamID)
}

func (s *Server) renderSquad(w http.ResponseWriter, r *http.Request, teamID string) {
	engine, err := s.game.Squad(r.Context(), teamID)
	if err != nil {
		s.fail(w, err)
		return
	}
	value, err := s.game.TeamStrength(r.Context(), teamID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, squadView(teamID, engine, value, s.game.Warning(teamID)))
}
