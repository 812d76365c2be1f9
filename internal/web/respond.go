package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"volley-app/internal/game"
	"volley-app/internal/squad"

	"go.uber.org/zap"
)

type errorView struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorView{Error: message})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrTeamNotFound):
		return http.StatusNotFound
	case squad.IsValidation(err), errors.Is(err, game.ErrSameTeam):
		return http.StatusBadRequest
	case squad.IsCapacity(err), errors.Is(err, game.ErrSeasonFinished), errors.Is(err, game.ErrNotEnoughTeams):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	case errors.Is(err, game.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
