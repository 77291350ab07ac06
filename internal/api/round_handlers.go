package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/plantquiz/internal/errors"
	"github.com/vytor/plantquiz/internal/logger"
)

type answerRequest struct {
	PlantID int64 `json:"plant_id"`
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	deckID, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	player := playerFromContext(ctx)
	if player.Authenticated() {
		if _, err := s.Progress.EnsurePlayer(ctx, player); err != nil {
			handleError(w, r, err)
			return
		}
	}

	snap, err := s.Games.StartRound(ctx, player, deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("round %s started on deck %d", snap.RoundID, deckID)
	w.Header().Set("Location", "/rounds/"+snap.RoundID)
	writeJSON(w, r, http.StatusCreated, snap)
}

func (s *Server) handleRoundSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap, err := s.Games.Snapshot(ctx, playerFromContext(ctx), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.PlantID <= 0 {
		handleError(w, r, errors.NewValidationError("plant_id", "must be a positive integer"))
		return
	}

	res, err := s.Games.Submit(ctx, playerFromContext(ctx), chi.URLParam(r, "id"), req.PlantID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleRestartRound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap, err := s.Games.Restart(ctx, playerFromContext(ctx), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleRoundResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := s.Games.Result(ctx, playerFromContext(ctx), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleCloseRound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.Games.Close(ctx, playerFromContext(ctx), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
