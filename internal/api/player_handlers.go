package api

import (
	"net/http"

	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/quiz"
)

func (s *Server) handlePlayedDecks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := s.Progress.ListPlayedDecks(ctx, playerFromContext(ctx))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if records == nil {
		records = []models.PlayedDeckRecord{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"played_decks": records})
}

func (s *Server) handleGetLabels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(w, r, http.StatusOK, s.Games.Labels(ctx, playerFromContext(ctx)))
}

func (s *Server) handlePutLabels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cfg quiz.LabelConfig
	if err := decodeJSON(r, &cfg); err != nil {
		handleError(w, r, err)
		return
	}
	player := playerFromContext(ctx)
	if err := s.Games.SetLabels(ctx, player, cfg); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.Games.Labels(ctx, player))
}
