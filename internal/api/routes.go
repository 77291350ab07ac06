package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/decks", s.handleListDecks)
		r.Get("/decks/{id}", s.handleGetDeck)
		r.Post("/decks/{id}/rounds", s.handleStartRound)

		r.Route("/rounds/{id}", func(r chi.Router) {
			r.Get("/", s.handleRoundSnapshot)
			r.Delete("/", s.handleCloseRound)
			r.Post("/answers", s.handleSubmitAnswer)
			r.Post("/restart", s.handleRestartRound)
			r.Get("/result", s.handleRoundResult)
		})

		r.Get("/players/me/decks", s.handlePlayedDecks)
		r.Get("/preferences/labels", s.handleGetLabels)
		r.Put("/preferences/labels", s.handlePutLabels)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNoRoute)
	})
	return r
}
