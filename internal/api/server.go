package api

import (
	"database/sql"

	"github.com/vytor/plantquiz/internal/services"
)

type Server struct {
	DB        *sql.DB
	Decks     services.DeckService
	Games     services.GameService
	Progress  services.ProgressService
	JWTSecret []byte
}
