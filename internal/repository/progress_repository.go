package repository

import (
	"context"

	"github.com/vytor/plantquiz/internal/models"
)

// ProgressRepository stores the best result of a player on each deck.
// A missing record is reported through PlayedDeckLookup.Found, never as an error.
type ProgressRepository interface {
	GetPlayedDeck(ctx context.Context, playerID, deckID int64) (models.PlayedDeckLookup, error)
	ListPlayedDecks(ctx context.Context, playerID int64) ([]models.PlayedDeckRecord, error)
	CreatePlayedDeck(ctx context.Context, rec models.PlayedDeckRecord) (*models.PlayedDeckRecord, error)
	UpdatePlayedDeck(ctx context.Context, playerID, deckID int64, patch models.PlayedDeckPatch) (*models.PlayedDeckRecord, error)
}
