package repository

import (
	"context"

	"github.com/vytor/plantquiz/internal/models"
)

// DeckRepository gives access to decks and the plants they contain.
// Get returns (nil, nil) when the deck does not exist.
type DeckRepository interface {
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context, includePrivate bool) ([]models.Deck, error)
	Plants(ctx context.Context, deckID int64) ([]models.Plant, error)
	Import(ctx context.Context, content models.DeckContent) error
}
