package services

import (
	"context"

	"github.com/vytor/plantquiz/internal/errors"
	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/models"
)

// DeckDetail is a deck with its plants.
type DeckDetail struct {
	models.Deck
	Plants []models.Plant `json:"plants"`
}

// DeckService handles deck browsing
type DeckService interface {
	ListDecks(ctx context.Context) ([]models.Deck, error)
	GetDeck(ctx context.Context, id int64) (*DeckDetail, error)
}

type deckService struct {
	content ContentSource
}

// NewDeckService creates a new DeckService
func NewDeckService(content ContentSource) DeckService {
	return &deckService{content: content}
}

func (s *deckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing decks")

	decks, err := s.content.ListDecks(ctx)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewProviderError("decks", err)
	}
	if decks == nil {
		decks = []models.Deck{}
	}
	return decks, nil
}

func (s *deckService) GetDeck(ctx context.Context, id int64) (*DeckDetail, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting deck: id=%d", id)

	deck, err := s.content.Deck(ctx, id)
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, errors.NewProviderError("deck", err)
	}
	if deck == nil || deck.Private {
		return nil, errors.NewNotFoundError("deck", id)
	}

	plants, err := s.content.Plants(ctx, id)
	if err != nil {
		log.Error("failed to get deck plants: %v", err)
		return nil, errors.NewProviderError("plants", err)
	}
	if plants == nil {
		plants = []models.Plant{}
	}
	return &DeckDetail{Deck: *deck, Plants: plants}, nil
}
