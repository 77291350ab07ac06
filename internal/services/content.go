package services

import (
	"context"

	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/quiz"
	"github.com/vytor/plantquiz/internal/repository"
)

// ContentSource is where decks, plants and images come from: the database or
// the remote flora API.
type ContentSource interface {
	quiz.ContentProvider
	ListDecks(ctx context.Context) ([]models.Deck, error)
}

type repositoryContent struct {
	decks  repository.DeckRepository
	images repository.ImageRepository
}

// NewRepositoryContent serves content from the database repositories.
func NewRepositoryContent(decks repository.DeckRepository, images repository.ImageRepository) ContentSource {
	return &repositoryContent{decks: decks, images: images}
}

func (c *repositoryContent) Deck(ctx context.Context, deckID int64) (*models.Deck, error) {
	return c.decks.Get(ctx, deckID)
}

func (c *repositoryContent) Plants(ctx context.Context, deckID int64) ([]models.Plant, error) {
	return c.decks.Plants(ctx, deckID)
}

func (c *repositoryContent) ImageManifest(ctx context.Context, plantIDs []int64) (models.ImageManifest, error) {
	return c.images.ImageManifest(ctx, plantIDs)
}

func (c *repositoryContent) ListDecks(ctx context.Context) ([]models.Deck, error) {
	return c.decks.List(ctx, false)
}
