package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/plantquiz/internal/models"
)

// MockDeckRepository is a mock implementation of repository.DeckRepository
type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) List(ctx context.Context, includePrivate bool) ([]models.Deck, error) {
	args := m.Called(ctx, includePrivate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deck), args.Error(1)
}

func (m *MockDeckRepository) Plants(ctx context.Context, deckID int64) ([]models.Plant, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Plant), args.Error(1)
}

func (m *MockDeckRepository) Import(ctx context.Context, content models.DeckContent) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

// MockImageRepository is a mock implementation of repository.ImageRepository
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) ImageManifest(ctx context.Context, plantIDs []int64) (models.ImageManifest, error) {
	args := m.Called(ctx, plantIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.ImageManifest), args.Error(1)
}

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) GetPlayedDeck(ctx context.Context, playerID, deckID int64) (models.PlayedDeckLookup, error) {
	args := m.Called(ctx, playerID, deckID)
	return args.Get(0).(models.PlayedDeckLookup), args.Error(1)
}

func (m *MockProgressRepository) ListPlayedDecks(ctx context.Context, playerID int64) ([]models.PlayedDeckRecord, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlayedDeckRecord), args.Error(1)
}

func (m *MockProgressRepository) CreatePlayedDeck(ctx context.Context, rec models.PlayedDeckRecord) (*models.PlayedDeckRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayedDeckRecord), args.Error(1)
}

func (m *MockProgressRepository) UpdatePlayedDeck(ctx context.Context, playerID, deckID int64, patch models.PlayedDeckPatch) (*models.PlayedDeckRecord, error) {
	args := m.Called(ctx, playerID, deckID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayedDeckRecord), args.Error(1)
}

// MockPlayerRepository is a mock implementation of repository.PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) Get(ctx context.Context, id int64) (*models.PlayerStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}

func (m *MockPlayerRepository) Upsert(ctx context.Context, id int64, username string) (*models.PlayerStats, error) {
	args := m.Called(ctx, id, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}

func (m *MockPlayerRepository) AddStats(ctx context.Context, id int64, level, score, gamesPlayed int) (*models.PlayerStats, error) {
	args := m.Called(ctx, id, level, score, gamesPlayed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}
