package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/quiz"
)

// MockContentProvider is a mock implementation of quiz.ContentProvider
type MockContentProvider struct {
	mock.Mock
}

func (m *MockContentProvider) Deck(ctx context.Context, deckID int64) (*models.Deck, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockContentProvider) Plants(ctx context.Context, deckID int64) ([]models.Plant, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Plant), args.Error(1)
}

func (m *MockContentProvider) ImageManifest(ctx context.Context, plantIDs []int64) (models.ImageManifest, error) {
	args := m.Called(ctx, plantIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.ImageManifest), args.Error(1)
}

// MockProgressProvider is a mock implementation of quiz.ProgressProvider
type MockProgressProvider struct {
	mock.Mock
}

func (m *MockProgressProvider) PlayedDeck(ctx context.Context, playerID, deckID int64) (models.PlayedDeckLookup, error) {
	args := m.Called(ctx, playerID, deckID)
	return args.Get(0).(models.PlayedDeckLookup), args.Error(1)
}

func (m *MockProgressProvider) PlayerStats(ctx context.Context, playerID int64) (*models.PlayerStats, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}

// MockImageCache is a mock implementation of quiz.ImageCache
type MockImageCache struct {
	mock.Mock
}

func (m *MockImageCache) Warm(ctx context.Context, urls []string) (map[string]bool, error) {
	args := m.Called(ctx, urls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

// MockSyncDispatcher is a mock implementation of quiz.SyncDispatcher
type MockSyncDispatcher struct {
	mock.Mock
}

func (m *MockSyncDispatcher) Dispatch(plan quiz.SyncPlan) error {
	args := m.Called(plan)
	return args.Error(0)
}
