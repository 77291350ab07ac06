package services

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/vytor/plantquiz/internal/errors"
	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/quiz"
	"github.com/vytor/plantquiz/internal/repository"
)

// ProgressService reads and records players' progress on decks. It serves as
// the round's progress provider and as the writer of the sync jobs.
type ProgressService interface {
	PlayedDeck(ctx context.Context, playerID, deckID int64) (models.PlayedDeckLookup, error)
	PlayerStats(ctx context.Context, playerID int64) (*models.PlayerStats, error)
	ApplySync(ctx context.Context, plan quiz.SyncPlan) error
	EnsurePlayer(ctx context.Context, player models.Player) (*models.PlayerStats, error)
	ListPlayedDecks(ctx context.Context, player models.Player) ([]models.PlayedDeckRecord, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	playerRepo   repository.PlayerRepository
}

// NewProgressService creates a new ProgressService
func NewProgressService(progressRepo repository.ProgressRepository, playerRepo repository.PlayerRepository) ProgressService {
	return &progressService{progressRepo: progressRepo, playerRepo: playerRepo}
}

func (s *progressService) PlayedDeck(ctx context.Context, playerID, deckID int64) (models.PlayedDeckLookup, error) {
	return s.progressRepo.GetPlayedDeck(ctx, playerID, deckID)
}

func (s *progressService) PlayerStats(ctx context.Context, playerID int64) (*models.PlayerStats, error) {
	return s.playerRepo.Get(ctx, playerID)
}

// ApplySync performs the writes of plan once. The record write and the stats
// write are independent; both are attempted.
func (s *progressService) ApplySync(ctx context.Context, plan quiz.SyncPlan) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"player_id": plan.PlayerID,
		"deck_id":   plan.DeckID,
	})

	var errs []error
	switch {
	case plan.Create != nil:
		log.Debug("creating played deck: level=%d stars=%d", plan.Create.Level, plan.Create.CurrentStars)
		if _, err := s.progressRepo.CreatePlayedDeck(ctx, *plan.Create); err != nil {
			errs = append(errs, fmt.Errorf("create played deck: %w", err))
		}
	case plan.Update != nil && !plan.Update.Empty():
		log.Debug("updating played deck")
		if _, err := s.progressRepo.UpdatePlayedDeck(ctx, plan.PlayerID, plan.DeckID, *plan.Update); err != nil {
			errs = append(errs, fmt.Errorf("update played deck: %w", err))
		}
	default:
		log.Debug("played deck unchanged")
	}

	st := plan.Stats
	if _, err := s.playerRepo.AddStats(ctx, plan.PlayerID, st.Level, st.Score, st.GamesPlayed); err != nil {
		errs = append(errs, fmt.Errorf("update player stats: %w", err))
	}

	if err := stderrors.Join(errs...); err != nil {
		return err
	}
	log.Info("progress recorded: level=+%d score=+%d games=+%d", st.Level, st.Score, st.GamesPlayed)
	return nil
}

// EnsurePlayer registers an authenticated player on first sight.
func (s *progressService) EnsurePlayer(ctx context.Context, player models.Player) (*models.PlayerStats, error) {
	log := logger.FromContext(ctx)

	stats, err := s.playerRepo.Get(ctx, player.ID)
	if err != nil {
		log.Error("failed to get player: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if stats != nil && (player.Username == "" || stats.Username == player.Username) {
		return stats, nil
	}

	username := player.Username
	if username == "" {
		username = fmt.Sprintf("player-%d", player.ID)
	}
	log.Debug("registering player: id=%d username=%s", player.ID, username)
	stats, err = s.playerRepo.Upsert(ctx, player.ID, username)
	if err != nil {
		log.Error("failed to register player: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}

func (s *progressService) ListPlayedDecks(ctx context.Context, player models.Player) ([]models.PlayedDeckRecord, error) {
	log := logger.FromContext(ctx)
	if !player.Authenticated() {
		return nil, errors.NewUnauthorizedError("sign in to see played decks")
	}

	records, err := s.progressRepo.ListPlayedDecks(ctx, player.ID)
	if err != nil {
		log.Error("failed to list played decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return records, nil
}
