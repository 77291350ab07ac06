package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/plantquiz/internal/config"
	"github.com/vytor/plantquiz/internal/errors"
	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/quiz"
	"github.com/vytor/plantquiz/internal/store"
)

// LabelStore holds the per-player choice label preference.
type LabelStore interface {
	Labels(player models.Player) quiz.LabelConfig
	SetLabels(player models.Player, cfg quiz.LabelConfig) error
}

// SubmitResult is the response to an answer.
type SubmitResult struct {
	Outcome  quiz.Outcome  `json:"outcome"`
	Accepted bool          `json:"accepted"`
	Round    quiz.Snapshot `json:"round"`
}

// GameService runs quiz rounds for players.
type GameService interface {
	StartRound(ctx context.Context, player models.Player, deckID int64) (quiz.Snapshot, error)
	Snapshot(ctx context.Context, player models.Player, roundID string) (quiz.Snapshot, error)
	Submit(ctx context.Context, player models.Player, roundID string, plantID int64) (*SubmitResult, error)
	Restart(ctx context.Context, player models.Player, roundID string) (quiz.Snapshot, error)
	Result(ctx context.Context, player models.Player, roundID string) (*models.RoundResult, error)
	Close(ctx context.Context, player models.Player, roundID string) error
	Labels(ctx context.Context, player models.Player) quiz.LabelConfig
	SetLabels(ctx context.Context, player models.Player, cfg quiz.LabelConfig) error
	Sweep(idle time.Duration) int
	Shutdown()
}

// GameDeps are the collaborators handed to every round.
type GameDeps struct {
	Content   quiz.ContentProvider
	Progress  quiz.ProgressProvider
	Images    quiz.ImageCache
	Sync      quiz.SyncDispatcher
	Labels    LabelStore
	Scheduler quiz.Scheduler
	Rounds    *store.RoundStore
}

type gameService struct {
	deps  GameDeps
	rules config.Rules
	newID func() string
}

// NewGameService creates a new GameService
func NewGameService(deps GameDeps, rules config.Rules) GameService {
	if deps.Rounds == nil {
		deps.Rounds = store.NewRoundStore()
	}
	return &gameService{deps: deps, rules: rules, newID: uuid.NewString}
}

func (s *gameService) StartRound(ctx context.Context, player models.Player, deckID int64) (quiz.Snapshot, error) {
	roundID := s.newID()
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"round_id": roundID,
		"deck_id":  deckID,
	})
	log.Debug("starting round: player=%d", player.ID)

	sess := quiz.NewSession(quiz.Deps{
		Content:   s.deps.Content,
		Progress:  s.deps.Progress,
		Images:    s.deps.Images,
		Sync:      s.deps.Sync,
		Navigator: resultLogger{log: log},
		Scheduler: s.deps.Scheduler,
	}, player, deckID, quiz.Options{
		RoundID: roundID,
		Rules:   s.rules,
		Labels:  s.deps.Labels.Labels(player),
	})

	if err := sess.Load(ctx); err != nil {
		sess.Close()
		return quiz.Snapshot{}, mapRoundError(err, deckID)
	}
	if err := sess.Start(); err != nil {
		sess.Close()
		return quiz.Snapshot{}, mapRoundError(err, deckID)
	}

	s.deps.Rounds.Set(roundID, sess)
	log.Info("round started")
	return sess.Snapshot(), nil
}

func (s *gameService) Snapshot(ctx context.Context, player models.Player, roundID string) (quiz.Snapshot, error) {
	sess, err := s.session(player, roundID)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *gameService) Submit(ctx context.Context, player models.Player, roundID string, plantID int64) (*SubmitResult, error) {
	log := logger.FromContext(ctx)

	sess, err := s.session(player, roundID)
	if err != nil {
		return nil, err
	}
	outcome, accepted, err := sess.Submit(plantID)
	if err != nil {
		return nil, mapRoundError(err, sess.DeckID())
	}
	if !accepted {
		log.Debug("answer ignored: round=%s plant=%d", roundID, plantID)
	}
	return &SubmitResult{Outcome: outcome, Accepted: accepted, Round: sess.Snapshot()}, nil
}

func (s *gameService) Restart(ctx context.Context, player models.Player, roundID string) (quiz.Snapshot, error) {
	log := logger.FromContext(ctx)

	sess, err := s.session(player, roundID)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	if err := sess.Restart(); err != nil {
		return quiz.Snapshot{}, mapRoundError(err, sess.DeckID())
	}
	log.Info("round restarted: round=%s", roundID)
	return sess.Snapshot(), nil
}

func (s *gameService) Result(ctx context.Context, player models.Player, roundID string) (*models.RoundResult, error) {
	sess, err := s.session(player, roundID)
	if err != nil {
		return nil, err
	}
	result, ok := sess.Result()
	if !ok {
		return nil, errors.NewNotReadyError("round result")
	}
	return &result, nil
}

func (s *gameService) Close(ctx context.Context, player models.Player, roundID string) error {
	log := logger.FromContext(ctx)

	if _, err := s.session(player, roundID); err != nil {
		return err
	}
	if sess, ok := s.deps.Rounds.Delete(roundID); ok {
		sess.Close()
	}
	log.Debug("round closed: round=%s", roundID)
	return nil
}

func (s *gameService) Labels(ctx context.Context, player models.Player) quiz.LabelConfig {
	return s.deps.Labels.Labels(player)
}

func (s *gameService) SetLabels(ctx context.Context, player models.Player, cfg quiz.LabelConfig) error {
	log := logger.FromContext(ctx)

	if !cfg.Title.Valid() {
		return errors.NewValidationError("title", "unknown name field")
	}
	if !cfg.Subtitle.Valid() {
		return errors.NewValidationError("subtitle", "unknown name field")
	}
	if err := s.deps.Labels.SetLabels(player, cfg); err != nil {
		log.Error("failed to save labels: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// Sweep closes rounds left idle for longer than idle.
func (s *gameService) Sweep(idle time.Duration) int {
	return s.deps.Rounds.Sweep(idle)
}

func (s *gameService) Shutdown() {
	s.deps.Rounds.CloseAll()
}

// session returns the round if it exists and belongs to player. Someone
// else's round is reported as missing.
func (s *gameService) session(player models.Player, roundID string) (*quiz.Session, error) {
	sess, ok := s.deps.Rounds.Get(roundID)
	if !ok || sess.Player().ID != player.ID {
		return nil, errors.NewNotFoundError("round", roundID)
	}
	return sess, nil
}

func mapRoundError(err error, deckID int64) error {
	var loadErr *quiz.LoadError
	switch {
	case stderrors.As(err, &loadErr):
		return errors.NewProviderError(loadErr.Resource, loadErr.Err)
	case stderrors.Is(err, quiz.ErrDeckNotFound):
		return errors.NewNotFoundError("deck", deckID)
	case stderrors.Is(err, quiz.ErrNotReady):
		return errors.NewNotReadyError("round content")
	case stderrors.Is(err, quiz.ErrNoPlayablePlants):
		return errors.NewNotReadyError("deck images")
	case stderrors.Is(err, quiz.ErrInvalidState):
		return errors.NewBadRequestError(err.Error())
	case stderrors.Is(err, quiz.ErrClosed):
		return errors.NewNotFoundError("round", "closed")
	}
	return errors.NewInternalError(err)
}

type resultLogger struct {
	log *logger.Logger
}

func (r resultLogger) Navigate(result models.RoundResult) {
	r.log.Info("results ready: stars=%d score=%d level=%d", result.Stars, result.Score, result.Level)
}
