package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/plantquiz/internal/config"
	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/models"
)

// ContentProvider supplies the deck being played.
type ContentProvider interface {
	Deck(ctx context.Context, deckID int64) (*models.Deck, error)
	Plants(ctx context.Context, deckID int64) ([]models.Plant, error)
	ImageManifest(ctx context.Context, plantIDs []int64) (models.ImageManifest, error)
}

// ProgressProvider supplies what an authenticated player achieved before.
type ProgressProvider interface {
	PlayedDeck(ctx context.Context, playerID, deckID int64) (models.PlayedDeckLookup, error)
	PlayerStats(ctx context.Context, playerID int64) (*models.PlayerStats, error)
}

// ImageCache resolves images ahead of play. The returned set holds the urls
// that resolved; individual failures are not errors.
type ImageCache interface {
	Warm(ctx context.Context, urls []string) (map[string]bool, error)
}

// LoadError reports which dependency of a round failed to load.
type LoadError struct {
	Resource string
	Err      error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Resource, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

type Deps struct {
	Content   ContentProvider
	Progress  ProgressProvider
	Images    ImageCache
	Sync      SyncDispatcher
	Navigator Navigator
	Scheduler Scheduler
}

type Options struct {
	RoundID string
	Rules   config.Rules
	Labels  LabelConfig
	Rand    *rand.Rand
}

// Session drives one round of a deck for one player.
type Session struct {
	mu     sync.Mutex
	id     string
	player models.Player
	deckID int64
	deps   Deps
	opts   Options
	log    *logger.Logger

	deck      *models.Deck
	prior     models.PlayedDeckLookup
	stats     models.PlayerStats
	level     int // player level the quota was sized for
	firstPlay bool
	selector  *Selector
	countdown *Countdown

	round    Round
	epoch    uint64
	reveal   Timer
	navigate Timer
	result   *models.RoundResult
	closed   bool
}

func NewSession(deps Deps, player models.Player, deckID int64, opts Options) *Session {
	if deps.Scheduler == nil {
		deps.Scheduler = RealScheduler{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	log := logger.Default().WithPrefix("session").WithFields(map[string]any{
		"round_id": opts.RoundID,
		"deck_id":  deckID,
	})
	return &Session{
		id:     opts.RoundID,
		player: player,
		deckID: deckID,
		deps:   deps,
		opts:   opts,
		log:    log,
		round:  Round{State: StateLoading},
	}
}

func (s *Session) ID() string            { return s.id }
func (s *Session) DeckID() int64         { return s.deckID }
func (s *Session) Player() models.Player { return s.player }

// Load fetches everything the round needs and warms the image cache. The
// session is Ready when it returns nil.
func (s *Session) Load(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("session").WithField("round_id", s.id)
	log.Debug("loading deck %d for player %d", s.deckID, s.player.ID)

	s.mu.Lock()
	if s.round.State != StateLoading {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.mu.Unlock()

	var (
		deck     *models.Deck
		plants   []models.Plant
		manifest models.ImageManifest
		prior    = models.PlayedDeckNotFound()
		stats    models.PlayerStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.deps.Content.Deck(gctx, s.deckID)
		if err != nil {
			return &LoadError{Resource: "deck", Err: err}
		}
		if d == nil {
			return ErrDeckNotFound
		}
		deck = d
		return nil
	})
	g.Go(func() error {
		p, err := s.deps.Content.Plants(gctx, s.deckID)
		if err != nil {
			return &LoadError{Resource: "plants", Err: err}
		}
		ids := make([]int64, len(p))
		for i, plant := range p {
			ids[i] = plant.ID
		}
		m, err := s.deps.Content.ImageManifest(gctx, ids)
		if err != nil {
			return &LoadError{Resource: "images", Err: err}
		}
		plants, manifest = p, m
		return nil
	})
	if s.player.Authenticated() {
		g.Go(func() error {
			lookup, err := s.deps.Progress.PlayedDeck(gctx, s.player.ID, s.deckID)
			if err != nil {
				return &LoadError{Resource: "played deck", Err: err}
			}
			prior = lookup
			return nil
		})
		g.Go(func() error {
			st, err := s.deps.Progress.PlayerStats(gctx, s.player.ID)
			if err != nil {
				return &LoadError{Resource: "player stats", Err: err}
			}
			if st != nil {
				stats = *st
			} else {
				stats = models.PlayerStats{PlayerID: s.player.ID, Username: s.player.Username}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("round cannot start: %v", err)
		return err
	}

	rules := s.opts.Rules
	if plants == nil {
		plants = []models.Plant{}
	}
	if manifest == nil {
		manifest = models.ImageManifest{}
	}

	resolved, err := s.deps.Images.Warm(ctx, DisplayURLs(manifest, rules.DisplayFormat))
	if err != nil {
		log.Warn("image cache failed: %v", err)
		return &LoadError{Resource: "images", Err: err}
	}
	manifest = FilterResolved(manifest, rules.DisplayFormat, resolved)
	log.Debug("image cache ready: %d images resolved", len(resolved))

	sel, err := NewSelector(plants, manifest, SelectorOptions{
		ImagesPerQuestion: rules.ImagesPerQuestion,
		DisplayFormat:     rules.DisplayFormat,
		Labels:            s.opts.Labels,
		Rand:              s.opts.Rand,
	})
	if err != nil {
		log.Warn("round cannot start: %v", err)
		return err
	}

	level := 0
	if s.player.Authenticated() {
		level = stats.Level
	}
	quota := rules.BaseQuota + level*rules.QuotaPerLevel

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.deck = deck
	s.prior = prior
	s.stats = stats
	s.level = level
	s.firstPlay = !prior.Found
	s.selector = sel
	s.countdown = NewCountdown(rules.TimeBudget(), s.deps.Scheduler, s.onExpire)
	s.round = NewRound(quota, rules.Reward)

	s.log.Info("round ready: %d plants (%d playable), quota %d, first play %v",
		len(plants), sel.Eligible(), quota, s.firstPlay)
	return nil
}

// Start shows the first question and starts the countdown.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	switch s.round.State {
	case StateLoading:
		return ErrNotReady
	case StateReady:
	default:
		return ErrInvalidState
	}
	s.beginLocked()
	return nil
}

func (s *Session) beginLocked() {
	s.round = s.round.Begin(s.selector.Next(0))
	s.countdown.Start()
	s.log.Debug("round started, target plant %d", s.round.Question.Target.ID)
}

// Submit answers the current question. An answer while the previous outcome
// is still shown, or after the round ended, is ignored and reported as not accepted.
func (s *Session) Submit(plantID int64) (Outcome, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Undecided, false, ErrClosed
	}
	if s.round.State == StateLoading || s.round.State == StateReady {
		return Undecided, false, ErrNotReady
	}

	next, outcome, accepted := s.round.Submit(plantID)
	if !accepted {
		s.log.Debug("ignoring answer %d in state %s", plantID, s.round.State)
		return outcome, false, nil
	}
	s.round = next
	s.log.Debug("answer %d is %s (score %d, errors %d, stars %d)",
		plantID, outcome, s.round.Score, s.round.Errors, s.round.Stars)

	epoch := s.epoch
	s.reveal = s.deps.Scheduler.AfterFunc(s.opts.Rules.RevealDelay(), func() { s.onRevealed(epoch) })
	return outcome, true, nil
}

func (s *Session) onRevealed(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || s.round.State != StateRevealing {
		return
	}
	s.reveal = nil

	prev := s.round.Question.Target.ID
	next, complete := s.round.Advance()
	s.round = next
	if complete {
		s.finalizeLocked(false)
		return
	}
	s.round = s.round.Next(s.selector.Next(prev))
}

func (s *Session) onExpire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A restart between the last tick and this call clears the expired flag.
	if s.closed || s.countdown == nil || !s.countdown.Expired() {
		return
	}
	s.finalizeLocked(true)
}

// finalizeLocked ends the round once; later calls are no-ops.
func (s *Session) finalizeLocked(timedOut bool) {
	next, ok := s.round.Finalize(timedOut)
	if !ok {
		return
	}
	s.round = next
	s.countdown.Stop()
	if s.reveal != nil {
		s.reveal.Stop()
		s.reveal = nil
	}

	r := s.round
	if s.player.Authenticated() {
		plan := PlanSync(s.player.ID, s.deckID, s.prior, r.Stars, r.Score)
		if err := s.deps.Sync.Dispatch(plan); err != nil {
			s.log.Error("failed to dispatch progress sync: %v", err)
		}
		s.prior = plan.RecordAfter(s.prior)
		s.stats = plan.StatsAfter(s.stats)
	}

	result := models.RoundResult{
		RoundID:   s.id,
		Deck:      *s.deck,
		Score:     r.Score,
		Level:     s.level,
		Stars:     r.Stars,
		Errors:    r.Errors,
		Progress:  r.Progress,
		Quota:     r.Quota,
		Elapsed:   FormatSeconds(s.countdown.Elapsed()),
		Remaining: s.countdown.Formatted(),
		TimedOut:  timedOut,
		FirstPlay: s.firstPlay,
	}
	s.log.Info("round finished: progress %d/%d, score %d, errors %d, stars %d, timed out %v",
		r.Progress, r.Quota, r.Score, r.Errors, r.Stars, timedOut)

	epoch := s.epoch
	s.navigate = s.deps.Scheduler.AfterFunc(s.opts.Rules.NavigationDelay(), func() { s.onNavigate(epoch, result) })
}

func (s *Session) onNavigate(epoch uint64, result models.RoundResult) {
	s.mu.Lock()
	if epoch != s.epoch || s.round.State != StateFinished {
		s.mu.Unlock()
		return
	}
	s.navigate = nil
	s.result = &result
	s.mu.Unlock()

	if s.deps.Navigator != nil {
		s.deps.Navigator.Navigate(result)
	}
}

// Restart replays the deck from scratch with the loaded content. Pending
// reveal and navigation timers are cancelled.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.round.State == StateLoading {
		return ErrNotReady
	}

	s.cancelTimersLocked()
	s.countdown.Reset()
	s.round = s.round.Reset()
	s.result = nil
	s.firstPlay = !s.prior.Found
	s.beginLocked()
	s.log.Info("round restarted")
	return nil
}

// Close abandons the round and cancels every timer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelTimersLocked()
	if s.countdown != nil {
		s.countdown.Stop()
	}
	s.log.Debug("round closed in state %s", s.round.State)
}

func (s *Session) cancelTimersLocked() {
	s.epoch++
	if s.reveal != nil {
		s.reveal.Stop()
		s.reveal = nil
	}
	if s.navigate != nil {
		s.navigate.Stop()
		s.navigate = nil
	}
}

// Result returns the results payload once the round has navigated to it.
func (s *Session) Result() (models.RoundResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return models.RoundResult{}, false
	}
	return *s.result, true
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round.State
}

// QuestionView is the presentable part of a question. Target is only set
// once the answer is revealed.
type QuestionView struct {
	Images  []string `json:"images"`
	Choices []Choice `json:"choices"`
	Target  *Choice  `json:"target,omitempty"`
}

type Snapshot struct {
	RoundID   string        `json:"round_id"`
	DeckID    int64         `json:"deck_id"`
	State     State         `json:"state"`
	Progress  int           `json:"progress"`
	Quota     int           `json:"quota"`
	Score     int           `json:"score"`
	Errors    int           `json:"errors"`
	Stars     int           `json:"stars"`
	Remaining int           `json:"remaining_seconds"`
	Time      string        `json:"time"`
	Outcome   Outcome       `json:"outcome"`
	FirstPlay bool          `json:"first_play"`
	Question  *QuestionView `json:"question,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.round
	snap := Snapshot{
		RoundID:   s.id,
		DeckID:    s.deckID,
		State:     r.State,
		Progress:  r.Progress,
		Quota:     r.Quota,
		Score:     r.Score,
		Errors:    r.Errors,
		Stars:     r.Stars,
		Outcome:   r.Outcome,
		FirstPlay: s.firstPlay,
	}
	if s.countdown != nil {
		snap.Remaining = s.countdown.Remaining()
		snap.Time = FormatSeconds(snap.Remaining)
	}
	if r.State >= StateAnswering {
		view := &QuestionView{Images: r.Question.Images, Choices: r.Question.Choices}
		if r.State == StateRevealing || r.State == StateFinished {
			for i := range r.Question.Choices {
				if r.Question.Choices[i].PlantID == r.Question.Target.ID {
					c := r.Question.Choices[i]
					view.Target = &c
					break
				}
			}
		}
		snap.Question = view
	}
	return snap
}
