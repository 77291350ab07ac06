package prefs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/quiz"
)

const labelsProp = "labels"

var ErrInvalidLabel = errors.New("invalid label field")

// Store keeps per-player display preferences. Without a gdata manager it
// keeps them in memory only.
type Store struct {
	manager *gdata.Manager

	mu     sync.RWMutex
	memory map[string][]byte
}

// Open creates a store persisted under the per-user data directory of appName.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open preferences storage: %w", err)
	}
	return &Store{manager: m, memory: make(map[string][]byte)}, nil
}

func NewMemory() *Store {
	return &Store{memory: make(map[string][]byte)}
}

// Persistent reports whether preferences survive a restart.
func (s *Store) Persistent() bool {
	return s.manager != nil
}

func objectKey(player models.Player) string {
	if !player.Authenticated() {
		return "anonymous"
	}
	return fmt.Sprintf("player_%d", player.ID)
}

// Labels returns the player's label preference, or the defaults when unset
// or unreadable.
func (s *Store) Labels(player models.Player) quiz.LabelConfig {
	log := logger.Default().WithPrefix("prefs")

	data, ok, err := s.load(objectKey(player), labelsProp)
	if err != nil {
		log.Warn("failed to load labels for %s: %v", objectKey(player), err)
		return quiz.DefaultLabels()
	}
	if !ok {
		return quiz.DefaultLabels()
	}

	var cfg quiz.LabelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Warn("ignoring malformed labels for %s: %v", objectKey(player), err)
		return quiz.DefaultLabels()
	}
	return cfg.Normalize()
}

// SetLabels stores the player's label preference. Both fields must be recognized.
func (s *Store) SetLabels(player models.Player, cfg quiz.LabelConfig) error {
	if !cfg.Title.Valid() {
		return fmt.Errorf("%w: title %q", ErrInvalidLabel, cfg.Title)
	}
	if !cfg.Subtitle.Valid() {
		return fmt.Errorf("%w: subtitle %q", ErrInvalidLabel, cfg.Subtitle)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.save(objectKey(player), labelsProp, data)
}

func (s *Store) load(obj, prop string) ([]byte, bool, error) {
	if s.manager == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		data, ok := s.memory[obj+"/"+prop]
		return data, ok, nil
	}
	if !s.manager.ObjectPropExists(obj, prop) {
		return nil, false, nil
	}
	data, err := s.manager.LoadObjectProp(obj, prop)
	return data, err == nil, err
}

func (s *Store) save(obj, prop string, data []byte) error {
	if s.manager == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.memory[obj+"/"+prop] = data
		return nil
	}
	return s.manager.SaveObjectProp(obj, prop, data)
}
