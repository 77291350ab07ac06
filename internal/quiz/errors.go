package quiz

import "errors"

var (
	// ErrNotReady is returned while the plants or their image manifest have not loaded.
	ErrNotReady = errors.New("round content is not ready")
	// ErrNoPlayablePlants means no plant of the deck has a resolvable image.
	ErrNoPlayablePlants = errors.New("no plant of the deck has a playable image")
	ErrDeckNotFound     = errors.New("deck not found")
	// ErrInvalidState is returned when a command does not apply to the current state.
	ErrInvalidState = errors.New("command not allowed in current round state")
	ErrClosed       = errors.New("round is closed")
)
