package models

import "time"

// Player identifies who is playing a round. ID 0 means anonymous play.
type Player struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

// Authenticated reports whether the player has an account.
func (p Player) Authenticated() bool {
	return p.ID != 0
}

type PlayerStats struct {
	PlayerID    int64     `json:"player_id"`
	Username    string    `json:"username"`
	Level       int       `json:"level"`
	Score       int       `json:"score"`
	GamesPlayed int       `json:"games_played"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PlayedDeckRecord struct {
	PlayerID     int64     `json:"player_id"`
	DeckID       int64     `json:"deck_id"`
	Level        int       `json:"level"`
	CurrentStars int       `json:"current_stars"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlayedDeckPatch carries the fields of a played-deck update. Nil fields are left as is.
type PlayedDeckPatch struct {
	Level        *int `json:"level,omitempty"`
	CurrentStars *int `json:"current_stars,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p PlayedDeckPatch) Empty() bool {
	return p.Level == nil && p.CurrentStars == nil
}

// Apply returns rec with the patch applied.
func (p PlayedDeckPatch) Apply(rec PlayedDeckRecord) PlayedDeckRecord {
	if p.Level != nil {
		rec.Level = *p.Level
	}
	if p.CurrentStars != nil {
		rec.CurrentStars = *p.CurrentStars
	}
	return rec
}

// PlayedDeckLookup is the result of looking up a player's record for a deck.
// A missing record is a normal outcome (first play), not an error.
type PlayedDeckLookup struct {
	Record PlayedDeckRecord
	Found  bool
}

func FoundPlayedDeck(rec PlayedDeckRecord) PlayedDeckLookup {
	return PlayedDeckLookup{Record: rec, Found: true}
}

func PlayedDeckNotFound() PlayedDeckLookup {
	return PlayedDeckLookup{}
}
