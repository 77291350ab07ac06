package quiz

import "github.com/vytor/plantquiz/internal/models"

// StatsDelta holds the increments a round adds to a player's aggregate stats.
// They are applied relative to the stored values so concurrent rounds of the
// same player all count.
type StatsDelta struct {
	Level       int `json:"level"`
	Score       int `json:"score"`
	GamesPlayed int `json:"games_played"`
}

// SyncPlan lists the writes that record a finished round. At most one of
// Create and Update is set; Stats is always written.
type SyncPlan struct {
	PlayerID int64                    `json:"player_id"`
	DeckID   int64                    `json:"deck_id"`
	Create   *models.PlayedDeckRecord `json:"create,omitempty"`
	Update   *models.PlayedDeckPatch  `json:"update,omitempty"`
	Stats    StatsDelta               `json:"stats"`
}

// PlanSync decides how a round ending with stars and score is recorded
// against the player's prior record for the deck.
func PlanSync(playerID, deckID int64, prior models.PlayedDeckLookup, stars, score int) SyncPlan {
	plan := SyncPlan{PlayerID: playerID, DeckID: deckID}

	switch {
	case !prior.Found:
		level := stars
		if stars == MaxStars {
			level = 2
		}
		plan.Create = &models.PlayedDeckRecord{
			PlayerID:     playerID,
			DeckID:       deckID,
			Level:        level,
			CurrentStars: stars,
		}
	case stars == MaxStars:
		level := prior.Record.Level + 1
		one := 1
		plan.Update = &models.PlayedDeckPatch{Level: &level, CurrentStars: &one}
	case stars > prior.Record.CurrentStars:
		s := stars
		plan.Update = &models.PlayedDeckPatch{CurrentStars: &s}
	}

	plan.Stats = StatsDelta{Score: score, GamesPlayed: 1}
	if stars == MaxStars {
		plan.Stats.Level = 1
	}
	return plan
}

// WritesRecord reports whether the plan creates or changes the played-deck record.
func (p SyncPlan) WritesRecord() bool {
	return p.Create != nil || (p.Update != nil && !p.Update.Empty())
}

// RecordAfter returns the played-deck lookup as it stands once the plan is applied.
func (p SyncPlan) RecordAfter(prior models.PlayedDeckLookup) models.PlayedDeckLookup {
	switch {
	case p.Create != nil:
		return models.FoundPlayedDeck(*p.Create)
	case p.Update != nil && prior.Found:
		return models.FoundPlayedDeck(p.Update.Apply(prior.Record))
	}
	return prior
}

// StatsAfter returns stats with the plan applied.
func (p SyncPlan) StatsAfter(stats models.PlayerStats) models.PlayerStats {
	stats.Level += p.Stats.Level
	stats.Score += p.Stats.Score
	stats.GamesPlayed += p.Stats.GamesPlayed
	return stats
}

// SyncDispatcher hands a plan to background persistence. It must not block;
// the round never waits for the writes.
type SyncDispatcher interface {
	Dispatch(plan SyncPlan) error
}

// Navigator receives the results of a finished round.
type Navigator interface {
	Navigate(result models.RoundResult)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(models.RoundResult)

func (f NavigatorFunc) Navigate(result models.RoundResult) { f(result) }
