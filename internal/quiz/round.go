package quiz

import "fmt"

type State int

const (
	StateLoading State = iota
	StateReady
	StateAnswering
	StateRevealing
	StateFinished
)

var stateNames = [...]string{"loading", "ready", "answering", "revealing", "finished"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Outcome int

const (
	Undecided Outcome = iota
	Correct
	Incorrect
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	}
	return "undecided"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Round is the mutable aggregate of one play-through. Its methods are pure
// transitions returning the next value.
type Round struct {
	State    State
	Quota    int
	Reward   int
	Progress int
	Score    int
	Errors   int
	Stars    int
	Question Question
	Outcome  Outcome
	TimedOut bool
}

func NewRound(quota, reward int) Round {
	return Round{State: StateReady, Quota: quota, Reward: reward}
}

// Begin shows the first question of a round.
func (r Round) Begin(q Question) Round {
	r.State = StateAnswering
	r.Question = q
	r.Outcome = Undecided
	return r
}

// Submit records an answer to the current question. Answers outside of
// StateAnswering are not accepted and leave the round unchanged.
func (r Round) Submit(plantID int64) (Round, Outcome, bool) {
	if r.State != StateAnswering {
		return r, r.Outcome, false
	}
	if plantID == r.Question.Target.ID {
		r.Outcome = Correct
		r.Score += r.Reward
	} else {
		r.Outcome = Incorrect
		r.Errors++
	}
	r.Stars = max(r.Stars, LiveStars(r.Progress, r.Errors, r.Quota))
	r.State = StateRevealing
	return r, r.Outcome, true
}

// Advance counts the revealed question. It reports whether the quota is reached.
func (r Round) Advance() (Round, bool) {
	if r.State != StateRevealing {
		return r, false
	}
	if r.Progress < r.Quota {
		r.Progress++
	}
	r.Stars = max(r.Stars, MilestoneTier(r.Progress, r.Errors, r.Quota))
	return r, r.Progress >= r.Quota
}

// Next moves on to q after a reveal.
func (r Round) Next(q Question) Round {
	if r.State != StateRevealing {
		return r
	}
	return r.Begin(q)
}

// Finalize ends the round and settles its star tier from the final totals.
// It reports false if the round was already finished.
func (r Round) Finalize(timedOut bool) (Round, bool) {
	if r.State == StateFinished {
		return r, false
	}
	r.State = StateFinished
	r.TimedOut = timedOut
	r.Stars = EffectiveStars(r.Progress, r.Errors, r.Quota)
	return r, true
}

// Reset returns the round to its initial totals, ready for a new first question.
func (r Round) Reset() Round {
	return NewRound(r.Quota, r.Reward)
}
