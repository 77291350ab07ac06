package models

// RoundResult is the one-shot payload handed to the results view when a round ends.
type RoundResult struct {
	RoundID   string `json:"round_id"`
	Deck      Deck   `json:"deck"`
	Score     int    `json:"score"`
	Level     int    `json:"level"`
	Stars     int    `json:"stars"`
	Errors    int    `json:"errors"`
	Progress  int    `json:"progress"`
	Quota     int    `json:"quota"`
	Elapsed   string `json:"elapsed"`
	Remaining string `json:"remaining"`
	TimedOut  bool   `json:"timed_out"`
	FirstPlay bool   `json:"first_play"`
}
