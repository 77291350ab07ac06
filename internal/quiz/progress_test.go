package quiz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/quiz"
)

func TestPlanSync_FirstPlay(t *testing.T) {
	tests := []struct {
		stars, wantLevel int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
	}
	for _, tt := range tests {
		plan := quiz.PlanSync(42, 7, models.PlayedDeckNotFound(), tt.stars, 500)

		require.NotNil(t, plan.Create, "stars %d", tt.stars)
		assert.Nil(t, plan.Update)
		assert.Equal(t, tt.wantLevel, plan.Create.Level, "stars %d", tt.stars)
		assert.Equal(t, tt.stars, plan.Create.CurrentStars)
		assert.Equal(t, int64(42), plan.Create.PlayerID)
		assert.Equal(t, int64(7), plan.Create.DeckID)
		assert.True(t, plan.WritesRecord())
	}
}

func TestPlanSync_ReplayWithoutImprovementWritesNoRecord(t *testing.T) {
	prior := models.FoundPlayedDeck(models.PlayedDeckRecord{PlayerID: 42, DeckID: 7, Level: 2, CurrentStars: 2})

	for _, stars := range []int{0, 1, 2} {
		plan := quiz.PlanSync(42, 7, prior, stars, 100)
		assert.Nil(t, plan.Create)
		assert.Nil(t, plan.Update)
		assert.False(t, plan.WritesRecord())
		assert.Equal(t, prior, plan.RecordAfter(prior))
	}
}

func TestPlanSync_ReplayImprovesStars(t *testing.T) {
	prior := models.FoundPlayedDeck(models.PlayedDeckRecord{Level: 3, CurrentStars: 1})

	plan := quiz.PlanSync(42, 7, prior, 2, 100)
	require.NotNil(t, plan.Update)
	assert.Nil(t, plan.Update.Level)
	require.NotNil(t, plan.Update.CurrentStars)
	assert.Equal(t, 2, *plan.Update.CurrentStars)

	after := plan.RecordAfter(prior)
	assert.Equal(t, 3, after.Record.Level)
	assert.Equal(t, 2, after.Record.CurrentStars)
}

func TestPlanSync_ThreeStarsAdvancesLevel(t *testing.T) {
	for _, current := range []int{0, 1, 2, 3} {
		prior := models.FoundPlayedDeck(models.PlayedDeckRecord{Level: 4, CurrentStars: current})

		plan := quiz.PlanSync(42, 7, prior, 3, 100)
		require.NotNil(t, plan.Update)
		assert.Equal(t, 5, *plan.Update.Level, "current stars %d", current)
		assert.Equal(t, 1, *plan.Update.CurrentStars)
	}
}

func TestPlanSync_Stats(t *testing.T) {
	stats := models.PlayerStats{PlayerID: 42, Username: "alice", Level: 1, Score: 900, GamesPlayed: 4}

	plan := quiz.PlanSync(42, 7, models.PlayedDeckNotFound(), 2, 700)
	assert.Equal(t, quiz.StatsDelta{Level: 0, Score: 700, GamesPlayed: 1}, plan.Stats)

	plan = quiz.PlanSync(42, 7, models.PlayedDeckNotFound(), 3, 1000)
	assert.Equal(t, quiz.StatsDelta{Level: 1, Score: 1000, GamesPlayed: 1}, plan.Stats)

	after := plan.StatsAfter(stats)
	assert.Equal(t, "alice", after.Username)
	assert.Equal(t, 2, after.Level)
	assert.Equal(t, 1900, after.Score)
	assert.Equal(t, 5, after.GamesPlayed)
}

func TestPlanSync_StatsDoNotDependOnSnapshot(t *testing.T) {
	// Two rounds planned from the same stale snapshot must both count once applied.
	stats := models.PlayerStats{PlayerID: 42, Level: 1, Score: 900, GamesPlayed: 4}
	first := quiz.PlanSync(42, 7, models.PlayedDeckNotFound(), 2, 700)
	second := quiz.PlanSync(42, 8, models.PlayedDeckNotFound(), 3, 1000)

	after := second.StatsAfter(first.StatsAfter(stats))
	assert.Equal(t, 2, after.Level)
	assert.Equal(t, 2600, after.Score)
	assert.Equal(t, 6, after.GamesPlayed)
}
