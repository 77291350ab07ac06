package quiz_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/plantquiz/internal/quiz"
)

func TestProgressTier(t *testing.T) {
	tests := []struct {
		progress, quota, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{3, 10, 1},
		{4, 10, 2},
		{6, 10, 2},
		{7, 10, 3},
		{10, 10, 3},
		{5, 15, 2},
		{10, 15, 3},
		{3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.progress, tt.quota), func(t *testing.T) {
			assert.Equal(t, tt.want, quiz.ProgressTier(tt.progress, tt.quota))
		})
	}
}

func TestErrorTier(t *testing.T) {
	tests := []struct {
		errors, quota, want int
	}{
		{0, 10, 3},
		{2, 10, 3},
		{3, 10, 2},
		{4, 10, 1},
		{3, 15, 3},
		{5, 15, 2},
		{6, 15, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_errors_of_%d", tt.errors, tt.quota), func(t *testing.T) {
			assert.Equal(t, tt.want, quiz.ErrorTier(tt.errors, tt.quota))
		})
	}
}

func TestMilestoneTier(t *testing.T) {
	assert.Equal(t, 0, quiz.MilestoneTier(3, 0, 10), "below a third")
	assert.Equal(t, 1, quiz.MilestoneTier(4, 1, 10))
	assert.Equal(t, 0, quiz.MilestoneTier(4, 2, 10), "tier 1 needs fewer than 2 errors")
	assert.Equal(t, 2, quiz.MilestoneTier(7, 3, 10))
	assert.Equal(t, 3, quiz.MilestoneTier(10, 3, 10))
	assert.Equal(t, 0, quiz.MilestoneTier(10, 4, 10), "no milestone with 4 errors")
}

func TestEffectiveStars_Examples(t *testing.T) {
	assert.Equal(t, 3, quiz.EffectiveStars(10, 0, 10))
	assert.Equal(t, 2, quiz.EffectiveStars(15, 5, 15))
	assert.Equal(t, 0, quiz.EffectiveStars(0, 0, 10))
	assert.Equal(t, 1, quiz.EffectiveStars(10, 8, 10))
}

func TestEffectiveStars_IsMinOfTiers(t *testing.T) {
	for quota := 1; quota <= 30; quota++ {
		for progress := 0; progress <= quota; progress++ {
			for errs := 0; errs <= quota; errs++ {
				got := quiz.EffectiveStars(progress, errs, quota)
				want := min(quiz.ProgressTier(progress, quota), quiz.ErrorTier(errs, quota))
				if got != want || got < 0 || got > quiz.MaxStars {
					t.Fatalf("EffectiveStars(%d, %d, %d) = %d, want %d", progress, errs, quota, got, want)
				}
			}
		}
	}
}

func TestLiveStars(t *testing.T) {
	assert.Equal(t, 1, quiz.LiveStars(0, 0, 10), "first answer reaches the first tier")
	assert.Equal(t, 1, quiz.LiveStars(0, 1, 10))
	assert.Equal(t, 1, quiz.LiveStars(0, 4, 10))
	assert.Equal(t, 2, quiz.LiveStars(4, 3, 10))
	assert.Equal(t, 3, quiz.LiveStars(9, 0, 10))
	assert.Equal(t, 0, quiz.LiveStars(0, 0, 0))

	for quota := 1; quota <= 30; quota++ {
		for progress := 1; progress <= quota; progress++ {
			for errs := 0; errs <= quota; errs++ {
				require.Equal(t, quiz.EffectiveStars(progress, errs, quota), quiz.LiveStars(progress, errs, quota),
					"progress %d errors %d quota %d", progress, errs, quota)
			}
		}
	}
}
