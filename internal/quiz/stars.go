package quiz

// MaxStars is the highest star tier of a round.
const MaxStars = 3

// ProgressTier rates how far through the quota a round went: nothing answered
// is 0, then 1, 2 from a third of the quota and 3 from two thirds.
func ProgressTier(progress, quota int) int {
	if progress <= 0 || quota <= 0 {
		return 0
	}
	switch {
	case 3*progress >= 2*quota:
		return 3
	case 3*progress >= quota:
		return 2
	default:
		return 1
	}
}

// ErrorTier rates the error count against the quota.
func ErrorTier(errors, quota int) int {
	q := float64(quota)
	e := float64(errors)
	switch {
	case e <= q/5:
		return 3
	case e <= q/3:
		return 2
	default:
		return 1
	}
}

// MilestoneTier is the tier granted during play when a progress threshold is
// reached with few enough errors. The highest satisfied milestone wins.
func MilestoneTier(progress, errors, quota int) int {
	if quota <= 0 {
		return 0
	}
	switch {
	case progress >= quota && errors < 4:
		return 3
	case 3*progress >= 2*quota && errors < 4:
		return 2
	case 3*progress >= quota && errors < 2:
		return 1
	default:
		return 0
	}
}

// EffectiveStars is the star tier of a round with the given totals.
func EffectiveStars(progress, errors, quota int) int {
	return min(ProgressTier(progress, quota), ErrorTier(errors, quota))
}

// LiveStars is the tier shown right after an answer, before the question is
// counted. Any answered question reaches at least the first progress tier.
func LiveStars(progress, errors, quota int) int {
	if quota <= 0 {
		return 0
	}
	return min(max(ProgressTier(progress, quota), 1), ErrorTier(errors, quota))
}
