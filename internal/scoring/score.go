// Package scoring holds the SmartScore model: pure functions computing score
// deltas, clamping, streak updates, and the mastery rule. No I/O.
package scoring

import "math"

const (
	// MinScore and MaxScore bound the SmartScore range.
	MinScore = 0
	MaxScore = 100

	// MasteryScore is the score at which a skill counts as mastered.
	MasteryScore = 100

	// maxStreakBonus caps the reward for sustained correctness.
	maxStreakBonus = 5.0
)

// BasePoints returns the reward for a correct answer at the given difficulty
// tier: 4 points at tier 1 up to 12 at tier 5.
func BasePoints(tier int) float64 {
	return float64(2 + 2*tier)
}

// StreakBonus returns the diminishing bonus for the streak held before this
// answer, capped at +5.
func StreakBonus(streak int) float64 {
	return math.Min(float64(streak)*0.5, maxStreakBonus)
}

// Delta computes the signed SmartScore change for one graded answer. The
// streak argument is the consecutive-correct count before this answer.
//
// Incorrect answers are penalized harder at low tiers: failing an easy
// question is a stronger negative signal than failing a hard one, so the
// penalty runs from -5 at tier 1 to -1 at tier 5.
func Delta(correct bool, tier, streak int) float64 {
	if correct {
		return BasePoints(tier) + StreakBonus(streak)
	}
	return -math.Max(1, float64(6-tier))
}

// Apply adds a delta to a SmartScore and clamps to [0, 100]. Fractional sums
// round half away from zero, so 58 + 5.5 lands on 64.
func Apply(score int, delta float64) int {
	next := int(math.Round(float64(score) + delta))
	if next < MinScore {
		return MinScore
	}
	if next > MaxScore {
		return MaxScore
	}
	return next
}

// Mastered reports whether a SmartScore has hit the mastery ceiling. Mastery
// is recorded permanently by the engine the first time this returns true.
func Mastered(score int) bool {
	return score >= MasteryScore
}

// NextStreak advances the consecutive-correct counter: +1 on a correct
// answer, reset to zero on a miss.
func NextStreak(streak int, correct bool) int {
	if correct {
		return streak + 1
	}
	return 0
}
