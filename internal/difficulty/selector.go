// Package difficulty maps SmartScore to question difficulty tiers and builds
// the tier fallback policy used when querying the question bank.
package difficulty

// Tier bounds for question difficulty ratings.
const (
	MinTier = 1
	MaxTier = 5
)

// tierThresholds[t] is the SmartScore needed to reach tier t+1.
var tierThresholds = [...]int{60, 70, 80, 90, 100}

// TargetTier maps an accumulated SmartScore to the difficulty tier a learner
// should be served. It is a pure step function, recomputed from the persisted
// score on every request, so retried or reordered requests cannot drift it.
func TargetTier(smartScore int) int {
	switch {
	case smartScore >= 90:
		return 5
	case smartScore >= 80:
		return 4
	case smartScore >= 70:
		return 3
	case smartScore >= 60:
		return 2
	default:
		return 1
	}
}

// NextThreshold returns the SmartScore needed to advance past the given tier.
// Tier 5 has no tier above it, so the mastery ceiling is returned.
func NextThreshold(tier int) int {
	if tier < MinTier || tier >= MaxTier {
		return 100
	}
	return tierThresholds[tier]
}

// NextTierAfterAnswer computes the tier for the question following a graded
// answer. The base tier derives from the updated score; a miss that reset the
// streak steps down one tier immediately rather than waiting for the score to
// drift, which keeps the loop responsive without oscillating.
func NextTierAfterAnswer(smartScore int, wasCorrect bool, streakAfter int) int {
	base := TargetTier(smartScore)
	if !wasCorrect && streakAfter == 0 {
		return max(MinTier, base-1)
	}
	return base
}

// Policy is the ordered tier preference for one question-bank query: the
// exact tier first, then one easier, then one harder. Skills with sparse
// content at a tier still yield a question this way.
type Policy struct {
	Primary   int
	Fallbacks []int
}

// Tiers returns the policy's tiers in query order, deduplicated at the
// range bounds.
func (p Policy) Tiers() []int {
	tiers := []int{p.Primary}
	for _, t := range p.Fallbacks {
		if t != p.Primary {
			tiers = append(tiers, t)
		}
	}
	return tiers
}

// SelectionPolicy builds the fallback policy for a target tier.
func SelectionPolicy(tier int) Policy {
	return Policy{
		Primary:   tier,
		Fallbacks: []int{max(MinTier, tier-1), min(MaxTier, tier+1)},
	}
}
