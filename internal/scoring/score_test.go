package scoring

import (
	"math"
	"math/rand"
	"testing"
)

func TestDelta(t *testing.T) {
	testCases := []struct {
		name     string
		correct  bool
		tier     int
		streak   int
		expected float64
	}{
		{"fresh correct tier 1", true, 1, 0, 4},
		{"correct tier 5 no streak", true, 5, 0, 12},
		{"correct tier 1 streak 3", true, 1, 3, 5.5},
		{"streak bonus caps at 5", true, 2, 30, 11},
		{"incorrect tier 1 hits hardest", false, 1, 4, -5},
		{"incorrect tier 2", false, 2, 0, -4},
		{"incorrect tier 5 hits softest", false, 5, 9, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			delta := Delta(tc.correct, tc.tier, tc.streak)
			if math.Abs(delta-tc.expected) > 0.001 {
				t.Errorf("Delta(%v, %d, %d) = %v, want %v", tc.correct, tc.tier, tc.streak, delta, tc.expected)
			}
		})
	}
}

func TestApply(t *testing.T) {
	testCases := []struct {
		name     string
		score    int
		delta    float64
		expected int
	}{
		{"simple add", 0, 4, 4},
		{"half rounds up", 58, 5.5, 64},
		{"clamps at ceiling", 95, 12, 100},
		{"clamps at floor", 2, -5, 0},
		{"negative mid-range", 65, -4, 61},
		{"zero delta", 50, 0, 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Apply(tc.score, tc.delta)
			if got != tc.expected {
				t.Errorf("Apply(%d, %v) = %d, want %d", tc.score, tc.delta, got, tc.expected)
			}
		})
	}
}

func TestMastered(t *testing.T) {
	if Mastered(99) {
		t.Error("score 99 must not be mastered")
	}
	if !Mastered(100) {
		t.Error("score 100 must be mastered")
	}
}

func TestNextStreak(t *testing.T) {
	if got := NextStreak(4, true); got != 5 {
		t.Errorf("NextStreak(4, true) = %d, want 5", got)
	}
	if got := NextStreak(7, false); got != 0 {
		t.Errorf("NextStreak(7, false) = %d, want 0", got)
	}
	if got := NextStreak(0, false); got != 0 {
		t.Errorf("NextStreak(0, false) = %d, want 0", got)
	}
}

// Any sequence of answers keeps the score inside [0, 100].
func TestScoreStaysBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	score := 0
	streak := 0
	for i := 0; i < 5000; i++ {
		correct := rng.Intn(2) == 0
		tier := 1 + rng.Intn(5)

		score = Apply(score, Delta(correct, tier, streak))
		streak = NextStreak(streak, correct)

		if score < MinScore || score > MaxScore {
			t.Fatalf("score %d escaped [%d, %d] at step %d", score, MinScore, MaxScore, i)
		}
	}
}
