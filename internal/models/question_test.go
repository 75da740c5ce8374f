package models

import "testing"

func TestAcceptsAnswer(t *testing.T) {
	mc := &Question{
		QuestionType:  QuestionMultipleChoice,
		Options:       []string{"220 V", "110 V", "380 V"},
		CorrectAnswer: "220 V",
	}
	graph := &Question{
		QuestionType:  QuestionGraphEquation,
		CorrectAnswer: "y = 2x + 1",
	}

	testCases := []struct {
		name     string
		question *Question
		answer   string
		expected bool
	}{
		{"option member accepted", mc, "110 V", true},
		{"correct option accepted", mc, "220 V", true},
		{"unknown option rejected", mc, "400 V", false},
		{"case mismatch rejected", mc, "220 v", false},
		{"free-form kind accepts anything", graph, "y = 3x", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.question.AcceptsAnswer(tc.answer); got != tc.expected {
				t.Errorf("AcceptsAnswer(%q) = %v, want %v", tc.answer, got, tc.expected)
			}
		})
	}
}

func TestIsCorrect(t *testing.T) {
	q := &Question{
		QuestionType:  QuestionMultipleChoice,
		Options:       []string{"A", "B"},
		CorrectAnswer: "A",
	}

	if !q.IsCorrect("A") {
		t.Error("exact match must grade correct")
	}
	if q.IsCorrect("a") {
		t.Error("comparison is case sensitive")
	}
	if q.IsCorrect("A ") {
		t.Error("comparison does not trim whitespace")
	}
}
