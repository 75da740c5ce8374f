package adaptive

import (
	"context"

	"practice-service/internal/models"
)

// CompletionReason distinguishes the two terminal session states. A client
// must render them differently: an exhausted bank is not mastery.
type CompletionReason string

const (
	ReasonMastered    CompletionReason = "mastered"
	ReasonNoQuestions CompletionReason = "no_questions"
)

// ProgressStore is the engine's view of the per-(user, skill) progress
// record. Upsert must apply writes with per-key serializability; the Mongo
// implementation does a compare-and-set on the record's Version.
type ProgressStore interface {
	Get(ctx context.Context, userID, skillID string) (*models.SkillProgress, error)
	Upsert(ctx context.Context, progress *models.SkillProgress) error
}

// QuestionSource is the engine's view of the question bank. FindByTiers
// tries each tier in order and returns nil with no error when the bank has
// nothing at any of them.
type QuestionSource interface {
	FindByTiers(ctx context.Context, skillID string, tiers []int) (*models.Question, error)
}

// SkillSource validates that a practiced skill exists and is active.
type SkillSource interface {
	FindByID(ctx context.Context, id string) (*models.Skill, error)
}

// StartResult is the engine's answer to an init-session request: either the
// first question at the learner's target tier, or a terminal state.
type StartResult struct {
	Question       *models.Question `json:"question,omitempty"`
	DifficultyTier int              `json:"difficulty_tier"`
	SmartScore     int              `json:"smart_score"`
	NextThreshold  int              `json:"next_threshold"`
	Completed      bool             `json:"completed"`
	Reason         CompletionReason `json:"reason,omitempty"`
}

// SubmitResult reports one graded answer: the updated stats and either the
// next question or a terminal state.
type SubmitResult struct {
	Correct       bool             `json:"correct"`
	PointsDelta   float64          `json:"points_delta"`
	NewSmartScore int              `json:"new_smart_score"`
	NewStreak     int              `json:"new_streak"`
	BestStreak    int              `json:"best_streak"`
	Mastered      bool             `json:"mastered"`
	NextQuestion  *models.Question `json:"next_question,omitempty"`
	NextTier      int              `json:"next_tier,omitempty"`
	Completed     bool             `json:"completed"`
	Reason        CompletionReason `json:"reason,omitempty"`
}
