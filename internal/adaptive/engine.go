// Package adaptive implements the practice loop: it serves questions at a
// tier derived from the learner's SmartScore, grades answers, and updates the
// persisted per-(user, skill) progress record. The engine keeps no session
// state of its own; every request rehydrates from the store.
package adaptive

import (
	"context"
	"sync"
	"time"

	"practice-service/internal/difficulty"
	"practice-service/internal/models"
	"practice-service/internal/scoring"
)

// Engine orchestrates the score model, difficulty selector, and the external
// progress and content stores.
type Engine struct {
	progress  ProgressStore
	questions QuestionSource
	skills    SkillSource
	now       func() time.Time

	// locks serializes submissions per (user, skill) so concurrent
	// read-modify-write cycles cannot lose updates.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates an engine over the given collaborators.
func NewEngine(progress ProgressStore, questions QuestionSource, skills SkillSource) *Engine {
	return &Engine{
		progress:  progress,
		questions: questions,
		skills:    skills,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (e *Engine) lockFor(userID, skillID string) *sync.Mutex {
	key := userID + "\x00" + skillID
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	return l
}

// validSkill loads the skill and rejects missing or inactive ones.
func (e *Engine) validSkill(ctx context.Context, skillID string) (*models.Skill, error) {
	skill, err := e.skills.FindByID(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if skill == nil || !skill.IsActive {
		return nil, ErrInvalidSkill
	}
	return skill, nil
}

// loadOrDefault fetches the progress record, falling back to the all-zero
// default for a pair that has never practiced. The default is not persisted
// here; the record is created lazily on the first answered question.
func (e *Engine) loadOrDefault(ctx context.Context, userID, skillID string) (*models.SkillProgress, error) {
	p, err := e.progress.Get(ctx, userID, skillID)
	if err != nil {
		return nil, &PersistenceError{Op: "get", Err: err}
	}
	if p == nil {
		p = models.NewSkillProgress(userID, skillID)
	}
	return p, nil
}

// StartSession initializes an adaptive session for a skill: it computes the
// target tier from the persisted SmartScore and fetches the first question.
// An empty question bank yields a completed result with ReasonNoQuestions,
// not an error, and never touches the progress record.
func (e *Engine) StartSession(ctx context.Context, userID, skillID string) (*StartResult, error) {
	if _, err := e.validSkill(ctx, skillID); err != nil {
		return nil, err
	}

	p, err := e.loadOrDefault(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}

	tier := difficulty.TargetTier(p.SmartScore)
	result := &StartResult{
		DifficultyTier: tier,
		SmartScore:     p.SmartScore,
		NextThreshold:  difficulty.NextThreshold(tier),
	}

	question, err := e.questions.FindByTiers(ctx, skillID, difficulty.SelectionPolicy(tier).Tiers())
	if err != nil {
		return nil, err
	}
	if question == nil {
		result.Completed = true
		result.Reason = ReasonNoQuestions
		return result, nil
	}

	result.Question = question
	return result, nil
}

// SubmitAnswer grades one answer and advances the session. The caller
// resolves the question by id before invoking; malformed answers are rejected
// before any state changes. Each call mutates cumulative counters, so the
// caller must ensure at-most-once submission per question.
func (e *Engine) SubmitAnswer(ctx context.Context, userID, skillID string, question *models.Question, selectedAnswer string, timeSpentSeconds int) (*SubmitResult, error) {
	if _, err := e.validSkill(ctx, skillID); err != nil {
		return nil, err
	}
	if !question.AcceptsAnswer(selectedAnswer) {
		return nil, ErrMalformedAnswer
	}

	lock := e.lockFor(userID, skillID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.loadOrDefault(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}

	correct := question.IsCorrect(selectedAnswer)
	delta := scoring.Delta(correct, question.DifficultyRating, p.CurrentStreak)
	newStreak := scoring.NextStreak(p.CurrentStreak, correct)

	p.SmartScore = scoring.Apply(p.SmartScore, delta)
	p.QuestionsAttempted++
	if correct {
		p.QuestionsCorrect++
	}
	p.CurrentStreak = newStreak
	if newStreak > p.BestStreak {
		p.BestStreak = newStreak
	}
	if timeSpentSeconds > 0 {
		p.TimeSpentSeconds += timeSpentSeconds
	}
	now := e.now()
	p.LastPracticedAt = now

	// Mastery is sticky: MasteredAt is set once and never cleared, even if
	// a later delta would drop the score below the ceiling.
	if scoring.Mastered(p.SmartScore) && !p.IsMastered {
		p.IsMastered = true
		p.MasteredAt = &now
	}

	if err := e.progress.Upsert(ctx, p); err != nil {
		return nil, &PersistenceError{Op: "upsert", Err: err}
	}

	result := &SubmitResult{
		Correct:       correct,
		PointsDelta:   delta,
		NewSmartScore: p.SmartScore,
		NewStreak:     p.CurrentStreak,
		BestStreak:    p.BestStreak,
		Mastered:      p.IsMastered,
	}

	if p.IsMastered {
		result.Completed = true
		result.Reason = ReasonMastered
		return result, nil
	}

	nextTier := difficulty.NextTierAfterAnswer(p.SmartScore, correct, p.CurrentStreak)
	next, err := e.questions.FindByTiers(ctx, skillID, difficulty.SelectionPolicy(nextTier).Tiers())
	if err != nil {
		return nil, err
	}
	if next == nil {
		result.Completed = true
		result.Reason = ReasonNoQuestions
		return result, nil
	}

	result.NextQuestion = next
	result.NextTier = nextTier
	return result, nil
}

// NextQuestion serves a question for the echoed answer state without grading
// anything: the tier derives from the persisted score plus the one-step
// regression rule. Used by clients polling for a fresh question mid-session.
func (e *Engine) NextQuestion(ctx context.Context, userID, skillID string, lastCorrect bool) (*models.Question, int, error) {
	if _, err := e.validSkill(ctx, skillID); err != nil {
		return nil, 0, err
	}

	p, err := e.loadOrDefault(ctx, userID, skillID)
	if err != nil {
		return nil, 0, err
	}

	tier := difficulty.NextTierAfterAnswer(p.SmartScore, lastCorrect, p.CurrentStreak)
	question, err := e.questions.FindByTiers(ctx, skillID, difficulty.SelectionPolicy(tier).Tiers())
	if err != nil {
		return nil, 0, err
	}
	return question, tier, nil
}

// CheckMastery re-derives the authoritative mastery flag from the persisted
// record. Idempotent read; a missing record is simply not mastered.
func (e *Engine) CheckMastery(ctx context.Context, userID, skillID string) (bool, error) {
	p, err := e.loadOrDefault(ctx, userID, skillID)
	if err != nil {
		return false, err
	}
	return p.IsMastered, nil
}

// Progress returns the progress snapshot, zero-valued when the pair has
// never practiced.
func (e *Engine) Progress(ctx context.Context, userID, skillID string) (*models.SkillProgress, error) {
	return e.loadOrDefault(ctx, userID, skillID)
}
