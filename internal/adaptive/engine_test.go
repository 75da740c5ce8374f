package adaptive

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"practice-service/internal/models"
)

// In-memory doubles for the engine's collaborator interfaces.

type memProgressStore struct {
	mu         sync.Mutex
	records    map[string]*models.SkillProgress
	failGet    bool
	failUpsert bool
}

func newMemProgressStore() *memProgressStore {
	return &memProgressStore{records: make(map[string]*models.SkillProgress)}
}

func progressKey(userID, skillID string) string {
	return userID + "/" + skillID
}

func (m *memProgressStore) Get(_ context.Context, userID, skillID string) (*models.SkillProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("store down")
	}
	p, ok := m.records[progressKey(userID, skillID)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// Upsert mirrors the Mongo store's contract: compare-and-set on Version.
func (m *memProgressStore) Upsert(_ context.Context, p *models.SkillProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert {
		return errors.New("store down")
	}
	key := progressKey(p.UserID, p.SkillID)
	stored, exists := m.records[key]
	if p.Version == 0 {
		if exists {
			return errors.New("version conflict")
		}
		p.Version = 1
	} else {
		if !exists || stored.Version != p.Version {
			return errors.New("version conflict")
		}
		p.Version++
	}
	cp := *p
	m.records[key] = &cp
	return nil
}

func (m *memProgressStore) record(userID, skillID string) *models.SkillProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[progressKey(userID, skillID)]
}

func (m *memProgressStore) seed(p *models.SkillProgress) {
	if p.Version == 0 {
		p.Version = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[progressKey(p.UserID, p.SkillID)] = p
}

type memQuestionSource struct {
	byTier map[int][]*models.Question
}

func (m *memQuestionSource) FindByTiers(_ context.Context, _ string, tiers []int) (*models.Question, error) {
	for _, tier := range tiers {
		if qs := m.byTier[tier]; len(qs) > 0 {
			return qs[0], nil
		}
	}
	return nil, nil
}

type memSkillSource struct {
	skills map[string]*models.Skill
}

func (m *memSkillSource) FindByID(_ context.Context, id string) (*models.Skill, error) {
	return m.skills[id], nil
}

// Fixture helpers.

func activeSkill(id string) *models.Skill {
	return &models.Skill{ID: id, Name: "Ohm's law", IsActive: true, MasteryThreshold: 80}
}

func tierQuestion(id string, tier int) *models.Question {
	return &models.Question{
		ID:               id,
		SkillID:          "skill-1",
		QuestionType:     models.QuestionMultipleChoice,
		Options:          []string{"right", "wrong"},
		CorrectAnswer:    "right",
		DifficultyRating: tier,
		IsActive:         true,
	}
}

func newTestEngine(store *memProgressStore, questions *memQuestionSource) *Engine {
	skills := &memSkillSource{skills: map[string]*models.Skill{"skill-1": activeSkill("skill-1")}}
	return NewEngine(store, questions, skills)
}

func allTiersSource() *memQuestionSource {
	byTier := make(map[int][]*models.Question)
	for tier := 1; tier <= 5; tier++ {
		byTier[tier] = []*models.Question{tierQuestion(fmt.Sprintf("q%d", tier), tier)}
	}
	return &memQuestionSource{byTier: byTier}
}

// Tests.

func TestStartSessionFreshSkill(t *testing.T) {
	store := newMemProgressStore()
	engine := newTestEngine(store, allTiersSource())

	result, err := engine.StartSession(context.Background(), "user-1", "skill-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Completed {
		t.Fatal("fresh skill with questions must not be completed")
	}
	if result.DifficultyTier != 1 {
		t.Errorf("Expected tier 1 for score 0, got %d", result.DifficultyTier)
	}
	if result.Question == nil || result.Question.DifficultyRating != 1 {
		t.Errorf("Expected a tier 1 question, got %+v", result.Question)
	}
	if result.SmartScore != 0 {
		t.Errorf("Expected score 0, got %d", result.SmartScore)
	}
}

func TestStartSessionEmptyBankNeverWritesProgress(t *testing.T) {
	store := newMemProgressStore()
	engine := newTestEngine(store, &memQuestionSource{byTier: map[int][]*models.Question{}})

	result, err := engine.StartSession(context.Background(), "user-1", "skill-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Completed || result.Reason != ReasonNoQuestions {
		t.Errorf("Expected completed/no_questions, got %+v", result)
	}
	if store.record("user-1", "skill-1") != nil {
		t.Error("empty bank at init must not create a progress record")
	}
}

func TestStartSessionInvalidSkill(t *testing.T) {
	engine := NewEngine(newMemProgressStore(), allTiersSource(), &memSkillSource{skills: map[string]*models.Skill{
		"inactive": {ID: "inactive", IsActive: false},
	}})

	if _, err := engine.StartSession(context.Background(), "user-1", "missing"); !errors.Is(err, ErrInvalidSkill) {
		t.Errorf("missing skill: expected ErrInvalidSkill, got %v", err)
	}
	if _, err := engine.StartSession(context.Background(), "user-1", "inactive"); !errors.Is(err, ErrInvalidSkill) {
		t.Errorf("inactive skill: expected ErrInvalidSkill, got %v", err)
	}
}

func TestSubmitAnswerFreshCorrect(t *testing.T) {
	store := newMemProgressStore()
	engine := newTestEngine(store, allTiersSource())

	result, err := engine.SubmitAnswer(context.Background(), "user-1", "skill-1", tierQuestion("q1", 1), "right", 30)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Correct {
		t.Error("Expected correct grading")
	}
	if result.NewSmartScore != 4 {
		t.Errorf("Expected score 4 (base 4, no streak bonus), got %d", result.NewSmartScore)
	}
	if result.NewStreak != 1 || result.BestStreak != 1 {
		t.Errorf("Expected streak 1/1, got %d/%d", result.NewStreak, result.BestStreak)
	}
	if result.NextTier != 1 {
		t.Errorf("Expected to stay at tier 1, got %d", result.NextTier)
	}

	p := store.record("user-1", "skill-1")
	if p == nil {
		t.Fatal("progress record must be created lazily on first answer")
	}
	if p.QuestionsAttempted != 1 || p.QuestionsCorrect != 1 {
		t.Errorf("Expected counters 1/1, got %d/%d", p.QuestionsAttempted, p.QuestionsCorrect)
	}
	if p.LastPracticedAt.IsZero() {
		t.Error("LastPracticedAt must be set")
	}
	if p.TimeSpentSeconds != 30 {
		t.Errorf("Expected 30s recorded, got %d", p.TimeSpentSeconds)
	}
}

func TestSubmitAnswerStreakBonusCrossesTierBoundary(t *testing.T) {
	store := newMemProgressStore()
	store.seed(&models.SkillProgress{
		UserID: "user-1", SkillID: "skill-1",
		SmartScore: 58, CurrentStreak: 3, BestStreak: 3,
		QuestionsAttempted: 10, QuestionsCorrect: 8,
	})
	engine := newTestEngine(store, allTiersSource())

	result, err := engine.SubmitAnswer(context.Background(), "user-1", "skill-1", tierQuestion("q1", 1), "right", 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// 58 + (4 + 1.5) = 63.5, rounds up to 64, which crosses into tier 2.
	if result.NewSmartScore != 64 {
		t.Errorf("Expected score 64, got %d", result.NewSmartScore)
	}
	if math.Abs(result.PointsDelta-5.5) > 0.001 {
		t.Errorf("Expected delta 5.5, got %v", result.PointsDelta)
	}
	if result.NextTier != 2 {
		t.Errorf("Expected tier jump to 2, got %d", result.NextTier)
	}
	if result.NewStreak != 4 {
		t.Errorf("Expected streak 4, got %d", result.NewStreak)
	}
}

func TestSubmitAnswerMissStepsDownOneTier(t *testing.T) {
	store := newMemProgressStore()
	store.seed(&models.SkillProgress{
		UserID: "user-1", SkillID: "skill-1",
		SmartScore: 65, CurrentStreak: 4, BestStreak: 4,
		QuestionsAttempted: 12, QuestionsCorrect: 10,
	})
	engine := newTestEngine(store, allTiersSource())

	result, err := engine.SubmitAnswer(context.Background(), "user-1", "skill-1", tierQuestion("q2", 2), "wrong", 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Correct {
		t.Error("Expected incorrect grading")
	}
	if result.NewSmartScore != 61 {
		t.Errorf("Expected score 61 (65 - 4), got %d", result.NewSmartScore)
	}
	if result.NewStreak != 0 {
		t.Errorf("Streak must reset to 0, got %d", result.NewStreak)
	}
	if result.BestStreak != 4 {
		t.Errorf("Best streak must survive the miss, got %d", result.BestStreak)
	}
	// Base tier for 61 is 2; the reset streak triggers the one-step regression.
	if result.NextTier != 1 {
		t.Errorf("Expected regression to tier 1, got %d", result.NextTier)
	}
}

func TestSubmitAnswerReachesMastery(t *testing.T) {
	store := newMemProgressStore()
	store.seed(&models.SkillProgress{
		UserID: "user-1", SkillID: "skill-1",
		SmartScore: 95, CurrentStreak: 2, BestStreak: 6,
		QuestionsAttempted: 40, QuestionsCorrect: 33,
	})
	engine := newTestEngine(store, allTiersSource())

	result, err := engine.SubmitAnswer(context.Background(), "user-1", "skill-1", tierQuestion("q5", 5), "right", 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.NewSmartScore != 100 {
		t.Errorf("Expected clamped score 100, got %d", result.NewSmartScore)
	}
	if !result.Mastered || !result.Completed || result.Reason != ReasonMastered {
		t.Errorf("Expected completed/mastered, got %+v", result)
	}
	if result.NextQuestion != nil {
		t.Error("Mastered session must not serve another question")
	}

	p := store.record("user-1", "skill-1")
	if !p.IsMastered || p.MasteredAt == nil {
		t.Error("MasteredAt must be set when the ceiling is hit")
	}
}

func TestMasteryIsSticky(t *testing.T) {
	store := newMemProgressStore()
	store.seed(&models.SkillProgress{
		UserID: "user-1", SkillID: "skill-1",
		SmartScore: 95, CurrentStreak: 2, BestStreak: 6,
		QuestionsAttempted: 40, QuestionsCorrect: 33,
	})
	engine := newTestEngine(store, allTiersSource())

	if _, err := engine.SubmitAnswer(context.Background(), "user-1", "skill-1", tierQuestion("q5", 5), "right", 0); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	masteredAt := store.record("user-1", "skill-1").MasteredAt
	if masteredAt == nil {
		t.Fatal("expected MasteredAt set")
	}

	// A later miss drops the score below the ceiling, but the mastery flag
	// and timestamp never move.
	result, err := engine.SubmitAnswer(context.Background(), "user-1", "skill-1", tierQuestion("q5", 5), "wrong", 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.NewSmartScore != 99 {
		t.Errorf("Expected score 99 after tier-5 miss, got %d", result.NewSmartScore)
	}
	if !result.Mastered {
		t.Error("Mastery must not be revoked by score regression")
	}

	p := store.record("user-1", "skill-1")
	if !p.IsMastered {
		t.Error("IsMastered must stay true")
	}
	if p.MasteredAt == nil || !p.MasteredAt.Equal(*masteredAt) {
		t.Error("MasteredAt must not change after the first mastery")
	}
}

func TestMalformedAnswerRejectedBeforeMutation(t *testing.T) {
	store := newMemProgressStore()
	engine := newTestEngine(store, allTiersSource())

	_, err := engine.SubmitAnswer(context.Background(), "user-1", "skill-1", tierQuestion("q1", 1), "not-an-option", 0)
	if !errors.Is(err, ErrMalformedAnswer) {
		t.Fatalf("Expected ErrMalformedAnswer, got %v", err)
	}
	if store.record("user-1", "skill-1") != nil {
		t.Error("rejected input must not create or mutate progress")
	}
}

func TestSubmitAnswerEmptyBankCompletes(t *testing.T) {
	store := newMemProgressStore()
	engine := newTestEngine(store, &memQuestionSource{byTier: map[int][]*models.Question{}})

	result, err := engine.SubmitAnswer(context.Background(), "user-1", "skill-1", tierQuestion("q1", 1), "right", 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Completed || result.Reason != ReasonNoQuestions {
		t.Errorf("Expected completed/no_questions, got %+v", result)
	}
	// The graded answer itself still counts.
	if p := store.record("user-1", "skill-1"); p == nil || p.QuestionsAttempted != 1 {
		t.Error("the answered question must still be recorded")
	}
}

func TestCountersStayMonotonic(t *testing.T) {
	store := newMemProgressStore()
	engine := newTestEngine(store, allTiersSource())

	answers := []string{"right", "right", "wrong", "right", "wrong", "wrong", "right"}
	prevAttempted, prevCorrect := 0, 0
	for i, answer := range answers {
		result, err := engine.SubmitAnswer(context.Background(), "user-1", "skill-1", tierQuestion("q1", 1), answer, 0)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		p := store.record("user-1", "skill-1")
		if p.QuestionsAttempted != prevAttempted+1 {
			t.Fatalf("step %d: attempted %d, want %d", i, p.QuestionsAttempted, prevAttempted+1)
		}
		if p.QuestionsCorrect < prevCorrect || p.QuestionsCorrect > p.QuestionsAttempted {
			t.Fatalf("step %d: correct %d violates monotonic bounds", i, p.QuestionsCorrect)
		}
		if p.CurrentStreak > p.BestStreak {
			t.Fatalf("step %d: current streak %d exceeds best %d", i, p.CurrentStreak, p.BestStreak)
		}
		if answer == "wrong" && result.NewStreak != 0 {
			t.Fatalf("step %d: streak must reset on a miss", i)
		}
		prevAttempted = p.QuestionsAttempted
		prevCorrect = p.QuestionsCorrect
	}

	p := store.record("user-1", "skill-1")
	if p.BestStreak != 2 {
		t.Errorf("Expected best streak 2 from the opening run, got %d", p.BestStreak)
	}
}

func TestPersistenceErrorSurfaced(t *testing.T) {
	t.Run("write failure", func(t *testing.T) {
		store := newMemProgressStore()
		store.failUpsert = true
		engine := newTestEngine(store, allTiersSource())

		_, err := engine.SubmitAnswer(context.Background(), "user-1", "skill-1", tierQuestion("q1", 1), "right", 0)
		var perr *PersistenceError
		if !errors.As(err, &perr) {
			t.Fatalf("Expected PersistenceError, got %v", err)
		}
		if perr.Op != "upsert" {
			t.Errorf("Expected op upsert, got %q", perr.Op)
		}
	})

	t.Run("read failure", func(t *testing.T) {
		store := newMemProgressStore()
		store.failGet = true
		engine := newTestEngine(store, allTiersSource())

		_, err := engine.StartSession(context.Background(), "user-1", "skill-1")
		var perr *PersistenceError
		if !errors.As(err, &perr) {
			t.Fatalf("Expected PersistenceError, got %v", err)
		}
		if perr.Op != "get" {
			t.Errorf("Expected op get, got %q", perr.Op)
		}
	})
}

func TestConcurrentSubmissionsDoNotLoseUpdates(t *testing.T) {
	store := newMemProgressStore()
	engine := newTestEngine(store, allTiersSource())

	const workers = 25
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.SubmitAnswer(context.Background(), "user-1", "skill-1", tierQuestion("q1", 1), "right", 0)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent submit failed: %v", err)
		}
	}

	p := store.record("user-1", "skill-1")
	if p.QuestionsAttempted != workers {
		t.Errorf("Expected %d attempts recorded, got %d (lost updates)", workers, p.QuestionsAttempted)
	}
}

func TestCheckMasteryAndProgressDefaults(t *testing.T) {
	store := newMemProgressStore()
	engine := newTestEngine(store, allTiersSource())

	mastered, err := engine.CheckMastery(context.Background(), "user-1", "skill-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if mastered {
		t.Error("never-practiced skill must not read mastered")
	}

	p, err := engine.Progress(context.Background(), "user-1", "skill-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.SmartScore != 0 || p.QuestionsAttempted != 0 || p.IsMastered {
		t.Errorf("Expected zero-valued default snapshot, got %+v", p)
	}
}

func TestNextQuestionUsesRegressionRule(t *testing.T) {
	store := newMemProgressStore()
	store.seed(&models.SkillProgress{
		UserID: "user-1", SkillID: "skill-1",
		SmartScore: 72, CurrentStreak: 0,
		QuestionsAttempted: 20, QuestionsCorrect: 14,
	})
	engine := newTestEngine(store, allTiersSource())

	// Score 72 targets tier 3; a miss with the streak at zero serves tier 2.
	question, tier, err := engine.NextQuestion(context.Background(), "user-1", "skill-1", false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tier != 2 {
		t.Errorf("Expected tier 2 after regression, got %d", tier)
	}
	if question == nil || question.DifficultyRating != 2 {
		t.Errorf("Expected a tier 2 question, got %+v", question)
	}
}
