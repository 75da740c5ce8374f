package service

import (
	"context"
	"errors"
	"time"

	"practice-service/internal/adaptive"
	"practice-service/internal/difficulty"
	"practice-service/internal/models"
	"practice-service/internal/repository"
)

// ErrQuestionNotFound means the submitted question id does not resolve to an
// active question of the practiced skill.
var ErrQuestionNotFound = errors.New("question not found for skill")

// requiredTopTierCorrect is the attempt-derived statistic's target: correct
// answers needed at tier 5 before the informational check reads complete.
const requiredTopTierCorrect = 3

// adaptiveBatchSize caps the adaptive-questions preview batch.
const adaptiveBatchSize = 20

// EventPublisher is the slice of the AMQP publisher the service uses.
type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// PracticeService fronts the adaptive engine: it resolves questions, records
// attempt history, and emits practice domain events.
type PracticeService struct {
	Engine       *adaptive.Engine
	QuestionRepo *repository.QuestionRepository
	AttemptRepo  *repository.AttemptRepository
	SessionRepo  *repository.SessionRepository
	ProgressRepo *repository.ProgressRepository
	publisher    EventPublisher
}

func NewPracticeService(
	engine *adaptive.Engine,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	sessionRepo *repository.SessionRepository,
	progressRepo *repository.ProgressRepository,
	publisher EventPublisher,
) *PracticeService {
	return &PracticeService{
		Engine:       engine,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
		SessionRepo:  sessionRepo,
		ProgressRepo: progressRepo,
		publisher:    publisher,
	}
}

func (s *PracticeService) publish(eventType string, payload interface{}) {
	if s.publisher != nil {
		_ = s.publisher.Publish(eventType, payload)
	}
}

// StartSession initializes an adaptive session for the skill.
func (s *PracticeService) StartSession(ctx context.Context, userID, skillID string) (*adaptive.StartResult, error) {
	result, err := s.Engine.StartSession(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}
	s.publish("practice.session.started", map[string]interface{}{
		"user_id":  userID,
		"skill_id": skillID,
		"tier":     result.DifficultyTier,
	})
	return result, nil
}

// SubmitAnswer resolves the answered question, grades it through the engine,
// and appends the attempt record. Attempt recording is best effort and never
// blocks the adaptive result.
func (s *PracticeService) SubmitAnswer(ctx context.Context, userID, skillID, questionID, selectedAnswer string, timeSpentSeconds int) (*adaptive.SubmitResult, error) {
	question, err := s.QuestionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil || question.SkillID != skillID || !question.IsActive {
		return nil, ErrQuestionNotFound
	}

	result, err := s.Engine.SubmitAnswer(ctx, userID, skillID, question, selectedAnswer, timeSpentSeconds)
	if err != nil {
		return nil, err
	}

	_ = s.AttemptRepo.Create(ctx, &models.QuestionAttempt{
		UserID:           userID,
		SkillID:          skillID,
		QuestionID:       question.ID,
		UserAnswer:       selectedAnswer,
		IsCorrect:        result.Correct,
		DifficultyRating: question.DifficultyRating,
		PointsDelta:      result.PointsDelta,
		TimeSpentSeconds: timeSpentSeconds,
		AnsweredAt:       time.Now().UTC(),
	})

	s.publish("practice.answer.submitted", map[string]interface{}{
		"user_id":     userID,
		"skill_id":    skillID,
		"question_id": question.ID,
		"correct":     result.Correct,
		"smart_score": result.NewSmartScore,
	})
	if result.Mastered {
		s.publish("practice.skill.mastered", map[string]interface{}{
			"user_id":     userID,
			"skill_id":    skillID,
			"smart_score": result.NewSmartScore,
		})
	}

	return result, nil
}

// NextQuestion serves a fresh question for the learner's current state
// without grading anything.
func (s *PracticeService) NextQuestion(ctx context.Context, userID, skillID string, lastCorrect bool) (*models.Question, int, error) {
	return s.Engine.NextQuestion(ctx, userID, skillID, lastCorrect)
}

// MasteryStatus returns the authoritative score-derived flag alongside the
// attempt-derived top-tier statistic. The statistic is informational and
// never overrides the flag.
func (s *PracticeService) MasteryStatus(ctx context.Context, userID, skillID string) (bool, *models.MasteryStats, error) {
	mastered, err := s.Engine.CheckMastery(ctx, userID, skillID)
	if err != nil {
		return false, nil, err
	}

	total, err := s.QuestionRepo.CountActive(ctx, skillID, 0)
	if err != nil {
		return false, nil, err
	}
	topTier, err := s.QuestionRepo.CountActive(ctx, skillID, difficulty.MaxTier)
	if err != nil {
		return false, nil, err
	}
	correctTopTier, err := s.AttemptRepo.CountCorrectAtTier(ctx, userID, skillID, difficulty.MaxTier)
	if err != nil {
		return false, nil, err
	}

	return mastered, &models.MasteryStats{
		TotalQuestions:     int(total),
		TopTierQuestions:   int(topTier),
		CorrectAtTopTier:   int(correctTopTier),
		RequiredForMastery: requiredTopTierCorrect,
	}, nil
}

// AdaptiveBatch returns a policy-ordered question batch plus the tier context
// the client needs to render the practice screen.
func (s *PracticeService) AdaptiveBatch(ctx context.Context, userID, skillID string) ([]models.Question, *adaptive.StartResult, error) {
	progress, err := s.Engine.Progress(ctx, userID, skillID)
	if err != nil {
		return nil, nil, err
	}

	tier := difficulty.TargetTier(progress.SmartScore)
	questions, err := s.QuestionRepo.FindBatchByTiers(ctx, skillID, difficulty.SelectionPolicy(tier).Tiers(), adaptiveBatchSize)
	if err != nil {
		return nil, nil, err
	}

	return questions, &adaptive.StartResult{
		DifficultyTier: tier,
		SmartScore:     progress.SmartScore,
		NextThreshold:  difficulty.NextThreshold(tier),
	}, nil
}

// Progress returns the per-(user, skill) snapshot, zero-valued when absent.
func (s *PracticeService) Progress(ctx context.Context, userID, skillID string) (*models.SkillProgress, error) {
	return s.Engine.Progress(ctx, userID, skillID)
}

// UserProgress lists every progress row a learner holds.
func (s *PracticeService) UserProgress(ctx context.Context, userID string) ([]models.SkillProgress, error) {
	return s.ProgressRepo.FindByUser(ctx, userID)
}

// RecentSessions lists a learner's latest completed practice runs.
func (s *PracticeService) RecentSessions(ctx context.Context, userID string, limit int) ([]models.PracticeSession, error) {
	return s.SessionRepo.FindByUser(ctx, userID, limit)
}

// RecordSession persists a completed practice run's summary row.
func (s *PracticeService) RecordSession(ctx context.Context, session *models.PracticeSession) error {
	session.IsCompleted = true
	if session.EndTime.IsZero() {
		session.EndTime = time.Now().UTC()
	}
	if session.StartTime.IsZero() {
		session.StartTime = session.EndTime
	}
	return s.SessionRepo.Create(ctx, session)
}
