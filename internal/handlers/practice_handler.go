package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"practice-service/internal/adaptive"
	"practice-service/internal/models"
	"practice-service/internal/service"

	"github.com/gin-gonic/gin"
)

type PracticeHandler struct {
	Service *service.PracticeService
}

func NewPracticeHandler(s *service.PracticeService) *PracticeHandler {
	return &PracticeHandler{Service: s}
}

// respondError maps engine errors to HTTP statuses. Persistence failures are
// 503 with a retry hint; completed-session states never reach here because
// they are structured results, not errors.
func respondError(c *gin.Context, err error) {
	var perr *adaptive.PersistenceError
	switch {
	case errors.Is(err, adaptive.ErrInvalidSkill) || errors.Is(err, service.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, adaptive.ErrMalformedAnswer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &perr):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Temporary storage failure, please try again",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal error",
			"details": err.Error(),
		})
	}
}

// StartSession initializes an adaptive practice session for a skill.
func (h *PracticeHandler) StartSession(c *gin.Context) {
	skillID := c.Param("id")
	userID := c.GetHeader("X-User-ID")

	result, err := h.Service.StartSession(context.Background(), userID, skillID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitAnswer grades a submitted answer and returns the updated stats plus
// either the next question or a terminal state.
func (h *PracticeHandler) SubmitAnswer(c *gin.Context) {
	skillID := c.Param("id")
	userID := c.GetHeader("X-User-ID")

	var req struct {
		QuestionID       string `json:"question_id" binding:"required"`
		SelectedAnswer   string `json:"selected_answer" binding:"required"`
		TimeSpentSeconds int    `json:"time_spent_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid answer format",
			"details": err.Error(),
		})
		return
	}

	result, err := h.Service.SubmitAnswer(
		context.Background(),
		userID,
		skillID,
		req.QuestionID,
		req.SelectedAnswer,
		req.TimeSpentSeconds,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// NextQuestion serves a question for the learner's current state. lastCorrect
// mirrors the client's most recent grading outcome; the authoritative streak
// and score come from the stored progress record.
func (h *PracticeHandler) NextQuestion(c *gin.Context) {
	skillID := c.Param("id")
	userID := c.GetHeader("X-User-ID")
	lastCorrect := c.DefaultQuery("lastCorrect", "true") == "true"

	question, tier, err := h.Service.NextQuestion(context.Background(), userID, skillID, lastCorrect)
	if err != nil {
		respondError(c, err)
		return
	}
	if question == nil {
		c.JSON(http.StatusOK, gin.H{
			"question":         nil,
			"difficulty_level": tier,
			"message":          "No questions available",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question":         question,
		"difficulty_level": tier,
	})
}

// AdaptiveQuestions returns a policy-ordered batch for the practice screen.
func (h *PracticeHandler) AdaptiveQuestions(c *gin.Context) {
	skillID := c.Param("id")
	userID := c.GetHeader("X-User-ID")

	questions, state, err := h.Service.AdaptiveBatch(context.Background(), userID, skillID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"questions":                 questions,
		"current_difficulty":        state.DifficultyTier,
		"current_smart_score":       state.SmartScore,
		"next_difficulty_threshold": state.NextThreshold,
	})
}

// MasteryStatus returns the authoritative flag with the attempt-derived
// top-tier statistic next to it.
func (h *PracticeHandler) MasteryStatus(c *gin.Context) {
	skillID := c.Param("id")
	userID := c.GetHeader("X-User-ID")

	mastered, stats, err := h.Service.MasteryStatus(context.Background(), userID, skillID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mastered": mastered,
		"stats":    stats,
	})
}

// GetProgress returns the skill progress snapshot, zero-valued defaults when
// the learner has never practiced the skill.
func (h *PracticeHandler) GetProgress(c *gin.Context) {
	skillID := c.Param("id")
	userID := c.GetHeader("X-User-ID")

	progress, err := h.Service.Progress(context.Background(), userID, skillID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// ListUserProgress returns every progress row for a user.
func (h *PracticeHandler) ListUserProgress(c *gin.Context) {
	userID := c.Param("id")

	records, err := h.Service.UserProgress(context.Background(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"progress": records,
		"count":    len(records),
	})
}

// ListSessions returns the caller's most recent practice runs.
func (h *PracticeHandler) ListSessions(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	sessions, err := h.Service.RecentSessions(context.Background(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// RecordSession stores a completed practice run's summary.
func (h *PracticeHandler) RecordSession(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	var req struct {
		SkillID            string `json:"skill_id" binding:"required"`
		QuestionsAttempted int    `json:"questions_attempted"`
		QuestionsCorrect   int    `json:"questions_correct"`
		FinalScore         int    `json:"final_score"`
		TimeSpentSeconds   int    `json:"time_spent_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := &models.PracticeSession{
		UserID:             userID,
		SkillID:            req.SkillID,
		QuestionsAttempted: req.QuestionsAttempted,
		QuestionsCorrect:   req.QuestionsCorrect,
		FinalScore:         req.FinalScore,
		TimeSpentSeconds:   req.TimeSpentSeconds,
		EndTime:            time.Now().UTC(),
	}
	if err := h.Service.RecordSession(context.Background(), session); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"session_id": session.ID,
	})
}
