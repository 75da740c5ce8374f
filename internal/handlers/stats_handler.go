package handlers

import (
	"context"
	"net/http"

	"practice-service/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	Service *service.StatsService
}

func NewStatsHandler(s *service.StatsService) *StatsHandler {
	return &StatsHandler{Service: s}
}

// Summary returns the caller's aggregate practice statistics.
func (h *StatsHandler) Summary(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	summary, err := h.Service.Summary(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build summary",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Leaderboard returns the ranked top learners.
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	entries, err := h.Service.Leaderboard(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load leaderboard",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"count":       len(entries),
	})
}
