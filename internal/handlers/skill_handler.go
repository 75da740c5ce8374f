package handlers

import (
	"context"
	"net/http"

	"practice-service/internal/service"

	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	Service *service.SkillService
}

func NewSkillHandler(service *service.SkillService) *SkillHandler {
	return &SkillHandler{Service: service}
}

// GetAllSkills returns all active skills
func (h *SkillHandler) GetAllSkills(c *gin.Context) {
	skills, err := h.Service.GetActiveSkills(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

// GetSkillByID returns a specific skill
func (h *SkillHandler) GetSkillByID(c *gin.Context) {
	id := c.Param("id")
	skill, err := h.Service.GetSkillByID(context.Background(), id)
	if err != nil || skill == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not found"})
		return
	}
	c.JSON(http.StatusOK, skill)
}

// GetSkillsByTopic returns skills under a topic
func (h *SkillHandler) GetSkillsByTopic(c *gin.Context) {
	topicID := c.Param("topicId")
	skills, err := h.Service.GetSkillsByTopic(context.Background(), topicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}
