package service

import (
	"context"

	"practice-service/internal/models"
	"practice-service/internal/repository"
)

type SkillService struct {
	Repo *repository.SkillRepository
}

func NewSkillService(repo *repository.SkillRepository) *SkillService {
	return &SkillService{Repo: repo}
}

// GetActiveSkills returns every active skill in catalog order.
func (s *SkillService) GetActiveSkills(ctx context.Context) ([]models.Skill, error) {
	return s.Repo.FindActive(ctx)
}

func (s *SkillService) GetSkillByID(ctx context.Context, id string) (*models.Skill, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *SkillService) GetSkillsByTopic(ctx context.Context, topicID string) ([]models.Skill, error) {
	return s.Repo.FindByTopic(ctx, topicID)
}
