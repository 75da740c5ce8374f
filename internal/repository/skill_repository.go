package repository

import (
	"context"
	"errors"

	"practice-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SkillRepository struct {
	Col *mongo.Collection
}

func NewSkillRepository(db *mongo.Database) *SkillRepository {
	return &SkillRepository{Col: db.Collection("skills")}
}

func (r *SkillRepository) FindByID(ctx context.Context, id string) (*models.Skill, error) {
	var skill models.Skill
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&skill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &skill, nil
}

func (r *SkillRepository) FindActive(ctx context.Context) ([]models.Skill, error) {
	return r.find(ctx, bson.M{"is_active": true})
}

func (r *SkillRepository) FindByTopic(ctx context.Context, topicID string) ([]models.Skill, error) {
	return r.find(ctx, bson.M{"topic_id": topicID, "is_active": true})
}

func (r *SkillRepository) find(ctx context.Context, filter bson.M) ([]models.Skill, error) {
	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var skills []models.Skill
	for cur.Next(ctx) {
		var skill models.Skill
		if err := cur.Decode(&skill); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, nil
}
