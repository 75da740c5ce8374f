package repository

import (
	"context"
	"errors"

	"practice-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

// findOneAtTier picks one random active question at an exact tier, nil when
// the skill has no content there.
func (r *QuestionRepository) findOneAtTier(ctx context.Context, skillID string, tier int) (*models.Question, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"skill_id": skillID, "is_active": true, "difficulty_rating": tier}},
		{"$sample": bson.M{"size": 1}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		return &q, nil
	}
	return nil, cur.Err()
}

// FindByTiers tries each tier in order and returns the first hit. A fully
// empty bank returns nil with no error; the engine treats that as a terminal
// session state, not a failure.
func (r *QuestionRepository) FindByTiers(ctx context.Context, skillID string, tiers []int) (*models.Question, error) {
	for _, tier := range tiers {
		q, err := r.findOneAtTier(ctx, skillID, tier)
		if err != nil {
			return nil, err
		}
		if q != nil {
			return q, nil
		}
	}
	return nil, nil
}

// FindBatchByTiers gathers up to limit questions following the tier order,
// exact tier first then the fallbacks. Backs the adaptive-questions batch
// endpoint.
func (r *QuestionRepository) FindBatchByTiers(ctx context.Context, skillID string, tiers []int, limit int) ([]models.Question, error) {
	var batch []models.Question
	for _, tier := range tiers {
		remaining := limit - len(batch)
		if remaining <= 0 {
			break
		}
		pipeline := []bson.M{
			{"$match": bson.M{"skill_id": skillID, "is_active": true, "difficulty_rating": tier}},
			{"$sample": bson.M{"size": remaining}},
		}
		cur, err := r.Col.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, err
		}
		for cur.Next(ctx) {
			var q models.Question
			if err := cur.Decode(&q); err != nil {
				cur.Close(ctx)
				return nil, err
			}
			batch = append(batch, q)
		}
		if err := cur.Err(); err != nil {
			cur.Close(ctx)
			return nil, err
		}
		cur.Close(ctx)
	}
	return batch, nil
}

// CountActive returns the number of active questions for a skill, optionally
// restricted to a tier (tier 0 means all tiers).
func (r *QuestionRepository) CountActive(ctx context.Context, skillID string, tier int) (int64, error) {
	filter := bson.M{"skill_id": skillID, "is_active": true}
	if tier > 0 {
		filter["difficulty_rating"] = tier
	}
	return r.Col.CountDocuments(ctx, filter)
}
