package repository

import (
	"context"

	"practice-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{Col: db.Collection("question_attempts")}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *models.QuestionAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	_, err := r.Col.InsertOne(ctx, attempt)
	return err
}

// CountCorrectAtTier counts a user's correct attempts at a difficulty tier
// for one skill. Feeds the informational top-tier mastery statistic.
func (r *AttemptRepository) CountCorrectAtTier(ctx context.Context, userID, skillID string, tier int) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{
		"user_id":           userID,
		"skill_id":          skillID,
		"difficulty_rating": tier,
		"is_correct":        true,
	})
}

func (r *AttemptRepository) FindByUserAndSkill(ctx context.Context, userID, skillID string) ([]models.QuestionAttempt, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID, "skill_id": skillID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var attempts []models.QuestionAttempt
	for cur.Next(ctx) {
		var a models.QuestionAttempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}
