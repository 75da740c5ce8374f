package repository

import (
	"context"

	"practice-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("practice_sessions")}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.PracticeSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	_, err := r.Col.InsertOne(ctx, session)
	return err
}

func (r *SessionRepository) FindByUser(ctx context.Context, userID string, limit int) ([]models.PracticeSession, error) {
	cur, err := r.Col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "end_time", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sessions []models.PracticeSession
	for cur.Next(ctx) {
		var s models.PracticeSession
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
