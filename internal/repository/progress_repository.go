package repository

import (
	"context"
	"errors"
	"time"

	"practice-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrVersionConflict means another writer updated the progress record between
// this caller's read and write. The submission should be retried from the
// read.
var ErrVersionConflict = errors.New("skill progress version conflict")

type ProgressRepository struct {
	Col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{Col: db.Collection("skill_progress")}
}

// EnsureIndexes creates the unique (user_id, skill_id) index the versioned
// upsert relies on.
func (r *ProgressRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "skill_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *ProgressRepository) Get(ctx context.Context, userID, skillID string) (*models.SkillProgress, error) {
	var p models.SkillProgress
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "skill_id": skillID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Upsert writes a progress record with a compare-and-set on Version. A fresh
// record (Version 0) is inserted; an existing one is only updated when the
// stored version still matches the one the caller read, so concurrent
// read-modify-write cycles cannot silently lose an update.
func (r *ProgressRepository) Upsert(ctx context.Context, p *models.SkillProgress) error {
	now := time.Now().UTC()
	p.UpdatedAt = now

	if p.Version == 0 {
		p.ID = uuid.NewString()
		p.CreatedAt = now
		p.Version = 1
		_, err := r.Col.InsertOne(ctx, p)
		if mongo.IsDuplicateKeyError(err) {
			return ErrVersionConflict
		}
		return err
	}

	readVersion := p.Version
	p.Version++
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"user_id": p.UserID, "skill_id": p.SkillID, "version": readVersion},
		bson.M{"$set": bson.M{
			"smart_score":         p.SmartScore,
			"questions_attempted": p.QuestionsAttempted,
			"questions_correct":   p.QuestionsCorrect,
			"current_streak":      p.CurrentStreak,
			"best_streak":         p.BestStreak,
			"time_spent_seconds":  p.TimeSpentSeconds,
			"is_mastered":         p.IsMastered,
			"mastered_at":         p.MasteredAt,
			"last_practiced_at":   p.LastPracticedAt,
			"version":             p.Version,
			"updated_at":          p.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *ProgressRepository) FindByUser(ctx context.Context, userID string) ([]models.SkillProgress, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var records []models.SkillProgress
	for cur.Next(ctx) {
		var p models.SkillProgress
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, nil
}

// UserSummary aggregates one learner's progress rows into the analytics
// summary shape.
func (r *ProgressRepository) UserSummary(ctx context.Context, userID string) (*models.UserSummary, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"user_id": userID}},
		{"$group": bson.M{
			"_id":              nil,
			"skills_practiced": bson.M{"$sum": 1},
			"skills_mastered": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$is_mastered", 1, 0},
			}},
			"questions_answered":  bson.M{"$sum": "$questions_attempted"},
			"questions_correct":   bson.M{"$sum": "$questions_correct"},
			"average_smart_score": bson.M{"$avg": "$smart_score"},
			"best_streak":         bson.M{"$max": "$best_streak"},
			"time_spent_seconds":  bson.M{"$sum": "$time_spent_seconds"},
		}},
	}

	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	summary := &models.UserSummary{UserID: userID}
	if cur.Next(ctx) {
		var row struct {
			SkillsPracticed   int     `bson:"skills_practiced"`
			SkillsMastered    int     `bson:"skills_mastered"`
			QuestionsAnswered int     `bson:"questions_answered"`
			QuestionsCorrect  int     `bson:"questions_correct"`
			AverageSmartScore float64 `bson:"average_smart_score"`
			BestStreak        int     `bson:"best_streak"`
			TimeSpentSeconds  int     `bson:"time_spent_seconds"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		summary.SkillsPracticed = row.SkillsPracticed
		summary.SkillsMastered = row.SkillsMastered
		summary.QuestionsAnswered = row.QuestionsAnswered
		summary.QuestionsCorrect = row.QuestionsCorrect
		summary.AverageSmartScore = int(row.AverageSmartScore + 0.5)
		summary.BestStreak = row.BestStreak
		summary.TimeSpentSeconds = row.TimeSpentSeconds
	}
	return summary, nil
}

// Leaderboard ranks users by total SmartScore across all skills.
func (r *ProgressRepository) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":         "$user_id",
			"total_score": bson.M{"$sum": "$smart_score"},
			"skills_mastered": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$is_mastered", 1, 0},
			}},
			"questions_answered": bson.M{"$sum": "$questions_attempted"},
		}},
		{"$sort": bson.M{"total_score": -1, "questions_answered": -1}},
		{"$limit": limit},
	}

	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.LeaderboardEntry
	rank := 1
	for cur.Next(ctx) {
		var row struct {
			UserID            string `bson:"_id"`
			TotalScore        int    `bson:"total_score"`
			SkillsMastered    int    `bson:"skills_mastered"`
			QuestionsAnswered int    `bson:"questions_answered"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:              rank,
			UserID:            row.UserID,
			TotalScore:        row.TotalScore,
			SkillsMastered:    row.SkillsMastered,
			QuestionsAnswered: row.QuestionsAnswered,
		})
		rank++
	}
	return entries, nil
}
