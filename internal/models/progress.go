package models

import "time"

// SkillProgress is the per-(user, skill) mastery record. It is created lazily
// on the first answered question, mutated only by the adaptive engine, and
// never deleted.
type SkillProgress struct {
	ID                 string     `bson:"_id,omitempty" json:"id"`
	UserID             string     `bson:"user_id" json:"user_id"`
	SkillID            string     `bson:"skill_id" json:"skill_id"`
	SmartScore         int        `bson:"smart_score" json:"smart_score"`
	QuestionsAttempted int        `bson:"questions_attempted" json:"questions_attempted"`
	QuestionsCorrect   int        `bson:"questions_correct" json:"questions_correct"`
	CurrentStreak      int        `bson:"current_streak" json:"current_streak"`
	BestStreak         int        `bson:"best_streak" json:"best_streak"`
	TimeSpentSeconds   int        `bson:"time_spent_seconds" json:"time_spent_seconds"`
	IsMastered         bool       `bson:"is_mastered" json:"is_mastered"`
	MasteredAt         *time.Time `bson:"mastered_at,omitempty" json:"mastered_at,omitempty"`
	LastPracticedAt    time.Time  `bson:"last_practiced_at" json:"last_practiced_at"`
	// Version guards the read-modify-write cycle: the store only applies an
	// update whose Version matches the stored row, then increments it.
	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewSkillProgress returns the all-zero default record for a pair that has
// never practiced.
func NewSkillProgress(userID, skillID string) *SkillProgress {
	return &SkillProgress{
		UserID:  userID,
		SkillID: skillID,
	}
}
