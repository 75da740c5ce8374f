package models

import "time"

// PracticeSession is a completed practice run's summary row, reported by the
// client when it ends a session. It feeds analytics, not the adaptive loop.
type PracticeSession struct {
	ID                 string    `bson:"_id,omitempty" json:"id"`
	UserID             string    `bson:"user_id" json:"user_id"`
	SkillID            string    `bson:"skill_id" json:"skill_id"`
	QuestionsAttempted int       `bson:"questions_attempted" json:"questions_attempted"`
	QuestionsCorrect   int       `bson:"questions_correct" json:"questions_correct"`
	FinalScore         int       `bson:"final_score" json:"final_score"`
	TimeSpentSeconds   int       `bson:"time_spent_seconds" json:"time_spent_seconds"`
	StartTime          time.Time `bson:"start_time" json:"start_time"`
	EndTime            time.Time `bson:"end_time" json:"end_time"`
	IsCompleted        bool      `bson:"is_completed" json:"is_completed"`
}
