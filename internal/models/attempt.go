package models

import "time"

// QuestionAttempt records a single graded answer. Attempts are append-only
// history; mastery statistics over tier-5 attempts are derived from them.
type QuestionAttempt struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	UserID           string    `bson:"user_id" json:"user_id"`
	SkillID          string    `bson:"skill_id" json:"skill_id"`
	QuestionID       string    `bson:"question_id" json:"question_id"`
	UserAnswer       string    `bson:"user_answer" json:"user_answer"`
	IsCorrect        bool      `bson:"is_correct" json:"is_correct"`
	DifficultyRating int       `bson:"difficulty_rating" json:"difficulty_rating"`
	PointsDelta      float64   `bson:"points_delta" json:"points_delta"`
	TimeSpentSeconds int       `bson:"time_spent_seconds" json:"time_spent_seconds"`
	AnsweredAt       time.Time `bson:"answered_at" json:"answered_at"`
}
