package models

// UserSummary aggregates a learner's progress rows for the analytics view.
type UserSummary struct {
	UserID            string `bson:"user_id" json:"user_id"`
	SkillsPracticed   int    `bson:"skills_practiced" json:"skills_practiced"`
	SkillsMastered    int    `bson:"skills_mastered" json:"skills_mastered"`
	QuestionsAnswered int    `bson:"questions_answered" json:"questions_answered"`
	QuestionsCorrect  int    `bson:"questions_correct" json:"questions_correct"`
	AverageSmartScore int    `bson:"average_smart_score" json:"average_smart_score"`
	BestStreak        int    `bson:"best_streak" json:"best_streak"`
	TimeSpentSeconds  int    `bson:"time_spent_seconds" json:"time_spent_seconds"`
}

// LeaderboardEntry is one ranked row of the global leaderboard.
type LeaderboardEntry struct {
	Rank              int    `bson:"rank" json:"rank"`
	UserID            string `bson:"user_id" json:"user_id"`
	TotalScore        int    `bson:"total_score" json:"total_score"`
	SkillsMastered    int    `bson:"skills_mastered" json:"skills_mastered"`
	QuestionsAnswered int    `bson:"questions_answered" json:"questions_answered"`
}

// MasteryStats is the attempt-derived statistic the original mastery check
// reported: correct answers at the top tier against the required count. It
// is informational; the authoritative flag is SkillProgress.IsMastered.
type MasteryStats struct {
	TotalQuestions     int `json:"total_questions"`
	TopTierQuestions   int `json:"max_difficulty_questions"`
	CorrectAtTopTier   int `json:"correct_max_difficulty"`
	RequiredForMastery int `json:"required_for_mastery"`
}
