package models

// Question payload kinds. The engine never interprets RenderData; rendering
// belongs to the client. Only multiple choice carries an enumerable option
// set the engine can validate submissions against.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionGraphEquation  = "graph_equation"
	QuestionForceDiagram   = "force_diagram"
)

type Question struct {
	ID               string                 `bson:"_id,omitempty" json:"id"`
	SkillID          string                 `bson:"skill_id" json:"skill_id"`
	QuestionType     string                 `bson:"question_type" json:"question_type"`
	QuestionText     string                 `bson:"question_text" json:"question_text"`
	Options          []string               `bson:"options,omitempty" json:"options,omitempty"`
	RenderData       map[string]interface{} `bson:"render_data,omitempty" json:"render_data,omitempty"`
	CorrectAnswer    string                 `bson:"correct_answer" json:"correct_answer"`
	Explanation      string                 `bson:"explanation" json:"explanation"`
	DifficultyRating int                    `bson:"difficulty_rating" json:"difficulty_rating"`
	PointsValue      int                    `bson:"points_value" json:"points_value"`
	IsActive         bool                   `bson:"is_active" json:"is_active"`
}

// AcceptsAnswer reports whether the submitted answer is well-formed input for
// this question. Multiple choice answers must be one of the authored options;
// other payload kinds take free-form input.
func (q *Question) AcceptsAnswer(answer string) bool {
	if q.QuestionType != QuestionMultipleChoice {
		return true
	}
	for _, opt := range q.Options {
		if opt == answer {
			return true
		}
	}
	return false
}

// IsCorrect compares the submitted answer against the canonical correct
// answer. Comparison is exact string equality; option display order is a
// presentation concern and never affects grading.
func (q *Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}
