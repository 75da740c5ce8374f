package models

import "time"

type Skill struct {
	ID              string `bson:"_id,omitempty" json:"id"`
	TopicID         string `bson:"topic_id" json:"topic_id"`
	Name            string `bson:"name" json:"name"`
	Description     string `bson:"description" json:"description"`
	DifficultyLevel int    `bson:"difficulty_level" json:"difficulty_level"`
	// MasteryThreshold is authored display metadata used by progress bars.
	// The engine's mastery rule is SmartScore reaching 100, not this value.
	MasteryThreshold int       `bson:"mastery_threshold" json:"mastery_threshold"`
	DisplayOrder     int       `bson:"display_order" json:"display_order"`
	IsActive         bool      `bson:"is_active" json:"is_active"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}
