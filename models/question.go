package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Difficulty bands for question selection.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question types, asked in rotation during an interview.
const (
	QuestionTypeTechnical  = "technical"
	QuestionTypeConceptual = "conceptual"
	QuestionTypeBehavioral = "behavioral"
	QuestionTypeScenario   = "scenario"
)

// Difficulties lists the difficulty bands from easiest to hardest.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// QuestionTypes lists the question types in rotation order.
var QuestionTypes = []string{
	QuestionTypeTechnical,
	QuestionTypeConceptual,
	QuestionTypeBehavioral,
	QuestionTypeScenario,
}

// Question is an immutable catalogue entry. Prompts may contain a "{skill}"
// placeholder that the question bank fills in from the candidate's matched
// skills at selection time.
type Question struct {
	ID               string                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Type             string                      `gorm:"size:50;not null;index:idx_questions_type_difficulty;check:type IN ('technical', 'conceptual', 'behavioral', 'scenario')" json:"type"`
	Difficulty       string                      `gorm:"size:50;not null;index:idx_questions_type_difficulty;check:difficulty IN ('easy', 'medium', 'hard')" json:"difficulty"`
	Prompt           string                      `gorm:"type:text;not null" json:"prompt"`
	ExpectedKeywords datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"expected_keywords"`
	CriticalTerms    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"critical_terms,omitempty"`
	MaxTimeSeconds   int                         `gorm:"not null;default:60" json:"max_time_seconds"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
	DeletedAt        gorm.DeletedAt              `gorm:"index" json:"-"`
}
