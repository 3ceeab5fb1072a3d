package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Session states. Terminal states accept no further transitions.
const (
	SessionNotStarted      = "not_started"
	SessionInProgress      = "in_progress"
	SessionCompleted       = "completed"
	SessionTerminatedEarly = "terminated_early"
)

// Hiring readiness verdicts derived from the final score.
const (
	ReadinessHighlyRecommended = "HIGHLY RECOMMENDED"
	ReadinessRecommended       = "RECOMMENDED"
	ReadinessConditional       = "CONDITIONAL"
	ReadinessNotRecommended    = "NOT RECOMMENDED"
)

// InterviewSession records each interview attempt for a user. Active sessions
// live in the in-memory session store; a row is written when the session
// reaches a terminal state.
type InterviewSession struct {
	ID                string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Status            string         `gorm:"not null;default:'in_progress';check:status IN ('in_progress', 'completed', 'terminated_early')" json:"status"`
	CurrentDifficulty string         `gorm:"size:50;not null;default:'easy'" json:"current_difficulty"`
	QuestionNumber    int            `gorm:"not null;default:0" json:"question_number"`
	MaxQuestions      int            `gorm:"not null;default:10" json:"max_questions"`
	SkillMatch        float64        `gorm:"type:decimal(5,2)" json:"skill_match"`
	TerminatedEarly   bool           `gorm:"default:false" json:"terminated_early"`
	TerminationReason *string        `gorm:"type:text" json:"termination_reason,omitempty"`
	StartedAt         time.Time      `gorm:"not null" json:"started_at"`
	EndedAt           *time.Time     `json:"ended_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User         User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AnswerScores []AnswerScore    `gorm:"foreignKey:SessionID" json:"answer_scores,omitempty"`
	Report       *InterviewReport `gorm:"foreignKey:SessionID" json:"report,omitempty"`
}

// AnswerScore stores the rubric result for one answered question.
type AnswerScore struct {
	ID             string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID      string         `gorm:"type:uuid;not null;index" json:"session_id"`
	QuestionID     string         `gorm:"type:uuid;not null" json:"question_id"`
	QuestionNumber int            `gorm:"not null" json:"question_number"` // Order of the question in the interview
	Accuracy       float64        `gorm:"type:decimal(5,2);not null" json:"accuracy"`
	Clarity        float64        `gorm:"type:decimal(5,2);not null" json:"clarity"`
	Depth          float64        `gorm:"type:decimal(5,2);not null" json:"depth"`
	Relevance      float64        `gorm:"type:decimal(5,2);not null" json:"relevance"`
	TimeEfficiency float64        `gorm:"type:decimal(5,2);not null" json:"time_efficiency"`
	Overall        int            `gorm:"not null" json:"overall"` // 0 to 100
	Feedback       string         `gorm:"type:text" json:"feedback"`
	TimeTaken      int            `gorm:"not null" json:"time_taken"` // Seconds
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Session InterviewSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
}

// InterviewReport stores the final hiring-readiness report for a session.
type InterviewReport struct {
	ID                string                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID         string                      `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	FinalScore        int                         `gorm:"not null" json:"final_score"` // 0 to 100
	HiringReadiness   string                      `gorm:"size:50;not null" json:"hiring_readiness"`
	AvgAccuracy       float64                     `gorm:"type:decimal(5,2);not null" json:"avg_accuracy"`
	AvgClarity        float64                     `gorm:"type:decimal(5,2);not null" json:"avg_clarity"`
	AvgDepth          float64                     `gorm:"type:decimal(5,2);not null" json:"avg_depth"`
	AvgRelevance      float64                     `gorm:"type:decimal(5,2);not null" json:"avg_relevance"`
	AvgTimeEfficiency float64                     `gorm:"type:decimal(5,2);not null" json:"avg_time_efficiency"`
	Strengths         datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"strengths"`
	Weaknesses        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"weaknesses"`
	Recommendation    string                      `gorm:"type:text" json:"recommendation"`
	TotalQuestions    int                         `gorm:"not null" json:"total_questions"`
	EarlyTermination  bool                        `gorm:"default:false" json:"early_termination"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
	DeletedAt         gorm.DeletedAt              `gorm:"index" json:"-"`

	// Relationships
	Session InterviewSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
}
