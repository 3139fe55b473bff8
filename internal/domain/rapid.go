package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/engine"
)

// RapidSession is a started rapid check-in waiting for its submission.
// The server measures elapsed time from StartedAt so the pace flags do
// not trust the client clock.
type RapidSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RapidSession) TableName() string {
	return "rapid_sessions"
}

// RapidEvaluation is one scored rapid check-in submission.
type RapidEvaluation struct {
	ID              uuid.UUID                 `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID                 `gorm:"type:uuid;not null;index:idx_rapid_user_created" json:"user_id"`
	SessionID       uuid.UUID                 `gorm:"type:uuid;not null" json:"session_id"`
	Score           int                       `gorm:"type:smallint;not null" json:"score"`
	Level           engine.RapidLevel         `gorm:"type:varchar(10);not null" json:"level"`
	Explanations    []engine.RapidExplanation `gorm:"serializer:json;type:text" json:"explanations"`
	ValidityFlags   []string                  `gorm:"serializer:json;type:text" json:"validity_flags"`
	Confidence      float64                   `gorm:"not null" json:"confidence"`
	DurationSeconds float64                   `gorm:"not null" json:"duration_seconds"`
	Valid           bool                      `gorm:"not null;default:true" json:"valid"`
	Answers         map[string]string         `gorm:"serializer:json;type:text" json:"answers"`
	CreatedAt       time.Time                 `gorm:"autoCreateTime;index:idx_rapid_user_created,sort:desc" json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RapidEvaluation) TableName() string {
	return "rapid_evaluations"
}

// RapidStartResponse is the response body for starting a rapid check-in.
// @Description Session handle plus the question battery to render.
type RapidStartResponse struct {
	// Session identifier to echo back on submit
	SessionID uuid.UUID `json:"session_id"`
	// Server-side start timestamp
	StartedAt time.Time `json:"started_at"`
	// Ordered battery of questions, attention check included
	Questions []engine.Question `json:"questions"`
}

// SubmitRapidRequest is the request body for submitting a rapid check-in.
// @Description Answers keyed by question slug for an open session.
type SubmitRapidRequest struct {
	// Session returned by the start call
	SessionID uuid.UUID `json:"session_id" validate:"required"`
	// Answers keyed by question slug
	Answers map[string]string `json:"answers" validate:"required,min=1,max=20"`
}

// RapidEvaluationResponse is the response body for a scored submission.
// @Description Tiered risk result with explanations, validity and confidence.
type RapidEvaluationResponse struct {
	ID      uuid.UUID         `json:"id"`
	Level   engine.RapidLevel `json:"level" example:"YELLOW"`
	Score   int               `json:"score" example:"7"`
	// Top contributing signals, largest weight first
	Explanations []engine.RapidExplanation `json:"explanations"`
	// Validity and consistency flags raised for this submission
	ValidityFlags []string `json:"validity_flags"`
	// False when a hard validity flag voids the submission
	Valid           bool    `json:"valid"`
	Confidence      float64 `json:"confidence" example:"0.7"`
	DurationSeconds float64 `json:"duration_seconds" example:"42.5"`
	// Tier-appropriate next steps
	RecommendedActions []string `json:"recommended_actions"`
	// Present only on RED results
	CrisisGuidance []string  `json:"crisis_guidance,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RapidListResponse is the response body for listing rapid evaluations.
// @Description Paginated list of past rapid evaluations.
type RapidListResponse struct {
	Data       []RapidEvaluationResponse `json:"data"`
	Pagination PaginationResponse        `json:"pagination"`
}

// RapidFilter contains filter parameters for listing rapid evaluations
type RapidFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Cursor string
}
