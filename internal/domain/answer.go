package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/engine"
)

// CheckinKind represents the category of check-in flow.
// @Description Check-in kind: DAILY for the full daily set, MICRO for the two-question pulse.
type CheckinKind string

const (
	// CheckinKindDaily is the full daily question set
	CheckinKindDaily CheckinKind = "DAILY"
	// CheckinKindMicro is the lightweight two-question pulse
	CheckinKindMicro CheckinKind = "MICRO"
)

// Answer is one stored check-in answer with its normalized signal and
// quality verdict. Low-quality answers stay queryable but are excluded
// from baseline collection and rotation freshness.
type Answer struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID   `gorm:"type:uuid;not null;index:idx_answers_user_entry" json:"user_id"`
	EntryDate       time.Time   `gorm:"type:date;not null;index:idx_answers_user_entry,sort:desc" json:"entry_date"`
	Kind            CheckinKind `gorm:"type:varchar(10);not null" json:"kind"`
	QuestionID      int64       `gorm:"not null" json:"question_id"`
	QuestionSlug    string      `gorm:"type:varchar(80);not null" json:"question_slug"`
	Category        string      `gorm:"type:varchar(40);not null" json:"category"`
	RawText         string      `gorm:"type:text;not null" json:"raw_text"`
	SignalKey       *string     `gorm:"type:varchar(40)" json:"signal_key,omitempty"`
	SignalValue     *float64    `json:"signal_value,omitempty"`
	QualityScore    int         `gorm:"type:smallint;not null" json:"quality_score"`
	QualityFlags    []string    `gorm:"serializer:json;type:text" json:"quality_flags"`
	IsLowQuality    bool        `gorm:"not null;default:false" json:"is_low_quality"`
	ClientRequestID *string     `gorm:"type:varchar(255);index:idx_answers_user_client,where:client_request_id IS NOT NULL" json:"client_request_id,omitempty"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Answer) TableName() string {
	return "answers"
}

// CheckinAnswerInput is one answered question inside a submission.
type CheckinAnswerInput struct {
	// Slug of the question being answered
	QuestionSlug string `json:"question_slug" validate:"required,max=80" example:"daily_mood"`
	// Free-text or choice answer as the user typed it
	Text string `json:"text" validate:"required,max=2000" example:"6"`
}

// SubmitCheckinRequest is the request body for submitting a check-in.
// @Description Request payload for a daily or micro check-in submission.
type SubmitCheckinRequest struct {
	// Check-in kind: DAILY or MICRO
	Kind CheckinKind `json:"kind" validate:"required,oneof=DAILY MICRO" example:"DAILY" enums:"DAILY,MICRO"`
	// Entry date (YYYY-MM-DD); defaults to today in the user's timezone
	EntryDate string `json:"entry_date,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2024-05-20"`
	// Answered questions, at least one
	Answers []CheckinAnswerInput `json:"answers" validate:"required,min=1,max=20,dive"`
	// Optional free-text journal entry scanned for safety signals
	Note string `json:"note,omitempty" validate:"omitempty,max=5000"`
	// Optional client-generated ID for idempotent requests (max 255 chars)
	ClientRequestID *string `json:"client_request_id,omitempty" validate:"omitempty,max=255"`
}

// AnswerResponse is the response body for a stored answer.
type AnswerResponse struct {
	ID           uuid.UUID   `json:"id"`
	EntryDate    string      `json:"entry_date" example:"2024-05-20"`
	Kind         CheckinKind `json:"kind"`
	QuestionSlug string      `json:"question_slug"`
	Category     string      `json:"category"`
	RawText      string      `json:"raw_text"`
	SignalKey    *string     `json:"signal_key,omitempty"`
	SignalValue  *float64    `json:"signal_value,omitempty"`
	QualityScore int         `json:"quality_score"`
	IsLowQuality bool        `json:"is_low_quality"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (a *Answer) ToResponse() AnswerResponse {
	return AnswerResponse{
		ID:           a.ID,
		EntryDate:    a.EntryDate.Format("2006-01-02"),
		Kind:         a.Kind,
		QuestionSlug: a.QuestionSlug,
		Category:     a.Category,
		RawText:      a.RawText,
		SignalKey:    a.SignalKey,
		SignalValue:  a.SignalValue,
		QualityScore: a.QualityScore,
		IsLowQuality: a.IsLowQuality,
		CreatedAt:    a.CreatedAt,
	}
}

// CheckinResponse is the response body for a check-in submission.
// @Description Stored answers plus the quality and safety verdicts for the batch.
type CheckinResponse struct {
	// Stored answers in submission order
	Answers []AnswerResponse `json:"answers"`
	// Batch quality verdict
	Quality engine.QualityResult `json:"quality"`
	// Safety screening result for the batch
	Crisis engine.CrisisResult `json:"crisis"`
	// Normalized signals extracted from this submission
	Signals map[engine.SignalKey]float64 `json:"signals"`
}

// AnswerListResponse is the response body for listing answers.
// @Description Paginated list of stored answers.
type AnswerListResponse struct {
	// Array of answer records
	Data []AnswerResponse `json:"data"`
	// Pagination metadata
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse contains pagination metadata.
// @Description Cursor-based pagination info.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more" example:"true"`
}

// AnswerFilter contains filter parameters for listing answers
type AnswerFilter struct {
	From   *time.Time
	To     *time.Time
	Kind   *CheckinKind
	Limit  int
	Cursor string
}
