package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/engine"
)

// CrisisSource identifies which flow raised a safety event.
type CrisisSource string

const (
	CrisisSourceCheckin CrisisSource = "checkin"
	CrisisSourceRapid   CrisisSource = "rapid"
)

// CrisisEvent records one safety escalation. Events deduplicate per
// user, day, source and level so repeated submissions of the same day
// do not multiply alerts.
type CrisisEvent struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_crisis_dedupe" json:"user_id"`
	EventDate    time.Time          `gorm:"type:date;not null;uniqueIndex:idx_crisis_dedupe" json:"event_date"`
	Source       CrisisSource       `gorm:"type:varchar(20);not null;uniqueIndex:idx_crisis_dedupe" json:"source"`
	Level        engine.CrisisLevel `gorm:"type:varchar(20);not null;uniqueIndex:idx_crisis_dedupe" json:"level"`
	Reason       string             `gorm:"type:text;not null" json:"reason"`
	MatchedTerms []string           `gorm:"serializer:json;type:text" json:"matched_terms"`
	CreatedAt    time.Time          `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CrisisEvent) TableName() string {
	return "crisis_events"
}

// CrisisEventResponse is the response body for a recorded safety event.
// @Description One recorded safety escalation.
type CrisisEventResponse struct {
	ID           uuid.UUID          `json:"id"`
	EventDate    string             `json:"event_date" example:"2024-05-20"`
	Source       CrisisSource       `json:"source" example:"checkin"`
	Level        engine.CrisisLevel `json:"level" example:"high"`
	Reason       string             `json:"reason"`
	MatchedTerms []string           `json:"matched_terms,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

func (e *CrisisEvent) ToResponse() CrisisEventResponse {
	return CrisisEventResponse{
		ID:           e.ID,
		EventDate:    e.EventDate.Format("2006-01-02"),
		Source:       e.Source,
		Level:        e.Level,
		Reason:       e.Reason,
		MatchedTerms: e.MatchedTerms,
		CreatedAt:    e.CreatedAt,
	}
}

// CrisisEventListResponse is the response body for listing safety events.
type CrisisEventListResponse struct {
	Data []CrisisEventResponse `json:"data"`
}
