package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/engine"
)

// BaselineRecord is one immutable persisted baseline computation.
// Recomputing the same window writes a new row rather than mutating an
// old one, so past insight reports stay reproducible.
type BaselineRecord struct {
	ID         uuid.UUID                             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID                             `gorm:"type:uuid;not null;index:idx_baselines_user_created" json:"user_id"`
	WindowDays int                                   `gorm:"type:smallint;not null" json:"window_days"`
	StartDate  time.Time                             `gorm:"type:date;not null" json:"start_date"`
	EndDate    time.Time                             `gorm:"type:date;not null" json:"end_date"`
	Signals    map[engine.SignalKey]engine.SignalStats `gorm:"serializer:json;type:text" json:"signals"`
	CreatedAt  time.Time                             `gorm:"autoCreateTime;index:idx_baselines_user_created,sort:desc" json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (BaselineRecord) TableName() string {
	return "baseline_records"
}

// BaselineRequest contains query parameters for the baseline endpoint.
type BaselineRequest struct {
	WindowDays int `json:"window_days" validate:"omitempty,min=7,max=90"`
}

// BaselineResponse is the response body for the baseline endpoint.
// @Description Per-signal baseline statistics over the requested window.
type BaselineResponse struct {
	ID         uuid.UUID `json:"id"`
	WindowDays int       `json:"window_days" example:"14"`
	StartDate  string    `json:"start_date" example:"2024-05-07"`
	EndDate    string    `json:"end_date" example:"2024-05-20"`
	// Statistics per signal; gated entries carry null mean/median/std
	Signals   map[engine.SignalKey]engine.SignalStats `json:"signals"`
	CreatedAt time.Time                               `json:"created_at"`
}

func (b *BaselineRecord) ToResponse() BaselineResponse {
	return BaselineResponse{
		ID:         b.ID,
		WindowDays: b.WindowDays,
		StartDate:  b.StartDate.Format("2006-01-02"),
		EndDate:    b.EndDate.Format("2006-01-02"),
		Signals:    b.Signals,
		CreatedAt:  b.CreatedAt,
	}
}
