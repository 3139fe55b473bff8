package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mindtriage/mindtriage-api/internal/domain"
)

type CrisisRepository interface {
	// CreateIfAbsent inserts the event unless an identical
	// user/date/source/level row already exists. Returns true when a
	// new row was written.
	CreateIfAbsent(ctx context.Context, event *domain.CrisisEvent) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.CrisisEvent, error)
}

type crisisRepository struct {
	db *gorm.DB
}

func NewCrisisRepository(db *gorm.DB) CrisisRepository {
	return &crisisRepository{db: db}
}

func (r *crisisRepository) CreateIfAbsent(ctx context.Context, event *domain.CrisisEvent) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *crisisRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.CrisisEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var events []domain.CrisisEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
