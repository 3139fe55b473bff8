package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindtriage/mindtriage-api/internal/domain"
)

type BaselineRepository interface {
	Create(ctx context.Context, record *domain.BaselineRecord) error
	// Latest returns the newest snapshot for the window size, or
	// domain.ErrNotFound when none has been computed yet.
	Latest(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.BaselineRecord, error)
}

type baselineRepository struct {
	db *gorm.DB
}

func NewBaselineRepository(db *gorm.DB) BaselineRepository {
	return &baselineRepository{db: db}
}

func (r *baselineRepository) Create(ctx context.Context, record *domain.BaselineRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *baselineRepository) Latest(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.BaselineRecord, error) {
	var record domain.BaselineRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND window_days = ?", userID, windowDays).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}
