package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/pkg/pagination"
)

type RapidRepository interface {
	CreateSession(ctx context.Context, session *domain.RapidSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*domain.RapidSession, error)
	CompleteSession(ctx context.Context, id uuid.UUID) error
	CreateEvaluation(ctx context.Context, eval *domain.RapidEvaluation) error
	List(ctx context.Context, userID uuid.UUID, filter domain.RapidFilter) ([]domain.RapidEvaluation, error)
	// LatestEvaluation returns the newest evaluation regardless of
	// validity, for cooldown enforcement. Nil when none exists.
	LatestEvaluation(ctx context.Context, userID uuid.UUID) (*domain.RapidEvaluation, error)
	// LastValidEvaluation returns the newest evaluation not voided by
	// validity flags, for duplicate answer detection. Nil when none.
	LastValidEvaluation(ctx context.Context, userID uuid.UUID) (*domain.RapidEvaluation, error)
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
}

type rapidRepository struct {
	db *gorm.DB
}

func NewRapidRepository(db *gorm.DB) RapidRepository {
	return &rapidRepository{db: db}
}

func (r *rapidRepository) CreateSession(ctx context.Context, session *domain.RapidSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *rapidRepository) GetSession(ctx context.Context, id uuid.UUID) (*domain.RapidSession, error) {
	var session domain.RapidSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *rapidRepository) CompleteSession(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.RapidSession{}).
		Where("id = ?", id).
		Update("completed", true).Error
}

func (r *rapidRepository) CreateEvaluation(ctx context.Context, eval *domain.RapidEvaluation) error {
	return r.db.WithContext(ctx).Create(eval).Error
}

func (r *rapidRepository) List(ctx context.Context, userID uuid.UUID, filter domain.RapidFilter) ([]domain.RapidEvaluation, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if filter.From != nil {
		query = query.Where("created_at >= ?", filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", filter.To)
	}

	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			query = query.Where(
				"(created_at < ?) OR (created_at = ? AND id < ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
			)
		}
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var evals []domain.RapidEvaluation
	if err := query.Find(&evals).Error; err != nil {
		return nil, err
	}
	return evals, nil
}

func (r *rapidRepository) LatestEvaluation(ctx context.Context, userID uuid.UUID) (*domain.RapidEvaluation, error) {
	var eval domain.RapidEvaluation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&eval).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &eval, nil
}

func (r *rapidRepository) LastValidEvaluation(ctx context.Context, userID uuid.UUID) (*domain.RapidEvaluation, error) {
	var eval domain.RapidEvaluation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND valid = ?", userID, true).
		Order("created_at DESC").
		First(&eval).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &eval, nil
}

func (r *rapidRepository) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RapidEvaluation{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}
