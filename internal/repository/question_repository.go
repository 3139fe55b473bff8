package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mindtriage/mindtriage-api/internal/domain"
)

type QuestionRepository interface {
	// UpsertAll writes the catalog, updating text and choices of rows
	// that already exist. Called once at startup.
	UpsertAll(ctx context.Context, questions []domain.QuestionRecord) error
	ListByKind(ctx context.Context, kind domain.QuestionKind) ([]domain.QuestionRecord, error)
	GetBySlug(ctx context.Context, slug string) (*domain.QuestionRecord, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) UpsertAll(ctx context.Context, questions []domain.QuestionRecord) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"slug", "text", "category", "format", "choices", "core", "position"}),
		}).
		Create(&questions).Error
}

func (r *questionRepository) ListByKind(ctx context.Context, kind domain.QuestionKind) ([]domain.QuestionRecord, error) {
	var questions []domain.QuestionRecord
	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("position ASC, id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) GetBySlug(ctx context.Context, slug string) (*domain.QuestionRecord, error) {
	var question domain.QuestionRecord
	err := r.db.WithContext(ctx).First(&question, "slug = ?", slug).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}
