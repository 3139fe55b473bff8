package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/pkg/pagination"
)

type AnswerRepository interface {
	CreateBatch(ctx context.Context, answers []*domain.Answer) error
	List(ctx context.Context, userID uuid.UUID, filter domain.AnswerFilter) ([]domain.Answer, error)
	// ListInDateRange returns answers with entry_date in [from, to],
	// low-quality rows excluded unless includeLowQuality is set.
	ListInDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time, includeLowQuality bool) ([]domain.Answer, error)
	// DistinctEntryDates returns the distinct non-low-quality entry
	// dates in [from, to], for streak and engagement computation.
	DistinctEntryDates(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]time.Time, error)
	// RecentQuestionIDs returns IDs answered (at acceptable quality)
	// since the given date, for rotation freshness.
	RecentQuestionIDs(ctx context.Context, userID uuid.UUID, kind domain.CheckinKind, since time.Time) (map[int64]bool, error)
	// AnsweredCategoriesSince returns categories covered since the
	// given date; the scheduler derives missing categories from it.
	AnsweredCategoriesSince(ctx context.Context, userID uuid.UUID, kind domain.CheckinKind, since time.Time) (map[string]bool, error)
	// QuestionIDsOnDate returns IDs already answered on the target
	// date regardless of quality, so repeats are never offered.
	QuestionIDsOnDate(ctx context.Context, userID uuid.UUID, kind domain.CheckinKind, date time.Time) (map[int64]bool, error)
	// RecentTexts is the history fallback for duplicate detection when
	// the cache is unavailable.
	RecentTexts(ctx context.Context, userID uuid.UUID, limit int) ([]string, error)
	GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) ([]domain.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) CreateBatch(ctx context.Context, answers []*domain.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(answers).Error
}

func (r *answerRepository) List(ctx context.Context, userID uuid.UUID, filter domain.AnswerFilter) ([]domain.Answer, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if filter.From != nil {
		query = query.Where("entry_date >= ?", filter.From)
	}
	if filter.To != nil {
		query = query.Where("entry_date <= ?", filter.To)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
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

	// Fetch one extra to determine if there are more results
	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var answers []domain.Answer
	if err := query.Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepository) ListInDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time, includeLowQuality bool) ([]domain.Answer, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("entry_date >= ? AND entry_date <= ?", from, to).
		Order("entry_date ASC, created_at ASC")
	if !includeLowQuality {
		query = query.Where("is_low_quality = ?", false)
	}

	var answers []domain.Answer
	if err := query.Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepository) DistinctEntryDates(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&domain.Answer{}).
		Where("user_id = ?", userID).
		Where("entry_date >= ? AND entry_date <= ?", from, to).
		Where("is_low_quality = ?", false).
		Distinct("entry_date").
		Order("entry_date ASC").
		Pluck("entry_date", &dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *answerRepository) RecentQuestionIDs(ctx context.Context, userID uuid.UUID, kind domain.CheckinKind, since time.Time) (map[int64]bool, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Answer{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Where("entry_date >= ?", since).
		Where("is_low_quality = ?", false).
		Distinct("question_id").
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *answerRepository) AnsweredCategoriesSince(ctx context.Context, userID uuid.UUID, kind domain.CheckinKind, since time.Time) (map[string]bool, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&domain.Answer{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Where("entry_date >= ?", since).
		Where("is_low_quality = ?", false).
		Distinct("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return set, nil
}

func (r *answerRepository) QuestionIDsOnDate(ctx context.Context, userID uuid.UUID, kind domain.CheckinKind, date time.Time) (map[int64]bool, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Answer{}).
		Where("user_id = ? AND kind = ? AND entry_date = ?", userID, kind, date).
		Distinct("question_id").
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *answerRepository) RecentTexts(ctx context.Context, userID uuid.UUID, limit int) ([]string, error) {
	var texts []string
	err := r.db.WithContext(ctx).
		Model(&domain.Answer{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Pluck("raw_text", &texts).Error
	if err != nil {
		return nil, err
	}
	return texts, nil
}

func (r *answerRepository) GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) ([]domain.Answer, error) {
	var answers []domain.Answer
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND client_request_id = ?", userID, clientRequestID).
		Order("created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}
