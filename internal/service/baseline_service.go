package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/engine"
	"github.com/mindtriage/mindtriage-api/internal/repository"
)

const (
	// DefaultBaselineWindowDays matches the "2-week baseline" wording in
	// drift messages.
	DefaultBaselineWindowDays = 14
	// LongBaselineWindowDays is the long-horizon snapshot window.
	LongBaselineWindowDays = 30
)

// BaselineService computes and persists per-signal baseline statistics.
// Every computation writes a new immutable snapshot.
type BaselineService interface {
	Compute(ctx context.Context, userID uuid.UUID, windowDays int, asOf time.Time) (*domain.BaselineRecord, error)
	// Latest returns the newest snapshot for the window, computing one
	// when none exists yet.
	Latest(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.BaselineRecord, error)
}

type baselineService struct {
	baselineRepo repository.BaselineRepository
	answerRepo   repository.AnswerRepository
	userRepo     repository.UserRepository
}

func NewBaselineService(
	baselineRepo repository.BaselineRepository,
	answerRepo repository.AnswerRepository,
	userRepo repository.UserRepository,
) BaselineService {
	return &baselineService{
		baselineRepo: baselineRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
	}
}

func (s *baselineService) Compute(ctx context.Context, userID uuid.UUID, windowDays int, asOf time.Time) (*domain.BaselineRecord, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	if windowDays <= 0 {
		windowDays = DefaultBaselineWindowDays
	}
	end := dateOnly(asOf)
	start := end.AddDate(0, 0, -(windowDays - 1))

	answers, err := s.answerRepo.ListInDateRange(ctx, userID, start, end, false)
	if err != nil {
		return nil, err
	}

	snapshot := engine.ComputeBaseline(signalsByDay(answers), windowDays, start, end)

	record := &domain.BaselineRecord{
		UserID:     userID,
		WindowDays: snapshot.WindowDays,
		StartDate:  start,
		EndDate:    end,
		Signals:    snapshot.Signals,
	}
	if err := s.baselineRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *baselineService) Latest(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.BaselineRecord, error) {
	if windowDays <= 0 {
		windowDays = DefaultBaselineWindowDays
	}
	record, err := s.baselineRepo.Latest(ctx, userID, windowDays)
	if err == nil {
		return record, nil
	}
	if err != domain.ErrNotFound {
		return nil, err
	}
	return s.Compute(ctx, userID, windowDays, time.Now().UTC())
}

// signalsByDay folds stored answers into one vector per entry date.
// Answers arrive ordered by creation time, so later same-day answers
// overwrite earlier ones per signal.
func signalsByDay(answers []domain.Answer) map[time.Time]engine.SignalVector {
	byDay := make(map[time.Time]engine.SignalVector)
	for _, answer := range answers {
		if answer.SignalKey == nil || answer.SignalValue == nil {
			continue
		}
		day := dateOnly(answer.EntryDate)
		vector, ok := byDay[day]
		if !ok {
			vector = engine.SignalVector{}
			byDay[day] = vector
		}
		vector[engine.SignalKey(*answer.SignalKey)] = *answer.SignalValue
	}
	return byDay
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
