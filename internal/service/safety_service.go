package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/engine"
	"github.com/mindtriage/mindtriage-api/internal/repository"
)

// SafetyService records and lists crisis escalations. Recording is
// deduplicated per user, day, source and level so resubmitting the same
// day's check-in does not multiply events.
type SafetyService interface {
	Record(ctx context.Context, userID uuid.UUID, date time.Time, source domain.CrisisSource, result engine.CrisisResult) error
	List(ctx context.Context, userID uuid.UUID, limit int) (*domain.CrisisEventListResponse, error)
}

type safetyService struct {
	crisisRepo repository.CrisisRepository
	userRepo   repository.UserRepository
}

func NewSafetyService(crisisRepo repository.CrisisRepository, userRepo repository.UserRepository) SafetyService {
	return &safetyService{
		crisisRepo: crisisRepo,
		userRepo:   userRepo,
	}
}

func (s *safetyService) Record(ctx context.Context, userID uuid.UUID, date time.Time, source domain.CrisisSource, result engine.CrisisResult) error {
	if result.Level == engine.CrisisNone {
		return nil
	}
	event := &domain.CrisisEvent{
		UserID:       userID,
		EventDate:    date,
		Source:       source,
		Level:        result.Level,
		Reason:       result.Reason,
		MatchedTerms: result.MatchedTerms,
	}
	_, err := s.crisisRepo.CreateIfAbsent(ctx, event)
	return err
}

func (s *safetyService) List(ctx context.Context, userID uuid.UUID, limit int) (*domain.CrisisEventListResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	events, err := s.crisisRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	response := &domain.CrisisEventListResponse{
		Data: make([]domain.CrisisEventResponse, len(events)),
	}
	for i, event := range events {
		response.Data[i] = event.ToResponse()
	}
	return response, nil
}
