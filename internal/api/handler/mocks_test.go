package handler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/engine"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	createFunc  func(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error)
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *MockUserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &domain.User{ID: uuid.New(), DisplayName: req.DisplayName, Timezone: req.Timezone}, nil
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// MockCheckinService is a mock implementation of CheckinService
type MockCheckinService struct {
	submitFunc func(ctx context.Context, userID uuid.UUID, req *domain.SubmitCheckinRequest) (*domain.CheckinResponse, bool, error)
	listFunc   func(ctx context.Context, userID uuid.UUID, filter domain.AnswerFilter) (*domain.AnswerListResponse, error)
}

func (m *MockCheckinService) Submit(ctx context.Context, userID uuid.UUID, req *domain.SubmitCheckinRequest) (*domain.CheckinResponse, bool, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, userID, req)
	}
	return &domain.CheckinResponse{
		Answers: []domain.AnswerResponse{},
		Quality: engine.QualityResult{Score: 100, ReasonSummary: "Looks good."},
		Signals: map[engine.SignalKey]float64{},
	}, false, nil
}

func (m *MockCheckinService) ListAnswers(ctx context.Context, userID uuid.UUID, filter domain.AnswerFilter) (*domain.AnswerListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, filter)
	}
	return &domain.AnswerListResponse{
		Data:       []domain.AnswerResponse{},
		Pagination: domain.PaginationResponse{HasMore: false},
	}, nil
}

// MockRapidService is a mock implementation of RapidService
type MockRapidService struct {
	startFunc  func(ctx context.Context, userID uuid.UUID) (*domain.RapidStartResponse, error)
	submitFunc func(ctx context.Context, userID uuid.UUID, req *domain.SubmitRapidRequest) (*domain.RapidEvaluationResponse, error)
	listFunc   func(ctx context.Context, userID uuid.UUID, filter domain.RapidFilter) (*domain.RapidListResponse, error)
}

func (m *MockRapidService) Start(ctx context.Context, userID uuid.UUID) (*domain.RapidStartResponse, error) {
	if m.startFunc != nil {
		return m.startFunc(ctx, userID)
	}
	return &domain.RapidStartResponse{
		SessionID: uuid.New(),
		StartedAt: time.Now().UTC(),
		Questions: []engine.Question{},
	}, nil
}

func (m *MockRapidService) Submit(ctx context.Context, userID uuid.UUID, req *domain.SubmitRapidRequest) (*domain.RapidEvaluationResponse, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, userID, req)
	}
	return &domain.RapidEvaluationResponse{
		ID:    uuid.New(),
		Level: engine.RapidGreen,
		Valid: true,
	}, nil
}

func (m *MockRapidService) List(ctx context.Context, userID uuid.UUID, filter domain.RapidFilter) (*domain.RapidListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, filter)
	}
	return &domain.RapidListResponse{
		Data:       []domain.RapidEvaluationResponse{},
		Pagination: domain.PaginationResponse{HasMore: false},
	}, nil
}

// MockInsightService is a mock implementation of InsightService
type MockInsightService struct {
	generateFunc   func(ctx context.Context, userID uuid.UUID, req *domain.InsightRequest) (*domain.InsightResponse, error)
	engagementFunc func(ctx context.Context, userID uuid.UUID) (*domain.EngagementResponse, error)
}

func (m *MockInsightService) Generate(ctx context.Context, userID uuid.UUID, req *domain.InsightRequest) (*domain.InsightResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, userID, req)
	}
	return &domain.InsightResponse{
		Date:       "2024-05-20",
		WindowDays: 14,
		Drift:      map[engine.SignalKey]engine.DriftEntry{},
	}, nil
}

func (m *MockInsightService) Engagement(ctx context.Context, userID uuid.UUID) (*domain.EngagementResponse, error) {
	if m.engagementFunc != nil {
		return m.engagementFunc(ctx, userID)
	}
	return &domain.EngagementResponse{}, nil
}

// MockBaselineService is a mock implementation of BaselineService
type MockBaselineService struct {
	computeFunc func(ctx context.Context, userID uuid.UUID, windowDays int, asOf time.Time) (*domain.BaselineRecord, error)
	latestFunc  func(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.BaselineRecord, error)
}

func (m *MockBaselineService) Compute(ctx context.Context, userID uuid.UUID, windowDays int, asOf time.Time) (*domain.BaselineRecord, error) {
	if m.computeFunc != nil {
		return m.computeFunc(ctx, userID, windowDays, asOf)
	}
	return &domain.BaselineRecord{UserID: userID, WindowDays: windowDays}, nil
}

func (m *MockBaselineService) Latest(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.BaselineRecord, error) {
	if m.latestFunc != nil {
		return m.latestFunc(ctx, userID, windowDays)
	}
	return &domain.BaselineRecord{
		ID:         uuid.New(),
		UserID:     userID,
		WindowDays: windowDays,
		Signals:    map[engine.SignalKey]engine.SignalStats{},
	}, nil
}

// MockSafetyService is a mock implementation of SafetyService
type MockSafetyService struct {
	recordFunc func(ctx context.Context, userID uuid.UUID, date time.Time, source domain.CrisisSource, result engine.CrisisResult) error
	listFunc   func(ctx context.Context, userID uuid.UUID, limit int) (*domain.CrisisEventListResponse, error)
}

func (m *MockSafetyService) Record(ctx context.Context, userID uuid.UUID, date time.Time, source domain.CrisisSource, result engine.CrisisResult) error {
	if m.recordFunc != nil {
		return m.recordFunc(ctx, userID, date, source, result)
	}
	return nil
}

func (m *MockSafetyService) List(ctx context.Context, userID uuid.UUID, limit int) (*domain.CrisisEventListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, limit)
	}
	return &domain.CrisisEventListResponse{Data: []domain.CrisisEventResponse{}}, nil
}

// MockRotationService is a mock implementation of RotationService
type MockRotationService struct {
	nextDailyFunc func(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.NextQuestionsResponse, error)
	nextMicroFunc func(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.NextQuestionsResponse, error)
	batteryFunc   func(ctx context.Context) ([]engine.Question, error)
}

func (m *MockRotationService) NextDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.NextQuestionsResponse, error) {
	if m.nextDailyFunc != nil {
		return m.nextDailyFunc(ctx, userID, date)
	}
	return &domain.NextQuestionsResponse{
		Date:      date.Format("2006-01-02"),
		Kind:      domain.QuestionKindDaily,
		Questions: []engine.Question{},
	}, nil
}

func (m *MockRotationService) NextMicro(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.NextQuestionsResponse, error) {
	if m.nextMicroFunc != nil {
		return m.nextMicroFunc(ctx, userID, date)
	}
	return &domain.NextQuestionsResponse{
		Date:      date.Format("2006-01-02"),
		Kind:      domain.QuestionKindMicro,
		Questions: []engine.Question{},
	}, nil
}

func (m *MockRotationService) RapidBattery(ctx context.Context) ([]engine.Question, error) {
	if m.batteryFunc != nil {
		return m.batteryFunc(ctx)
	}
	return []engine.Question{}, nil
}
