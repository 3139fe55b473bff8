package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/engine"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	users map[uuid.UUID]*domain.User
	err   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[uuid.UUID]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[id]
	return ok, nil
}

// MockAnswerRepository is a mock implementation of AnswerRepository
type MockAnswerRepository struct {
	answers    []domain.Answer
	listResult []domain.Answer
	err        error
}

func NewMockAnswerRepository() *MockAnswerRepository {
	return &MockAnswerRepository{}
}

func (m *MockAnswerRepository) CreateBatch(ctx context.Context, answers []*domain.Answer) error {
	if m.err != nil {
		return m.err
	}
	for _, answer := range answers {
		if answer.ID == uuid.Nil {
			answer.ID = uuid.New()
		}
		answer.CreatedAt = time.Now()
		m.answers = append(m.answers, *answer)
	}
	return nil
}

func (m *MockAnswerRepository) List(ctx context.Context, userID uuid.UUID, filter domain.AnswerFilter) ([]domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.listResult != nil {
		result := make([]domain.Answer, len(m.listResult))
		copy(result, m.listResult)
		return result, nil
	}
	var result []domain.Answer
	for _, answer := range m.answers {
		if answer.UserID == userID {
			result = append(result, answer)
		}
	}
	return result, nil
}

func (m *MockAnswerRepository) ListInDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time, includeLowQuality bool) ([]domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.Answer
	for _, answer := range m.answers {
		if answer.UserID != userID {
			continue
		}
		if answer.EntryDate.Before(from) || answer.EntryDate.After(to) {
			continue
		}
		if answer.IsLowQuality && !includeLowQuality {
			continue
		}
		result = append(result, answer)
	}
	return result, nil
}

func (m *MockAnswerRepository) DistinctEntryDates(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, answer := range m.answers {
		if answer.UserID != userID || answer.IsLowQuality {
			continue
		}
		if answer.EntryDate.Before(from) || answer.EntryDate.After(to) {
			continue
		}
		if !seen[answer.EntryDate] {
			seen[answer.EntryDate] = true
			dates = append(dates, answer.EntryDate)
		}
	}
	return dates, nil
}

func (m *MockAnswerRepository) RecentQuestionIDs(ctx context.Context, userID uuid.UUID, kind domain.CheckinKind, since time.Time) (map[int64]bool, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids := make(map[int64]bool)
	for _, answer := range m.answers {
		if answer.UserID == userID && answer.Kind == kind && !answer.IsLowQuality && !answer.EntryDate.Before(since) {
			ids[answer.QuestionID] = true
		}
	}
	return ids, nil
}

func (m *MockAnswerRepository) AnsweredCategoriesSince(ctx context.Context, userID uuid.UUID, kind domain.CheckinKind, since time.Time) (map[string]bool, error) {
	if m.err != nil {
		return nil, m.err
	}
	categories := make(map[string]bool)
	for _, answer := range m.answers {
		if answer.UserID == userID && answer.Kind == kind && !answer.IsLowQuality && !answer.EntryDate.Before(since) {
			categories[answer.Category] = true
		}
	}
	return categories, nil
}

func (m *MockAnswerRepository) QuestionIDsOnDate(ctx context.Context, userID uuid.UUID, kind domain.CheckinKind, date time.Time) (map[int64]bool, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids := make(map[int64]bool)
	for _, answer := range m.answers {
		if answer.UserID == userID && answer.Kind == kind && answer.EntryDate.Equal(date) {
			ids[answer.QuestionID] = true
		}
	}
	return ids, nil
}

func (m *MockAnswerRepository) RecentTexts(ctx context.Context, userID uuid.UUID, limit int) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var texts []string
	for i := len(m.answers) - 1; i >= 0 && len(texts) < limit; i-- {
		if m.answers[i].UserID == userID {
			texts = append(texts, m.answers[i].RawText)
		}
	}
	return texts, nil
}

func (m *MockAnswerRepository) GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) ([]domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.Answer
	for _, answer := range m.answers {
		if answer.UserID == userID && answer.ClientRequestID != nil && *answer.ClientRequestID == clientRequestID {
			result = append(result, answer)
		}
	}
	return result, nil
}

// MockQuestionRepository is a mock implementation of QuestionRepository
// backed by the static catalog.
type MockQuestionRepository struct {
	records []domain.QuestionRecord
	err     error
}

func NewMockQuestionRepository() *MockQuestionRepository {
	return &MockQuestionRepository{
		records: domain.AllQuestions(),
	}
}

func (m *MockQuestionRepository) UpsertAll(ctx context.Context, questions []domain.QuestionRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = questions
	return nil
}

func (m *MockQuestionRepository) ListByKind(ctx context.Context, kind domain.QuestionKind) ([]domain.QuestionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.QuestionRecord
	for _, record := range m.records {
		if record.Kind == kind {
			result = append(result, record)
		}
	}
	return result, nil
}

func (m *MockQuestionRepository) GetBySlug(ctx context.Context, slug string) (*domain.QuestionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.records {
		if m.records[i].Slug == slug {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// MockRapidRepository is a mock implementation of RapidRepository
type MockRapidRepository struct {
	sessions map[uuid.UUID]*domain.RapidSession
	evals    []domain.RapidEvaluation
	err      error
}

func NewMockRapidRepository() *MockRapidRepository {
	return &MockRapidRepository{
		sessions: make(map[uuid.UUID]*domain.RapidSession),
	}
}

func (m *MockRapidRepository) CreateSession(ctx context.Context, session *domain.RapidSession) error {
	if m.err != nil {
		return m.err
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()
	m.sessions[session.ID] = session
	return nil
}

func (m *MockRapidRepository) GetSession(ctx context.Context, id uuid.UUID) (*domain.RapidSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	session, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

func (m *MockRapidRepository) CompleteSession(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	session, ok := m.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	session.Completed = true
	return nil
}

func (m *MockRapidRepository) CreateEvaluation(ctx context.Context, eval *domain.RapidEvaluation) error {
	if m.err != nil {
		return m.err
	}
	if eval.ID == uuid.Nil {
		eval.ID = uuid.New()
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now()
	}
	m.evals = append(m.evals, *eval)
	return nil
}

func (m *MockRapidRepository) List(ctx context.Context, userID uuid.UUID, filter domain.RapidFilter) ([]domain.RapidEvaluation, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.RapidEvaluation
	for i := len(m.evals) - 1; i >= 0; i-- {
		if m.evals[i].UserID == userID {
			result = append(result, m.evals[i])
		}
	}
	return result, nil
}

func (m *MockRapidRepository) LatestEvaluation(ctx context.Context, userID uuid.UUID) (*domain.RapidEvaluation, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := len(m.evals) - 1; i >= 0; i-- {
		if m.evals[i].UserID == userID {
			eval := m.evals[i]
			return &eval, nil
		}
	}
	return nil, nil
}

func (m *MockRapidRepository) LastValidEvaluation(ctx context.Context, userID uuid.UUID) (*domain.RapidEvaluation, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := len(m.evals) - 1; i >= 0; i-- {
		if m.evals[i].UserID == userID && m.evals[i].Valid {
			eval := m.evals[i]
			return &eval, nil
		}
	}
	return nil, nil
}

func (m *MockRapidRepository) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var count int64
	for _, eval := range m.evals {
		if eval.UserID == userID && !eval.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// MockCrisisRepository is a mock implementation of CrisisRepository
type MockCrisisRepository struct {
	events []domain.CrisisEvent
	err    error
}

func NewMockCrisisRepository() *MockCrisisRepository {
	return &MockCrisisRepository{}
}

func (m *MockCrisisRepository) CreateIfAbsent(ctx context.Context, event *domain.CrisisEvent) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, existing := range m.events {
		if existing.UserID == event.UserID &&
			existing.EventDate.Equal(event.EventDate) &&
			existing.Source == event.Source &&
			existing.Level == event.Level {
			return false, nil
		}
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	m.events = append(m.events, *event)
	return true, nil
}

func (m *MockCrisisRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.CrisisEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.CrisisEvent
	for i := len(m.events) - 1; i >= 0 && len(result) < limit; i-- {
		if m.events[i].UserID == userID {
			result = append(result, m.events[i])
		}
	}
	return result, nil
}

// MockBaselineRepository is a mock implementation of BaselineRepository
type MockBaselineRepository struct {
	records []domain.BaselineRecord
	err     error
}

func NewMockBaselineRepository() *MockBaselineRepository {
	return &MockBaselineRepository{}
}

func (m *MockBaselineRepository) Create(ctx context.Context, record *domain.BaselineRecord) error {
	if m.err != nil {
		return m.err
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()
	m.records = append(m.records, *record)
	return nil
}

func (m *MockBaselineRepository) Latest(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.BaselineRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].UserID == userID && m.records[i].WindowDays == windowDays {
			record := m.records[i]
			return &record, nil
		}
	}
	return nil, domain.ErrNotFound
}

// MockSubmissionCache is a mock implementation of cache.SubmissionCache
type MockSubmissionCache struct {
	texts map[string][]string
	count map[string]int
	err   error
}

func NewMockSubmissionCache() *MockSubmissionCache {
	return &MockSubmissionCache{
		texts: make(map[string][]string),
		count: make(map[string]int),
	}
}

func (m *MockSubmissionCache) RecordSubmission(ctx context.Context, userID string, texts []string) error {
	if m.err != nil {
		return m.err
	}
	m.texts[userID] = append(texts, m.texts[userID]...)
	m.count[userID]++
	return nil
}

func (m *MockSubmissionCache) RecentTexts(ctx context.Context, userID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.texts[userID], nil
}

func (m *MockSubmissionCache) WindowCount(ctx context.Context, userID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.count[userID], nil
}

// MockNarrativeLLM is a canned narrative generator.
type MockNarrativeLLM struct {
	output *domain.LLMNarrativeOutput
	err    error
	calls  int
}

func (m *MockNarrativeLLM) GenerateNarrative(ctx context.Context, insight *domain.InsightContext) (*domain.LLMNarrativeOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func newTestSafetyService(userRepo *MockUserRepository, crisisRepo *MockCrisisRepository) SafetyService {
	return NewSafetyService(crisisRepo, userRepo)
}

func dailyAnswer(userID uuid.UUID, date time.Time, questionID int64, category string, key engine.SignalKey, value float64) domain.Answer {
	keyStr := string(key)
	return domain.Answer{
		ID:           uuid.New(),
		UserID:       userID,
		EntryDate:    date,
		Kind:         domain.CheckinKindDaily,
		QuestionID:   questionID,
		Category:     category,
		SignalKey:    &keyStr,
		SignalValue:  &value,
		QualityScore: 100,
		CreatedAt:    date,
	}
}
