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
	// DailyRotatingCount is how many rotating questions join the core set.
	DailyRotatingCount = 2
	// MicroCount is how many pulse questions are offered per day.
	MicroCount = 2
)

// RotationService selects the questions a user should see on a given
// date. Selection is deterministic per user, date and kind: refreshing
// the page never reshuffles.
type RotationService interface {
	NextDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.NextQuestionsResponse, error)
	NextMicro(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.NextQuestionsResponse, error)
	RapidBattery(ctx context.Context) ([]engine.Question, error)
}

type rotationService struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	userRepo     repository.UserRepository
	salt         string
}

func NewRotationService(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	userRepo repository.UserRepository,
	salt string,
) RotationService {
	return &rotationService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
		salt:         salt,
	}
}

func (s *rotationService) NextDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.NextQuestionsResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	records, err := s.questionRepo.ListByKind(ctx, domain.QuestionKindDaily)
	if err != nil {
		return nil, err
	}

	var core, rotating []engine.Question
	rotatingCategories := make(map[string]bool)
	for _, record := range records {
		if record.Core {
			core = append(core, record.ToEngine())
		} else {
			rotating = append(rotating, record.ToEngine())
			rotatingCategories[record.Category] = true
		}
	}

	answeredToday, err := s.answerRepo.QuestionIDsOnDate(ctx, userID, domain.CheckinKindDaily, date)
	if err != nil {
		return nil, err
	}

	lookback := date.AddDate(0, 0, -engine.RotationLookbackDays)
	recentIDs, err := s.answerRepo.RecentQuestionIDs(ctx, userID, domain.CheckinKindDaily, lookback)
	if err != nil {
		return nil, err
	}
	covered, err := s.answerRepo.AnsweredCategoriesSince(ctx, userID, domain.CheckinKindDaily, lookback)
	if err != nil {
		return nil, err
	}
	missing := make(map[string]bool)
	for category := range rotatingCategories {
		if !covered[category] {
			missing[category] = true
		}
	}

	seed := engine.RotationSeed(userID.String(), date, "daily", s.salt)
	selected := engine.SelectQuestions(rotating, missing, recentIDs, answeredToday, DailyRotatingCount, seed)

	// Core questions lead unless already answered today.
	questions := make([]engine.Question, 0, len(core)+len(selected))
	for _, q := range core {
		if !answeredToday[q.ID] {
			questions = append(questions, q)
		}
	}
	questions = append(questions, selected...)

	return &domain.NextQuestionsResponse{
		Date:      date.Format("2006-01-02"),
		Kind:      domain.QuestionKindDaily,
		Questions: questions,
	}, nil
}

func (s *rotationService) NextMicro(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.NextQuestionsResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	records, err := s.questionRepo.ListByKind(ctx, domain.QuestionKindMicro)
	if err != nil {
		return nil, err
	}
	pool := make([]engine.Question, 0, len(records))
	poolCategories := make(map[string]bool)
	for _, record := range records {
		pool = append(pool, record.ToEngine())
		poolCategories[record.Category] = true
	}

	answeredToday, err := s.answerRepo.QuestionIDsOnDate(ctx, userID, domain.CheckinKindMicro, date)
	if err != nil {
		return nil, err
	}

	lookback := date.AddDate(0, 0, -engine.RotationLookbackDays)
	recentIDs, err := s.answerRepo.RecentQuestionIDs(ctx, userID, domain.CheckinKindMicro, lookback)
	if err != nil {
		return nil, err
	}
	covered, err := s.answerRepo.AnsweredCategoriesSince(ctx, userID, domain.CheckinKindMicro, lookback)
	if err != nil {
		return nil, err
	}
	missing := make(map[string]bool)
	for category := range poolCategories {
		if !covered[category] {
			missing[category] = true
		}
	}

	seed := engine.RotationSeed(userID.String(), date, "micro", s.salt)
	selected := engine.SelectQuestions(pool, missing, recentIDs, answeredToday, MicroCount, seed)

	return &domain.NextQuestionsResponse{
		Date:      date.Format("2006-01-02"),
		Kind:      domain.QuestionKindMicro,
		Questions: selected,
	}, nil
}

func (s *rotationService) RapidBattery(ctx context.Context) ([]engine.Question, error) {
	records, err := s.questionRepo.ListByKind(ctx, domain.QuestionKindRapid)
	if err != nil {
		return nil, err
	}
	questions := make([]engine.Question, 0, len(records))
	for _, record := range records {
		questions = append(questions, record.ToEngine())
	}
	return questions, nil
}
