package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/cache"
	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/engine"
	"github.com/mindtriage/mindtriage-api/internal/repository"
	"github.com/mindtriage/mindtriage-api/pkg/pagination"
)

// recentTextsFallback is how many stored texts to use for duplicate
// detection when the cache is unavailable.
const recentTextsFallback = 10

type CheckinService interface {
	// Submit stores a daily or micro check-in.
	// Returns (response, isExisting, error) - isExisting is true when an
	// identical client_request_id was already processed.
	Submit(ctx context.Context, userID uuid.UUID, req *domain.SubmitCheckinRequest) (*domain.CheckinResponse, bool, error)
	ListAnswers(ctx context.Context, userID uuid.UUID, filter domain.AnswerFilter) (*domain.AnswerListResponse, error)
}

type checkinService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
	submissions  cache.SubmissionCache
	safety       SafetyService
}

func NewCheckinService(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	submissions cache.SubmissionCache,
	safety SafetyService,
) CheckinService {
	return &checkinService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
		submissions:  submissions,
		safety:       safety,
	}
}

func (s *checkinService) Submit(ctx context.Context, userID uuid.UUID, req *domain.SubmitCheckinRequest) (*domain.CheckinResponse, bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	entryDate, err := resolveEntryDate(req.EntryDate, user.Timezone)
	if err != nil {
		return nil, false, domain.ErrInvalidInput
	}

	// Idempotency: replay the stored result for a repeated request ID
	if req.ClientRequestID != nil && *req.ClientRequestID != "" {
		existing, err := s.answerRepo.GetByClientRequestID(ctx, userID, *req.ClientRequestID)
		if err != nil {
			return nil, false, err
		}
		if len(existing) > 0 {
			return responseFromStored(existing), true, nil
		}
	}

	// Resolve every slug against the catalog before touching anything
	questions := make([]*domain.QuestionRecord, len(req.Answers))
	wantKind := domain.QuestionKindDaily
	if req.Kind == domain.CheckinKindMicro {
		wantKind = domain.QuestionKindMicro
	}
	for i, input := range req.Answers {
		question, err := s.questionRepo.GetBySlug(ctx, input.QuestionSlug)
		if err != nil {
			if err == domain.ErrNotFound {
				return nil, false, domain.ErrInvalidInput
			}
			return nil, false, err
		}
		if question.Kind != wantKind {
			return nil, false, domain.ErrInvalidInput
		}
		questions[i] = question
	}

	// Normalize answers into signals, last write wins per key
	type normalized struct {
		key engine.SignalKey
		val float64
		ok  bool
	}
	signals := make(map[engine.SignalKey]float64)
	norms := make([]normalized, len(req.Answers))
	rawTexts := make([]string, len(req.Answers))
	for i, input := range req.Answers {
		rawTexts[i] = input.Text
		var n normalized
		if req.Kind == domain.CheckinKindMicro {
			n.key, n.val, n.ok = engine.NormalizeMicroAnswer(questions[i].Category, input.Text)
		} else {
			n.key, n.val, n.ok = engine.NormalizeDailyAnswer(questions[i].Category, input.Text)
		}
		norms[i] = n
		if n.ok {
			signals[n.key] = n.val
		}
	}

	recent, windowCount := s.submissionContext(ctx, userID)
	quality := engine.AssessStructuredQuality(rawTexts, recent, windowCount)

	crisisTexts := rawTexts
	if req.Note != "" {
		crisisTexts = append(append([]string{}, rawTexts...), req.Note)
	}
	var crisisInput engine.CrisisInput
	if hopelessness, ok := signals[engine.SignalHopelessness]; ok {
		crisisInput.HopelessnessScore = &hopelessness
	}
	crisis := engine.DetectCrisis(crisisTexts, crisisInput)

	answers := make([]*domain.Answer, len(req.Answers))
	for i, input := range req.Answers {
		answer := &domain.Answer{
			UserID:          userID,
			EntryDate:       entryDate,
			Kind:            req.Kind,
			QuestionID:      questions[i].ID,
			QuestionSlug:    questions[i].Slug,
			Category:        questions[i].Category,
			RawText:         input.Text,
			QualityScore:    quality.Score,
			QualityFlags:    quality.Flags,
			IsLowQuality:    quality.IsLowQuality,
			ClientRequestID: req.ClientRequestID,
		}
		if norms[i].ok {
			keyStr := string(norms[i].key)
			val := norms[i].val
			answer.SignalKey = &keyStr
			answer.SignalValue = &val
		}
		answers[i] = answer
	}

	if err := s.answerRepo.CreateBatch(ctx, answers); err != nil {
		return nil, false, err
	}

	// Cache bookkeeping is best effort; a cache outage never blocks a
	// submission.
	if s.submissions != nil {
		_ = s.submissions.RecordSubmission(ctx, userID.String(), rawTexts)
	}

	if err := s.safety.Record(ctx, userID, entryDate, domain.CrisisSourceCheckin, crisis); err != nil {
		return nil, false, err
	}

	response := &domain.CheckinResponse{
		Answers: make([]domain.AnswerResponse, len(answers)),
		Quality: quality,
		Crisis:  crisis,
		Signals: signals,
	}
	for i, answer := range answers {
		response.Answers[i] = answer.ToResponse()
	}
	return response, false, nil
}

func (s *checkinService) ListAnswers(ctx context.Context, userID uuid.UUID, filter domain.AnswerFilter) (*domain.AnswerListResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	answers, err := s.answerRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	hasMore := len(answers) > limit
	if hasMore {
		answers = answers[:limit]
	}

	response := &domain.AnswerListResponse{
		Data: make([]domain.AnswerResponse, len(answers)),
		Pagination: domain.PaginationResponse{
			HasMore: hasMore,
		},
	}
	for i, answer := range answers {
		response.Data[i] = answer.ToResponse()
	}

	if hasMore && len(answers) > 0 {
		last := answers[len(answers)-1]
		cursor := &pagination.Cursor{
			ID:        last.ID,
			CreatedAt: last.CreatedAt,
		}
		response.Pagination.NextCursor = cursor.Encode()
	}

	return response, nil
}

// submissionContext pulls the recent texts and window count the quality
// assessor needs, falling back to history when the cache is absent.
func (s *checkinService) submissionContext(ctx context.Context, userID uuid.UUID) ([]string, int) {
	if s.submissions != nil {
		recent, err := s.submissions.RecentTexts(ctx, userID.String())
		if err == nil {
			count, countErr := s.submissions.WindowCount(ctx, userID.String())
			if countErr != nil {
				count = 0
			}
			return recent, count
		}
	}
	recent, err := s.answerRepo.RecentTexts(ctx, userID, recentTextsFallback)
	if err != nil {
		return nil, 0
	}
	return recent, 0
}

// resolveEntryDate parses the requested date or derives today in the
// user's timezone. The result is a pure calendar date at UTC midnight.
func resolveEntryDate(raw, timezone string) (time.Time, error) {
	if raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, err
		}
		return parsed, nil
	}
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

// responseFromStored rebuilds the submission response from previously
// stored answers; the batch quality verdict is shared by every row.
func responseFromStored(answers []domain.Answer) *domain.CheckinResponse {
	response := &domain.CheckinResponse{
		Answers: make([]domain.AnswerResponse, len(answers)),
		Signals: make(map[engine.SignalKey]float64),
	}
	for i := range answers {
		response.Answers[i] = answers[i].ToResponse()
		if answers[i].SignalKey != nil && answers[i].SignalValue != nil {
			response.Signals[engine.SignalKey(*answers[i].SignalKey)] = *answers[i].SignalValue
		}
	}
	if len(answers) > 0 {
		response.Quality = engine.QualityResult{
			Score:         answers[0].QualityScore,
			Flags:         answers[0].QualityFlags,
			IsLowQuality:  answers[0].IsLowQuality,
			ReasonSummary: engine.SummarizeQualityFlags(answers[0].QualityFlags),
		}
	}
	return response
}
