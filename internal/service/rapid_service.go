package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/engine"
	"github.com/mindtriage/mindtriage-api/internal/repository"
	"github.com/mindtriage/mindtriage-api/pkg/pagination"
)

const (
	// RapidCooldown is the minimum spacing between rapid submissions.
	RapidCooldown = 5 * time.Minute
	// RapidDailyLimit caps rapid submissions per trailing 24 hours.
	RapidDailyLimit = 3
	// RapidSessionTTL bounds how long a started session stays usable.
	RapidSessionTTL = 30 * time.Minute
)

// RapidService runs the start/submit pair of the rapid check-in flow.
// Timing is measured server side from the start call.
type RapidService interface {
	Start(ctx context.Context, userID uuid.UUID) (*domain.RapidStartResponse, error)
	Submit(ctx context.Context, userID uuid.UUID, req *domain.SubmitRapidRequest) (*domain.RapidEvaluationResponse, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.RapidFilter) (*domain.RapidListResponse, error)
}

type rapidService struct {
	rapidRepo  repository.RapidRepository
	answerRepo repository.AnswerRepository
	userRepo   repository.UserRepository
	rotation   RotationService
	safety     SafetyService
	now        func() time.Time
}

func NewRapidService(
	rapidRepo repository.RapidRepository,
	answerRepo repository.AnswerRepository,
	userRepo repository.UserRepository,
	rotation RotationService,
	safety SafetyService,
) RapidService {
	return &rapidService{
		rapidRepo:  rapidRepo,
		answerRepo: answerRepo,
		userRepo:   userRepo,
		rotation:   rotation,
		safety:     safety,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *rapidService) Start(ctx context.Context, userID uuid.UUID) (*domain.RapidStartResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	now := s.now()

	latest, err := s.rapidRepo.LatestEvaluation(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest != nil && now.Sub(latest.CreatedAt) < RapidCooldown {
		return nil, domain.ErrCooldownActive
	}

	count, err := s.rapidRepo.CountSince(ctx, userID, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	if count >= RapidDailyLimit {
		return nil, domain.ErrDailyLimitReached
	}

	session := &domain.RapidSession{
		ID:        uuid.New(),
		UserID:    userID,
		StartedAt: now,
	}
	if err := s.rapidRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	battery, err := s.rotation.RapidBattery(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.RapidStartResponse{
		SessionID: session.ID,
		StartedAt: session.StartedAt,
		Questions: battery,
	}, nil
}

func (s *rapidService) Submit(ctx context.Context, userID uuid.UUID, req *domain.SubmitRapidRequest) (*domain.RapidEvaluationResponse, error) {
	session, err := s.rapidRepo.GetSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if session.Completed {
		return nil, domain.ErrConflict
	}

	now := s.now()
	if now.Sub(session.StartedAt) > RapidSessionTTL {
		return nil, domain.ErrSessionExpired
	}
	seconds := now.Sub(session.StartedAt).Seconds()

	flags := engine.RapidValidity(req.Answers, seconds)
	if engine.DetectPatternedAnswers(req.Answers) {
		flags = append(flags, engine.FlagPatternedAnswers)
	}
	if engine.DetectExtremeOnlyAnswers(req.Answers) {
		flags = append(flags, engine.FlagExtremeOnlyAnswers)
	}

	lastValid, err := s.rapidRepo.LastValidEvaluation(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lastValid != nil && sameAnswers(lastValid.Answers, req.Answers) {
		flags = append(flags, engine.FlagDuplicateAnswers)
	}

	result := engine.ScoreRapid(req.Answers)
	valid := !hasHardFlag(flags)

	confidence := engine.RapidConfidence(seconds, flags)
	engagement := s.engagementBonus(ctx, userID, now)
	confidence = engine.ApplyEngagementBonus(confidence, engagement)

	eval := &domain.RapidEvaluation{
		UserID:          userID,
		SessionID:       session.ID,
		Score:           result.Score,
		Level:           result.Level,
		Explanations:    engine.TopExplanations(result.Explanations),
		ValidityFlags:   flags,
		Confidence:      confidence,
		DurationSeconds: seconds,
		Valid:           valid,
		Answers:         req.Answers,
	}
	if err := s.rapidRepo.CreateEvaluation(ctx, eval); err != nil {
		return nil, err
	}
	if err := s.rapidRepo.CompleteSession(ctx, session.ID); err != nil {
		return nil, err
	}

	if result.Level == engine.RapidRed {
		if err := s.safety.Record(ctx, userID, dateOnly(now), domain.CrisisSourceRapid, crisisFromRapid(req.Answers, result)); err != nil {
			return nil, err
		}
	}

	response := evalToResponse(eval)
	response.RecommendedActions = result.RecommendedActions
	response.CrisisGuidance = result.CrisisGuidance
	return response, nil
}

func (s *rapidService) List(ctx context.Context, userID uuid.UUID, filter domain.RapidFilter) (*domain.RapidListResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	evals, err := s.rapidRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	hasMore := len(evals) > limit
	if hasMore {
		evals = evals[:limit]
	}

	response := &domain.RapidListResponse{
		Data: make([]domain.RapidEvaluationResponse, len(evals)),
		Pagination: domain.PaginationResponse{
			HasMore: hasMore,
		},
	}
	for i := range evals {
		entry := evalToResponse(&evals[i])
		entry.RecommendedActions = engine.RecommendedActions(evals[i].Level)
		response.Data[i] = *entry
	}

	if hasMore && len(evals) > 0 {
		last := evals[len(evals)-1]
		cursor := &pagination.Cursor{
			ID:        last.ID,
			CreatedAt: last.CreatedAt,
		}
		response.Pagination.NextCursor = cursor.Encode()
	}

	return response, nil
}

// engagementBonus derives the additive confidence bonus from check-in
// consistency. Failures degrade to no bonus.
func (s *rapidService) engagementBonus(ctx context.Context, userID uuid.UUID, now time.Time) float64 {
	today := dateOnly(now)
	dates, err := s.answerRepo.DistinctEntryDates(ctx, userID, today.AddDate(0, 0, -EngagementLookbackDays), today)
	if err != nil {
		return 0
	}
	return engine.ComputeEngagement(dates, today).ConfidenceBonus
}

func hasHardFlag(flags []string) bool {
	for _, flag := range flags {
		if flag == engine.FlagTooFast || flag == engine.FlagFailedAttentionCheck {
			return true
		}
	}
	return false
}

func sameAnswers(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for key, value := range a {
		if b[key] != value {
			return false
		}
	}
	return true
}

// crisisFromRapid maps a RED rapid result onto the crisis vocabulary: a
// reported plan or intent is HIGH, any other RED is ELEVATED.
func crisisFromRapid(answers map[string]string, result engine.RapidResult) engine.CrisisResult {
	level := engine.CrisisElevated
	reason := "Rapid check-in scored in the highest risk tier."
	if planFlag, ok := engine.ParseYesNo(answers[engine.SlugRapidSelfHarmPlan]); ok && planFlag {
		level = engine.CrisisHigh
		reason = "Self-harm plan or intent reported on rapid check-in."
	}
	var terms []string
	for _, explanation := range engine.TopExplanations(result.Explanations) {
		terms = append(terms, string(explanation.Signal))
	}
	return engine.CrisisResult{
		IsCrisis:     true,
		Level:        level,
		Reason:       reason,
		MatchedTerms: terms,
	}
}

func evalToResponse(eval *domain.RapidEvaluation) *domain.RapidEvaluationResponse {
	return &domain.RapidEvaluationResponse{
		ID:              eval.ID,
		Level:           eval.Level,
		Score:           eval.Score,
		Explanations:    eval.Explanations,
		ValidityFlags:   eval.ValidityFlags,
		Valid:           eval.Valid,
		Confidence:      eval.Confidence,
		DurationSeconds: eval.DurationSeconds,
		CreatedAt:       eval.CreatedAt,
	}
}
