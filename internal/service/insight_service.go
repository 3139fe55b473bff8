package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/engine"
	"github.com/mindtriage/mindtriage-api/internal/llm"
	"github.com/mindtriage/mindtriage-api/internal/repository"
)

// EngagementLookbackDays bounds the history pulled for streak math.
const EngagementLookbackDays = 90

// InsightService builds the daily drift report: today's signals against
// the user's baseline, with confidence, recommendations and an optional
// LLM narrative.
type InsightService interface {
	Generate(ctx context.Context, userID uuid.UUID, req *domain.InsightRequest) (*domain.InsightResponse, error)
	Engagement(ctx context.Context, userID uuid.UUID) (*domain.EngagementResponse, error)
}

type insightService struct {
	baselineService BaselineService
	answerRepo      repository.AnswerRepository
	userRepo        repository.UserRepository
	llmClient       llm.NarrativeLLM
}

func NewInsightService(
	baselineService BaselineService,
	answerRepo repository.AnswerRepository,
	userRepo repository.UserRepository,
	llmClient llm.NarrativeLLM,
) InsightService {
	return &insightService{
		baselineService: baselineService,
		answerRepo:      answerRepo,
		userRepo:        userRepo,
		llmClient:       llmClient,
	}
}

func (s *insightService) Generate(ctx context.Context, userID uuid.UUID, req *domain.InsightRequest) (*domain.InsightResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	date, err := resolveEntryDate(req.Date, user.Timezone)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	windowDays := req.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultBaselineWindowDays
	}

	tracer := otel.Tracer("mindtriage-api/insights")
	ctx, span := tracer.Start(ctx, "InsightService.Generate",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.String("report.date", date.Format("2006-01-02")),
			attribute.Int("baseline.window_days", windowDays),
		),
	)
	defer span.End()

	// Attach input payload for Langfuse
	inputPayload := map[string]any{
		"user_id":     userID.String(),
		"date":        date.Format("2006-01-02"),
		"window_days": windowDays,
	}
	if inputJSON, err := json.Marshal(inputPayload); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.input", string(inputJSON)))
	}

	// Baseline covers the window ending the day before the report date,
	// so today's answers never dilute their own comparison.
	baseline, err := s.baselineService.Compute(ctx, userID, windowDays, date.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	todayAnswers, err := s.answerRepo.ListInDateRange(ctx, userID, date, date, false)
	if err != nil {
		return nil, err
	}
	today := engine.SignalVector{}
	for day, vector := range signalsByDay(todayAnswers) {
		if day.Equal(date) {
			today = vector
		}
	}

	report := engine.ComputeDrift(today, baseline.Signals)

	response := &domain.InsightResponse{
		Date:            date.Format("2006-01-02"),
		WindowDays:      windowDays,
		Drift:           report.Drift,
		TopChanges:      report.TopChanges,
		Confidence:      report.Confidence,
		Recommendations: report.Recommendations,
	}

	// The narrative is an enhancement; report generation never fails
	// because the LLM did.
	if s.llmClient != nil && !req.SkipNarrative {
		narrativeCtx := &domain.InsightContext{
			Date:     response.Date,
			Baseline: baseline.Signals,
			Report:   report,
		}
		if narrative, err := s.llmClient.GenerateNarrative(ctx, narrativeCtx); err == nil {
			response.Narrative = narrative
		}
	}

	if spanCtx := span.SpanContext(); spanCtx.HasTraceID() {
		response.TraceID = spanCtx.TraceID().String()
	}

	// Attach output payload for Langfuse
	if outputJSON, err := json.Marshal(report); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.output", string(outputJSON)))
	}

	return response, nil
}

func (s *insightService) Engagement(ctx context.Context, userID uuid.UUID) (*domain.EngagementResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	today := dateOnly(time.Now().UTC())
	from := today.AddDate(0, 0, -EngagementLookbackDays)
	dates, err := s.answerRepo.DistinctEntryDates(ctx, userID, from, today)
	if err != nil {
		return nil, err
	}

	signal := engine.ComputeEngagement(dates, today)
	return &domain.EngagementResponse{
		AnsweredLast7Days: signal.AnsweredLast7Days,
		StreakDays:        signal.StreakDays,
		BestStreakDays:    engine.BestStreak(dates),
		ConfidenceBonus:   signal.ConfidenceBonus,
	}, nil
}
