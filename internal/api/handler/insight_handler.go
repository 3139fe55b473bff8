package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/api/validation"
	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/service"
	"github.com/mindtriage/mindtriage-api/pkg/problem"
)

type InsightHandler struct {
	insights service.InsightService
	baseline service.BaselineService
	safety   service.SafetyService
}

func NewInsightHandler(insights service.InsightService, baseline service.BaselineService, safety service.SafetyService) *InsightHandler {
	return &InsightHandler{insights: insights, baseline: baseline, safety: safety}
}

// Daily handles GET /v1/users/{userId}/insights/daily
// @Summary Generate a daily insight report
// @Description Compare the given day's signals against the user's rolling baseline and return per-signal drift, top changes, confidence and recommendations. A narrative summary is attached when an LLM is configured; narrative failures never fail the report.
// @Tags insights
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param date query string false "Report date (YYYY-MM-DD), defaults to today in the user's timezone" format(date)
// @Param window_days query integer false "Baseline window in days (7-90)" default(14) minimum(7) maximum(90)
// @Param skip_narrative query boolean false "Skip the LLM narrative even when configured" default(false)
// @Success 200 {object} domain.InsightResponse "Drift report"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/insights/daily [get]
func (h *InsightHandler) Daily(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	req := domain.InsightRequest{
		Date: r.URL.Query().Get("date"),
	}

	windowDays, fieldErr := parseIntParam(r, "window_days", 14)
	if fieldErr != nil {
		problem.ValidationError("Invalid query parameters", []problem.FieldError{*fieldErr}).Write(w)
		return
	}
	req.WindowDays = windowDays

	if skipStr := r.URL.Query().Get("skip_narrative"); skipStr != "" {
		skip, err := strconv.ParseBool(skipStr)
		if err != nil {
			problem.ValidationError("Invalid query parameters", []problem.FieldError{
				{Field: "skip_narrative", Message: "must be a boolean"},
			}).Write(w)
			return
		}
		req.SkipNarrative = skip
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	response, err := h.insights.Generate(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to generate insight report").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Baseline handles GET /v1/users/{userId}/baseline
// @Summary Get the user's baseline
// @Description Return the latest stored baseline for the window, computing one on the fly if none exists. Per-signal stats are null until at least 7 samples cover 70% of the window.
// @Tags insights
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param window_days query integer false "Baseline window in days (7-90)" default(14) minimum(7) maximum(90)
// @Success 200 {object} domain.BaselineResponse "Baseline snapshot"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/baseline [get]
func (h *InsightHandler) Baseline(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	windowDays, fieldErr := parseIntParam(r, "window_days", service.DefaultBaselineWindowDays)
	if fieldErr != nil {
		problem.ValidationError("Invalid query parameters", []problem.FieldError{*fieldErr}).Write(w)
		return
	}
	if windowDays < 7 || windowDays > 90 {
		problem.ValidationError("Invalid query parameters", []problem.FieldError{
			{Field: "window_days", Message: "must be between 7 and 90"},
		}).Write(w)
		return
	}

	record, err := h.baseline.Latest(r.Context(), userID, windowDays)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to compute baseline").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record.ToResponse())
}

// Engagement handles GET /v1/users/{userId}/engagement
// @Summary Get engagement metrics
// @Description Return answered days over the last week, current and best streaks, and the confidence bonus streaks earn.
// @Tags insights
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Success 200 {object} domain.EngagementResponse "Engagement summary"
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/engagement [get]
func (h *InsightHandler) Engagement(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	response, err := h.insights.Engagement(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to compute engagement").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// SafetyEvents handles GET /v1/users/{userId}/safety-events
// @Summary List safety events
// @Description Return recorded safety events, newest first. Events are deduplicated per user, day, source and level.
// @Tags safety
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param limit query integer false "Maximum events to return (1-100)" default(50) minimum(1) maximum(100)
// @Success 200 {object} domain.CrisisEventListResponse "Safety events"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/safety-events [get]
func (h *InsightHandler) SafetyEvents(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	limit, fieldErr := parseIntParam(r, "limit", 50)
	if fieldErr != nil {
		problem.ValidationError("Invalid query parameters", []problem.FieldError{*fieldErr}).Write(w)
		return
	}

	response, err := h.safety.List(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to list safety events").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func parseIntParam(r *http.Request, name string, fallback int) (int, *problem.FieldError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, &problem.FieldError{Field: name, Message: "must be a positive integer"}
	}
	return value, nil
}
