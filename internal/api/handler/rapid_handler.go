package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/api/validation"
	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/service"
	"github.com/mindtriage/mindtriage-api/pkg/problem"
)

type RapidHandler struct {
	service service.RapidService
}

func NewRapidHandler(service service.RapidService) *RapidHandler {
	return &RapidHandler{service: service}
}

// Start handles POST /v1/users/{userId}/rapid/start
// @Summary Start a rapid assessment session
// @Description Open a timed rapid assessment session and return the question battery. Sessions are rate limited: one per 5 minutes, three per 24 hours.
// @Tags rapid
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Success 201 {object} domain.RapidStartResponse "Session opened"
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 429 {object} problem.Problem "Cooldown active or daily limit reached"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/rapid/start [post]
func (h *RapidHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	response, err := h.service.Start(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			problem.NotFound("User not found").Write(w)
		case errors.Is(err, domain.ErrCooldownActive):
			problem.TooManyRequests("A rapid assessment was completed less than 5 minutes ago").Write(w)
		case errors.Is(err, domain.ErrDailyLimitReached):
			problem.TooManyRequests("Daily rapid assessment limit reached").Write(w)
		default:
			problem.InternalError("Failed to start rapid session").Write(w)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// Submit handles POST /v1/users/{userId}/rapid/submit
// @Summary Submit rapid assessment answers
// @Description Score a completed rapid session. Duration is measured server-side from session start. Invalid sessions (too fast, failed attention check) are stored but excluded from history defaults.
// @Tags rapid
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param request body domain.SubmitRapidRequest true "Session ID and answers keyed by question slug"
// @Success 201 {object} domain.RapidEvaluationResponse "Evaluation result"
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 404 {object} problem.Problem "Session not found or not owned by user"
// @Failure 409 {object} problem.Problem "Session already completed"
// @Failure 410 {object} problem.Problem "Session expired"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/rapid/submit [post]
func (h *RapidHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	var req domain.SubmitRapidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	response, err := h.service.Submit(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			problem.NotFound("Session not found").Write(w)
		case errors.Is(err, domain.ErrConflict):
			problem.Conflict("Session already completed").Write(w)
		case errors.Is(err, domain.ErrSessionExpired):
			problem.New(http.StatusGone, "session-expired", "Gone", "Session expired, start a new one").Write(w)
		default:
			problem.InternalError("Failed to score rapid session").Write(w)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// List handles GET /v1/users/{userId}/rapid
// @Summary List rapid evaluations
// @Description Fetch paginated rapid evaluation history, newest first.
// @Tags rapid
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param from query string false "Start of date range (YYYY-MM-DD)" format(date)
// @Param to query string false "End of date range (YYYY-MM-DD)" format(date)
// @Param limit query integer false "Results per page (1-100)" default(20) minimum(1) maximum(100)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.RapidListResponse "Evaluations with pagination"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/rapid [get]
func (h *RapidHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	filter, fieldErrors := parseRapidFilter(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	response, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to list rapid evaluations").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func parseRapidFilter(r *http.Request) (domain.RapidFilter, []problem.FieldError) {
	var filter domain.RapidFilter
	var fieldErrors []problem.FieldError

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "from",
				Message: "must be a date in YYYY-MM-DD format",
			})
		} else {
			filter.From = &from
		}
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "to",
				Message: "must be a date in YYYY-MM-DD format",
			})
		} else {
			filter.To = &to
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "limit",
				Message: "must be a positive integer",
			})
		} else {
			filter.Limit = limit
		}
	}

	filter.Cursor = r.URL.Query().Get("cursor")

	if len(fieldErrors) > 0 {
		return filter, fieldErrors
	}

	return filter, nil
}
