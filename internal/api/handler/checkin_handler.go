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

type CheckinHandler struct {
	service service.CheckinService
}

func NewCheckinHandler(service service.CheckinService) *CheckinHandler {
	return &CheckinHandler{service: service}
}

// Submit handles POST /v1/users/{userId}/checkins
// @Summary Submit a check-in
// @Description Submit a daily or micro check-in. Answers are normalized into signals, quality-scored and screened for safety. Use client_request_id for safe retries (idempotency). Returns 200 if duplicate request, 201 if new.
// @Tags checkins
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param request body domain.SubmitCheckinRequest true "Check-in submission"
// @Success 201 {object} domain.CheckinResponse "New check-in stored"
// @Success 200 {object} domain.CheckinResponse "Existing result returned (idempotent duplicate)"
// @Failure 400 {object} problem.Problem "Invalid request body, unknown question slug or kind mismatch"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/checkins [post]
func (h *CheckinHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	var req domain.SubmitCheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	response, isExisting, err := h.service.Submit(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.BadRequest("Unknown question slug or question does not belong to this check-in kind").Write(w)
			return
		}
		problem.InternalError("Failed to store check-in").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if isExisting {
		w.WriteHeader(http.StatusOK) // Return 200 for idempotent duplicate
	} else {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(response)
}

// ListAnswers handles GET /v1/users/{userId}/answers
// @Summary List stored answers
// @Description Fetch paginated answer history. Filter by entry date range and check-in kind. Results sorted by creation time descending.
// @Tags checkins
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param from query string false "Start of entry date range (YYYY-MM-DD)" format(date) example(2024-05-01)
// @Param to query string false "End of entry date range (YYYY-MM-DD)" format(date) example(2024-05-31)
// @Param kind query string false "Check-in kind filter" Enums(DAILY,MICRO)
// @Param limit query integer false "Results per page (1-100)" default(20) minimum(1) maximum(100)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.AnswerListResponse "Answers with pagination"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/answers [get]
func (h *CheckinHandler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	filter, fieldErrors := parseAnswerFilter(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	response, err := h.service.ListAnswers(r.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to list answers").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func parseAnswerFilter(r *http.Request) (domain.AnswerFilter, []problem.FieldError) {
	var filter domain.AnswerFilter
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

	if kindStr := r.URL.Query().Get("kind"); kindStr != "" {
		kind := domain.CheckinKind(kindStr)
		if kind != domain.CheckinKindDaily && kind != domain.CheckinKindMicro {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "kind",
				Message: "must be one of: DAILY MICRO",
			})
		} else {
			filter.Kind = &kind
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
