package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/service"
	"github.com/mindtriage/mindtriage-api/pkg/problem"
)

type QuestionHandler struct {
	rotation service.RotationService
}

func NewQuestionHandler(rotation service.RotationService) *QuestionHandler {
	return &QuestionHandler{rotation: rotation}
}

// NextDaily handles GET /v1/users/{userId}/questions/daily
// @Summary Get today's daily questions
// @Description Return the core questions plus a deterministic rotating selection for the date. Questions already answered today are omitted; the same user, date and salt always produce the same selection.
// @Tags questions
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param date query string false "Target date (YYYY-MM-DD), defaults to today UTC" format(date)
// @Success 200 {object} domain.NextQuestionsResponse "Ordered questions"
// @Failure 400 {object} problem.Problem "Invalid parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/questions/daily [get]
func (h *QuestionHandler) NextDaily(w http.ResponseWriter, r *http.Request) {
	h.next(w, r, h.rotation.NextDaily)
}

// NextMicro handles GET /v1/users/{userId}/questions/micro
// @Summary Get today's micro pulse questions
// @Description Return a small deterministic selection of quick pulse questions, preferring categories the user has not covered recently.
// @Tags questions
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param date query string false "Target date (YYYY-MM-DD), defaults to today UTC" format(date)
// @Success 200 {object} domain.NextQuestionsResponse "Ordered questions"
// @Failure 400 {object} problem.Problem "Invalid parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/questions/micro [get]
func (h *QuestionHandler) NextMicro(w http.ResponseWriter, r *http.Request) {
	h.next(w, r, h.rotation.NextMicro)
}

// RapidBattery handles GET /v1/questions/rapid
// @Summary Get the rapid assessment battery
// @Description Return the fixed rapid question battery in presentation order. The battery is the same for every user.
// @Tags questions
// @Produce json
// @Success 200 {array} engine.Question "Battery in order"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /questions/rapid [get]
func (h *QuestionHandler) RapidBattery(w http.ResponseWriter, r *http.Request) {
	questions, err := h.rotation.RapidBattery(r.Context())
	if err != nil {
		problem.InternalError("Failed to load rapid battery").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(questions)
}

type nextFunc func(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.NextQuestionsResponse, error)

func (h *QuestionHandler) next(w http.ResponseWriter, r *http.Request, selector nextFunc) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			problem.ValidationError("Invalid query parameters", []problem.FieldError{
				{Field: "date", Message: "must be a date in YYYY-MM-DD format"},
			}).Write(w)
			return
		}
		date = parsed
	}

	response, err := selector(r.Context(), userID, date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to select questions").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
