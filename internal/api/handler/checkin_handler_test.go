package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/engine"
)

func TestCheckinHandler_Submit(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		userID         string
		body           string
		mockService    *MockCheckinService
		wantStatusCode int
	}{
		{
			name:           "valid daily check-in",
			userID:         userID.String(),
			body:           `{"kind": "DAILY", "answers": [{"question_slug": "daily_mood", "text": "7"}]}`,
			mockService:    &MockCheckinService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:   "idempotent replay returns 200",
			userID: userID.String(),
			body:   `{"kind": "DAILY", "answers": [{"question_slug": "daily_mood", "text": "7"}], "client_request_id": "req-1"}`,
			mockService: &MockCheckinService{
				submitFunc: func(ctx context.Context, userID uuid.UUID, req *domain.SubmitCheckinRequest) (*domain.CheckinResponse, bool, error) {
					return &domain.CheckinResponse{}, true, nil
				},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid JSON",
			userID:         userID.String(),
			body:           `{invalid}`,
			mockService:    &MockCheckinService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid kind",
			userID:         userID.String(),
			body:           `{"kind": "WEEKLY", "answers": [{"question_slug": "daily_mood", "text": "7"}]}`,
			mockService:    &MockCheckinService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "empty answers",
			userID:         userID.String(),
			body:           `{"kind": "DAILY", "answers": []}`,
			mockService:    &MockCheckinService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "invalid user ID",
			userID:         "not-a-uuid",
			body:           `{"kind": "DAILY", "answers": [{"question_slug": "daily_mood", "text": "7"}]}`,
			mockService:    &MockCheckinService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "unknown question slug",
			userID: userID.String(),
			body:   `{"kind": "DAILY", "answers": [{"question_slug": "daily_bogus", "text": "7"}]}`,
			mockService: &MockCheckinService{
				submitFunc: func(ctx context.Context, userID uuid.UUID, req *domain.SubmitCheckinRequest) (*domain.CheckinResponse, bool, error) {
					return nil, false, domain.ErrInvalidInput
				},
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "user not found",
			userID: uuid.New().String(),
			body:   `{"kind": "DAILY", "answers": [{"question_slug": "daily_mood", "text": "7"}]}`,
			mockService: &MockCheckinService{
				submitFunc: func(ctx context.Context, userID uuid.UUID, req *domain.SubmitCheckinRequest) (*domain.CheckinResponse, bool, error) {
					return nil, false, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCheckinHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodPost, "/v1/users/"+tt.userID+"/checkins", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = withUserParam(req, tt.userID)
			rec := httptest.NewRecorder()

			handler.Submit(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("Submit() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestCheckinHandler_ListAnswers(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		userID         string
		query          string
		mockService    *MockCheckinService
		wantStatusCode int
	}{
		{
			name:           "default listing",
			userID:         userID.String(),
			mockService:    &MockCheckinService{},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "with filters",
			userID:         userID.String(),
			query:          "?from=2024-05-01&to=2024-05-31&kind=DAILY&limit=10",
			mockService:    &MockCheckinService{},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "bad date",
			userID:         userID.String(),
			query:          "?from=yesterday",
			mockService:    &MockCheckinService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "bad kind",
			userID:         userID.String(),
			query:          "?kind=WEEKLY",
			mockService:    &MockCheckinService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "bad limit",
			userID:         userID.String(),
			query:          "?limit=zero",
			mockService:    &MockCheckinService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "invalid user ID",
			userID:         "not-a-uuid",
			mockService:    &MockCheckinService{},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCheckinHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodGet, "/v1/users/"+tt.userID+"/answers"+tt.query, nil)
			req = withUserParam(req, tt.userID)
			rec := httptest.NewRecorder()

			handler.ListAnswers(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("ListAnswers() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestCheckinHandler_ListAnswers_FilterPassthrough(t *testing.T) {
	userID := uuid.New()
	var captured domain.AnswerFilter
	mockService := &MockCheckinService{
		listFunc: func(ctx context.Context, id uuid.UUID, filter domain.AnswerFilter) (*domain.AnswerListResponse, error) {
			captured = filter
			return &domain.AnswerListResponse{Data: []domain.AnswerResponse{}}, nil
		},
	}
	handler := NewCheckinHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/"+userID.String()+"/answers?from=2024-05-01&kind=MICRO&limit=5&cursor=abc", nil)
	req = withUserParam(req, userID.String())
	rec := httptest.NewRecorder()

	handler.ListAnswers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if captured.From == nil || captured.From.Format("2006-01-02") != "2024-05-01" {
		t.Errorf("From not passed through: %v", captured.From)
	}
	if captured.Kind == nil || *captured.Kind != domain.CheckinKindMicro {
		t.Errorf("Kind not passed through: %v", captured.Kind)
	}
	if captured.Limit != 5 {
		t.Errorf("Limit = %d, want 5", captured.Limit)
	}
	if captured.Cursor != "abc" {
		t.Errorf("Cursor = %q, want abc", captured.Cursor)
	}

	var response domain.AnswerListResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Errorf("Failed to decode response: %v", err)
	}
}

func TestCheckinHandler_Submit_ResponseBody(t *testing.T) {
	userID := uuid.New()
	mockService := &MockCheckinService{
		submitFunc: func(ctx context.Context, id uuid.UUID, req *domain.SubmitCheckinRequest) (*domain.CheckinResponse, bool, error) {
			return &domain.CheckinResponse{
				Quality: engine.QualityResult{Score: 85, Flags: []string{engine.FlagTooShort}, ReasonSummary: "Too short"},
				Crisis:  engine.CrisisResult{Level: engine.CrisisNone},
				Signals: map[engine.SignalKey]float64{engine.SignalMood: 7},
			}, false, nil
		},
	}
	handler := NewCheckinHandler(mockService)

	body := `{"kind": "DAILY", "answers": [{"question_slug": "daily_mood", "text": "7"}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/users/"+userID.String()+"/checkins", bytes.NewBufferString(body))
	req = withUserParam(req, userID.String())
	rec := httptest.NewRecorder()

	handler.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var response domain.CheckinResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Quality.Score != 85 {
		t.Errorf("quality score = %d, want 85", response.Quality.Score)
	}
	if response.Signals[engine.SignalMood] != 7 {
		t.Errorf("mood signal = %v, want 7", response.Signals[engine.SignalMood])
	}
}
