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

func TestRapidHandler_Start(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		userID         string
		mockService    *MockRapidService
		wantStatusCode int
	}{
		{
			name:           "session opened",
			userID:         userID.String(),
			mockService:    &MockRapidService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:   "cooldown active",
			userID: userID.String(),
			mockService: &MockRapidService{
				startFunc: func(ctx context.Context, userID uuid.UUID) (*domain.RapidStartResponse, error) {
					return nil, domain.ErrCooldownActive
				},
			},
			wantStatusCode: http.StatusTooManyRequests,
		},
		{
			name:   "daily limit reached",
			userID: userID.String(),
			mockService: &MockRapidService{
				startFunc: func(ctx context.Context, userID uuid.UUID) (*domain.RapidStartResponse, error) {
					return nil, domain.ErrDailyLimitReached
				},
			},
			wantStatusCode: http.StatusTooManyRequests,
		},
		{
			name:   "user not found",
			userID: uuid.New().String(),
			mockService: &MockRapidService{
				startFunc: func(ctx context.Context, userID uuid.UUID) (*domain.RapidStartResponse, error) {
					return nil, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "invalid user ID",
			userID:         "not-a-uuid",
			mockService:    &MockRapidService{},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewRapidHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodPost, "/v1/users/"+tt.userID+"/rapid/start", nil)
			req = withUserParam(req, tt.userID)
			rec := httptest.NewRecorder()

			handler.Start(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("Start() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestRapidHandler_Submit(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()
	validBody := `{"session_id": "` + sessionID.String() + `", "answers": {"rapid_mood": "7"}}`

	tests := []struct {
		name           string
		body           string
		mockService    *MockRapidService
		wantStatusCode int
	}{
		{
			name:           "scored",
			body:           validBody,
			mockService:    &MockRapidService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid JSON",
			body:           `{invalid}`,
			mockService:    &MockRapidService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing session ID",
			body:           `{"answers": {"rapid_mood": "7"}}`,
			mockService:    &MockRapidService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "empty answers",
			body:           `{"session_id": "` + sessionID.String() + `", "answers": {}}`,
			mockService:    &MockRapidService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "session not found",
			body: validBody,
			mockService: &MockRapidService{
				submitFunc: func(ctx context.Context, userID uuid.UUID, req *domain.SubmitRapidRequest) (*domain.RapidEvaluationResponse, error) {
					return nil, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "already completed",
			body: validBody,
			mockService: &MockRapidService{
				submitFunc: func(ctx context.Context, userID uuid.UUID, req *domain.SubmitRapidRequest) (*domain.RapidEvaluationResponse, error) {
					return nil, domain.ErrConflict
				},
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "expired session",
			body: validBody,
			mockService: &MockRapidService{
				submitFunc: func(ctx context.Context, userID uuid.UUID, req *domain.SubmitRapidRequest) (*domain.RapidEvaluationResponse, error) {
					return nil, domain.ErrSessionExpired
				},
			},
			wantStatusCode: http.StatusGone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewRapidHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodPost, "/v1/users/"+userID.String()+"/rapid/submit", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = withUserParam(req, userID.String())
			rec := httptest.NewRecorder()

			handler.Submit(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("Submit() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestRapidHandler_Submit_ResponseBody(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()
	mockService := &MockRapidService{
		submitFunc: func(ctx context.Context, id uuid.UUID, req *domain.SubmitRapidRequest) (*domain.RapidEvaluationResponse, error) {
			return &domain.RapidEvaluationResponse{
				ID:             uuid.New(),
				Level:          engine.RapidRed,
				Score:          13,
				Valid:          true,
				CrisisGuidance: engine.CrisisResources(),
			}, nil
		},
	}
	handler := NewRapidHandler(mockService)

	body := `{"session_id": "` + sessionID.String() + `", "answers": {"rapid_mood": "2"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/users/"+userID.String()+"/rapid/submit", bytes.NewBufferString(body))
	req = withUserParam(req, userID.String())
	rec := httptest.NewRecorder()

	handler.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var response domain.RapidEvaluationResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Level != engine.RapidRed {
		t.Errorf("level = %s, want RED", response.Level)
	}
	if len(response.CrisisGuidance) == 0 {
		t.Error("RED response should carry crisis guidance")
	}
}

func TestRapidHandler_List(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		userID         string
		query          string
		mockService    *MockRapidService
		wantStatusCode int
	}{
		{
			name:           "default listing",
			userID:         userID.String(),
			mockService:    &MockRapidService{},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "bad date",
			userID:         userID.String(),
			query:          "?to=lastweek",
			mockService:    &MockRapidService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "invalid user ID",
			userID:         "not-a-uuid",
			mockService:    &MockRapidService{},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewRapidHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodGet, "/v1/users/"+tt.userID+"/rapid"+tt.query, nil)
			req = withUserParam(req, tt.userID)
			rec := httptest.NewRecorder()

			handler.List(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("List() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}
