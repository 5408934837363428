package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/google/uuid"
)

func TestDreamHandler_Interpret(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
	}{
		{"valid", `{"text": "I was flying"}`, http.StatusOK},
		{"empty text", `{"text": ""}`, http.StatusUnprocessableEntity},
		{"invalid JSON", `nope`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDreamHandler(&MockDreamService{})

			req := withUserID(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body)), userID.String())
			rec := httptest.NewRecorder()

			handler.Interpret(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Fatalf("Interpret() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
			if rec.Code != http.StatusOK {
				return
			}
			var resp domain.DreamInterpretationResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Interpretation != "a dream" || resp.AdviceTraceID != "trace-1" {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestDreamHandler_Save(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		body           string
		mockService    *MockDreamService
		wantStatusCode int
	}{
		{
			name:           "valid",
			body:           `{"text": "I was flying", "duration_hours": 7.5, "dream_analysis": {"interpretation": "a dream", "themes": ["Freedom"]}}`,
			mockService:    &MockDreamService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "duration below range",
			body:           `{"text": "I was flying", "duration_hours": 2}`,
			mockService:    &MockDreamService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "not interpreted yet",
			body: `{"text": "I was flying", "duration_hours": 7}`,
			mockService: &MockDreamService{
				saveFunc: func(ctx context.Context, userID uuid.UUID, req *domain.SaveDreamRequest) (*domain.SleepSession, error) {
					return nil, domain.ErrNoDreamAnalysis
				},
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDreamHandler(tt.mockService)

			req := withUserID(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body)), userID.String())
			rec := httptest.NewRecorder()

			handler.Save(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("Save() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}
