package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func TestCoachHandler_Send(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		body           string
		mockService    *MockChatService
		wantStatusCode int
	}{
		{
			name:           "valid message",
			body:           `{"message": "How can I fall asleep faster?"}`,
			mockService:    &MockChatService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "empty message",
			body:           `{"message": ""}`,
			mockService:    &MockChatService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "reply in flight",
			body: `{"message": "hello"}`,
			mockService: &MockChatService{
				sendFunc: func(ctx context.Context, userID uuid.UUID, message string) (*domain.ChatExchangeResponse, error) {
					return nil, domain.ErrRequestInFlight
				},
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCoachHandler(tt.mockService, &MockFeedbackService{})

			req := withUserID(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body)), userID.String())
			rec := httptest.NewRecorder()

			handler.Send(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Fatalf("Send() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
			if rec.Code != http.StatusCreated {
				return
			}
			var resp domain.ChatExchangeResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.UserMessage.Role != domain.ChatRoleUser || resp.ModelMessage.Role != domain.ChatRoleModel {
				t.Errorf("roles = %q, %q", resp.UserMessage.Role, resp.ModelMessage.Role)
			}
		})
	}
}

func TestCoachHandler_Transcript(t *testing.T) {
	userID := uuid.New()
	handler := NewCoachHandler(&MockChatService{
		transcriptFunc: func(ctx context.Context, id uuid.UUID) (*domain.ChatTranscriptResponse, error) {
			return &domain.ChatTranscriptResponse{Messages: []domain.ChatMessage{
				{Role: domain.ChatRoleUser, Text: "hi"},
				{Role: domain.ChatRoleModel, Text: "hello"},
			}}, nil
		},
	}, &MockFeedbackService{})

	r := chi.NewRouter()
	r.Get("/v1/users/{userId}/coach/messages", handler.Transcript)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/"+userID.String()+"/coach/messages", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp domain.ChatTranscriptResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Messages) != 2 || resp.Messages[0].Text != "hi" {
		t.Errorf("Messages = %+v", resp.Messages)
	}
}

func TestCoachHandler_PostFeedback(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		var got *domain.AdviceFeedbackRequest
		handler := NewCoachHandler(&MockChatService{}, &MockFeedbackService{
			rateFunc: func(ctx context.Context, id uuid.UUID, req *domain.AdviceFeedbackRequest) error {
				got = req
				return nil
			},
		})

		r := chi.NewRouter()
		r.Post("/v1/users/{userId}/advice/feedback", handler.PostFeedback)

		body := `{"trace_id": "trace-123", "score": 5, "comment": "Very helpful!"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/users/"+userID.String()+"/advice/feedback", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}
		if got == nil || got.TraceID != "trace-123" || got.Score != 5 {
			t.Errorf("feedback = %+v", got)
		}
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"missing trace", `{"score": 4}`},
			{"score too low", `{"trace_id": "t", "score": 0}`},
			{"score too high", `{"trace_id": "t", "score": 6}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				handler := NewCoachHandler(&MockChatService{}, &MockFeedbackService{})
				req := withUserID(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body)), userID.String())
				rec := httptest.NewRecorder()

				handler.PostFeedback(rec, req)

				if rec.Code != http.StatusUnprocessableEntity {
					t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
				}
			})
		}
	})

	t.Run("tracing backend error", func(t *testing.T) {
		handler := NewCoachHandler(&MockChatService{}, &MockFeedbackService{
			rateFunc: func(ctx context.Context, id uuid.UUID, req *domain.AdviceFeedbackRequest) error {
				return errors.New("langfuse unavailable")
			},
		})
		req := withUserID(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"trace_id": "t", "score": 3}`)), userID.String())
		rec := httptest.NewRecorder()

		handler.PostFeedback(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
		}
	})
}
