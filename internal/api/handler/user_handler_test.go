package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/google/uuid"
)

func TestUserHandler_GetByID(t *testing.T) {
	existingUserID := uuid.New()
	existingUser := &domain.User{
		ID:       existingUserID,
		Name:     "Guest User",
		IsGuest:  true,
		Timezone: "UTC",
	}

	tests := []struct {
		name           string
		userID         string
		mockService    *MockUserService
		wantStatusCode int
	}{
		{
			name:   "existing user",
			userID: existingUserID.String(),
			mockService: &MockUserService{
				getByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
					if id == existingUserID {
						return existingUser, nil
					}
					return nil, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "non-existing user",
			userID:         uuid.New().String(),
			mockService:    &MockUserService{},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "invalid UUID",
			userID:         "invalid-uuid",
			mockService:    &MockUserService{},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewUserHandler(tt.mockService)

			req := withUserID(httptest.NewRequest(http.MethodGet, "/v1/users/"+tt.userID, nil), tt.userID)
			rec := httptest.NewRecorder()

			handler.GetByID(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("GetByID() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestUserHandler_Assessments(t *testing.T) {
	userID := uuid.New()
	handler := NewUserHandler(&MockUserService{
		assessmentsFunc: func(ctx context.Context, id uuid.UUID) ([]domain.UserProfile, error) {
			return []domain.UserProfile{{Age: "34"}, {Age: "33"}}, nil
		},
	})

	req := withUserID(httptest.NewRequest(http.MethodGet, "/v1/users/"+userID.String()+"/assessments", nil), userID.String())
	rec := httptest.NewRecorder()

	handler.Assessments(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp AssessmentListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 || resp.Data[0].Age != "34" {
		t.Errorf("Data = %+v, want newest first", resp.Data)
	}
}

func TestUserHandler_AssessmentsEmpty(t *testing.T) {
	userID := uuid.New()
	handler := NewUserHandler(&MockUserService{
		assessmentsFunc: func(ctx context.Context, id uuid.UUID) ([]domain.UserProfile, error) {
			return nil, nil
		},
	})

	req := withUserID(httptest.NewRequest(http.MethodGet, "/", nil), userID.String())
	rec := httptest.NewRecorder()

	handler.Assessments(rec, req)

	if body := rec.Body.String(); body != "{\"data\":[]}\n" {
		t.Errorf("body = %q, want empty data array", body)
	}
}
