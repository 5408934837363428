package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/repository"
	"github.com/google/uuid"
)

func TestSessionService_Create(t *testing.T) {
	userRepo := NewMockUserRepository()
	profile := domain.UserProfile{Age: "29"}
	userID := userRepo.addUser(domain.User{Timezone: "America/New_York", Profile: &profile})

	sessionRepo := NewMockSleepSessionRepository()
	advisor := NewMockAdvisor()
	// 22:30 on the 15th in New York
	now := time.Date(2024, 1, 16, 3, 30, 0, 0, time.UTC)
	svc := NewSessionService(sessionRepo, userRepo, repository.NewInFlight(), advisor, fixedClock(now))

	session, err := svc.Create(context.Background(), userID, &domain.CreateSleepSessionRequest{
		DurationHours:    8,
		Quality:          80,
		PreSleepActivity: []string{"Reading"},
		DreamNotes:       "falling",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if session.Date != "2024-01-15" {
		t.Errorf("Date = %s, want the local date 2024-01-15", session.Date)
	}
	if session.DurationMinutes != 480 {
		t.Errorf("DurationMinutes = %d, want 480", session.DurationMinutes)
	}
	expected := domain.SleepStages{Deep: 77, REM: 96, Light: 240, Awake: 67}
	if session.Stages != expected {
		t.Errorf("Stages = %+v, want %+v", session.Stages, expected)
	}
	if session.CaffeineIntake != CaffeineNotSpecified {
		t.Errorf("CaffeineIntake = %q, want %q", session.CaffeineIntake, CaffeineNotSpecified)
	}
	if session.NoiseEvents != 0 {
		t.Errorf("NoiseEvents = %d, want 0", session.NoiseEvents)
	}
	if session.AIAnalysis != "session analysis" {
		t.Errorf("AIAnalysis = %q", session.AIAnalysis)
	}
	if session.AdviceTraceID == "" {
		t.Error("AdviceTraceID is empty")
	}

	stored, _ := sessionRepo.All(context.Background(), userID)
	if len(stored) != 1 || stored[0].AIAnalysis != "session analysis" {
		t.Errorf("stored sessions = %+v", stored)
	}

	if len(advisor.sessions) != 1 || advisor.sessions[0].AIAnalysis != "" {
		t.Errorf("advisor should see the session before its narrative is attached, got %+v", advisor.sessions)
	}
}

func TestSessionService_Create_RoundsHalfHours(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := userRepo.addUser(domain.User{})
	svc := NewSessionService(NewMockSleepSessionRepository(), userRepo, repository.NewInFlight(), NewMockAdvisor(), nil)

	session, err := svc.Create(context.Background(), userID, &domain.CreateSleepSessionRequest{
		DurationHours:  7.5,
		Quality:        75,
		CaffeineIntake: "None",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if session.DurationMinutes != 450 {
		t.Errorf("DurationMinutes = %d, want 450", session.DurationMinutes)
	}
	if session.CaffeineIntake != "None" {
		t.Errorf("CaffeineIntake = %q, want None", session.CaffeineIntake)
	}
}

func TestSessionService_Create_Errors(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := userRepo.addUser(domain.User{})
	sessionRepo := NewMockSleepSessionRepository()
	inFlight := repository.NewInFlight()
	svc := NewSessionService(sessionRepo, userRepo, inFlight, NewMockAdvisor(), nil)
	req := &domain.CreateSleepSessionRequest{DurationHours: 7, Quality: 70}

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Create(context.Background(), uuid.New(), req)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("analysis already in flight", func(t *testing.T) {
		release, err := inFlight.Acquire(userID, repository.FlowSessionAnalysis)
		if err != nil {
			t.Fatal(err)
		}
		defer release()

		_, err = svc.Create(context.Background(), userID, req)
		if !errors.Is(err, domain.ErrRequestInFlight) {
			t.Errorf("error = %v, want ErrRequestInFlight", err)
		}
	})

	t.Run("flag released after create", func(t *testing.T) {
		if _, err := svc.Create(context.Background(), userID, req); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if inFlight.Busy(userID, repository.FlowSessionAnalysis) {
			t.Error("session analysis flag still held")
		}
	})

	t.Run("append failure", func(t *testing.T) {
		sessionRepo.SetError(errors.New("boom"))
		defer sessionRepo.SetError(nil)

		if _, err := svc.Create(context.Background(), userID, req); err == nil {
			t.Error("expected error")
		}
	})
}

func TestSessionService_List(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := userRepo.addUser(domain.User{})
	sessionRepo := NewMockSleepSessionRepository()
	for i := 0; i < 5; i++ {
		_ = sessionRepo.Append(context.Background(), &domain.SleepSession{ID: uuid.New(), UserID: userID, Quality: i})
	}
	svc := NewSessionService(sessionRepo, userRepo, repository.NewInFlight(), NewMockAdvisor(), nil)

	tests := []struct {
		name       string
		limit      int
		wantLen    int
		wantMore   bool
		wantCursor bool
	}{
		{"default limit", 0, 5, false, false},
		{"page of two", 2, 2, true, true},
		{"exact fit", 5, 5, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.List(context.Background(), userID, domain.SleepSessionFilter{Limit: tt.limit})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(resp.Data) != tt.wantLen {
				t.Errorf("len(Data) = %d, want %d", len(resp.Data), tt.wantLen)
			}
			if resp.Pagination.HasMore != tt.wantMore {
				t.Errorf("HasMore = %v, want %v", resp.Pagination.HasMore, tt.wantMore)
			}
			if (resp.Pagination.NextCursor != "") != tt.wantCursor {
				t.Errorf("NextCursor = %q", resp.Pagination.NextCursor)
			}
			if resp.Data[0].Quality != 4 {
				t.Errorf("first quality = %d, want newest (4)", resp.Data[0].Quality)
			}
		})
	}

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.List(context.Background(), uuid.New(), domain.SleepSessionFilter{})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}
