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

func TestDreamService_Interpret(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := userRepo.addUser(domain.User{})
	advisor := NewMockAdvisor()
	inFlight := repository.NewInFlight()
	svc := NewDreamService(NewMockSleepSessionRepository(), userRepo, inFlight, advisor, nil)

	resp, err := svc.Interpret(context.Background(), userID, "I was flying")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if resp.Interpretation != "a dream" || len(resp.Themes) != 1 {
		t.Errorf("Interpret() = %+v", resp)
	}
	if resp.AdviceTraceID == "" {
		t.Error("AdviceTraceID is empty")
	}
	if len(advisor.dreams) != 1 || advisor.dreams[0] != "I was flying" {
		t.Errorf("advisor saw %v", advisor.dreams)
	}
	if inFlight.Busy(userID, repository.FlowDreamInterpretation) {
		t.Error("dream flag still held")
	}

	if _, err := svc.Interpret(context.Background(), uuid.New(), "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown user error = %v, want ErrNotFound", err)
	}
}

func TestDreamService_Interpret_InFlight(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := userRepo.addUser(domain.User{})
	advisor := NewMockAdvisor()
	advisor.block = make(chan struct{})
	advisor.started = make(chan struct{}, 1)
	svc := NewDreamService(NewMockSleepSessionRepository(), userRepo, repository.NewInFlight(), advisor, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Interpret(context.Background(), userID, "first")
		done <- err
	}()
	<-advisor.started

	if _, err := svc.Interpret(context.Background(), userID, "second"); !errors.Is(err, domain.ErrRequestInFlight) {
		t.Errorf("second Interpret() error = %v, want ErrRequestInFlight", err)
	}

	close(advisor.block)
	if err := <-done; err != nil {
		t.Errorf("first Interpret() error = %v", err)
	}
}

func TestDreamService_Save(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := userRepo.addUser(domain.User{Timezone: "America/New_York"})
	sessionRepo := NewMockSleepSessionRepository()
	now := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	svc := NewDreamService(sessionRepo, userRepo, repository.NewInFlight(), NewMockAdvisor(), fixedClock(now))

	analysis := &domain.DreamAnalysis{Interpretation: "freedom", Themes: []string{"Flight"}}
	session, err := svc.Save(context.Background(), userID, &domain.SaveDreamRequest{
		Text:          "I was flying",
		DurationHours: 6,
		DreamAnalysis: analysis,
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	expected := domain.SleepStages{Deep: 54, REM: 126, Light: 162, Awake: 18}
	if session.Stages != expected {
		t.Errorf("Stages = %+v, want %+v", session.Stages, expected)
	}
	if session.Quality != DreamQuality {
		t.Errorf("Quality = %d, want %d", session.Quality, DreamQuality)
	}
	if session.AIAnalysis != DreamLogAnalysis {
		t.Errorf("AIAnalysis = %q, want %q", session.AIAnalysis, DreamLogAnalysis)
	}
	if session.Date != "2024-01-15" {
		t.Errorf("Date = %s, want 2024-01-15", session.Date)
	}
	if session.DreamNotes != "I was flying" {
		t.Errorf("DreamNotes = %q", session.DreamNotes)
	}

	analysis.Themes[0] = "changed"
	if session.DreamAnalysis.Themes[0] != "Flight" {
		t.Error("session shares themes with the request")
	}

	stored, _ := sessionRepo.All(context.Background(), userID)
	if len(stored) != 1 {
		t.Errorf("stored %d sessions, want 1", len(stored))
	}
}

func TestDreamService_Save_RequiresInterpretation(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := userRepo.addUser(domain.User{})
	sessionRepo := NewMockSleepSessionRepository()
	svc := NewDreamService(sessionRepo, userRepo, repository.NewInFlight(), NewMockAdvisor(), nil)

	_, err := svc.Save(context.Background(), userID, &domain.SaveDreamRequest{Text: "x", DurationHours: 7})
	if !errors.Is(err, domain.ErrNoDreamAnalysis) {
		t.Errorf("error = %v, want ErrNoDreamAnalysis", err)
	}

	stored, _ := sessionRepo.All(context.Background(), userID)
	if len(stored) != 0 {
		t.Errorf("stored %d sessions, want 0", len(stored))
	}
}
