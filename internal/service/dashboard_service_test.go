package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/google/uuid"
)

func TestDashboardService_Dashboard(t *testing.T) {
	completed := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	profile := domain.UserProfile{
		Date:                 &completed,
		DailyCaffeine:        "4+ Cups",
		AverageSleepDuration: "7-8 hours",
		SleepIssues:          []string{"Snoring", "Nightmares"},
		AIAnalysis:           "cut caffeine",
	}

	userRepo := NewMockUserRepository()
	user := domain.User{Timezone: "UTC"}
	user.AddAssessment(profile)
	userID := userRepo.addUser(user)
	sessionRepo := NewMockSleepSessionRepository()
	svc := NewDashboardService(sessionRepo, userRepo)
	ctx := context.Background()

	t.Run("profile estimate in the viewer's timezone", func(t *testing.T) {
		resp, err := svc.Dashboard(ctx, userID, "America/New_York")
		if err != nil {
			t.Fatalf("Dashboard() error = %v", err)
		}
		if resp.Metrics.Source != domain.MetricsSourceProfile || resp.Metrics.Quality.Display != "54%" {
			t.Errorf("Metrics = %+v", resp.Metrics)
		}
		if len(resp.Chart.Points) != 1 || resp.Chart.Points[0].Date != "2024-01-15" {
			t.Errorf("Chart = %+v", resp.Chart)
		}
		if resp.ProfileAnalysis != "cut caffeine" {
			t.Errorf("ProfileAnalysis = %q", resp.ProfileAnalysis)
		}
	})

	t.Run("user timezone by default", func(t *testing.T) {
		resp, err := svc.Dashboard(ctx, userID, "")
		if err != nil {
			t.Fatalf("Dashboard() error = %v", err)
		}
		if resp.Chart.Points[0].Date != "2024-01-15" {
			t.Errorf("Date = %s, want 2024-01-15", resp.Chart.Points[0].Date)
		}
	})

	t.Run("sessions take precedence", func(t *testing.T) {
		_ = sessionRepo.Append(ctx, &domain.SleepSession{ID: uuid.New(), UserID: userID, Date: "2024-01-16", DurationMinutes: 480, Quality: 80})
		resp, err := svc.Dashboard(ctx, userID, "")
		if err != nil {
			t.Fatalf("Dashboard() error = %v", err)
		}
		if resp.Metrics.Source != domain.MetricsSourceSessions || resp.Chart.Source != domain.ChartSourceSessions {
			t.Errorf("sources = %s, %s", resp.Metrics.Source, resp.Chart.Source)
		}
	})

	t.Run("invalid timezone", func(t *testing.T) {
		if _, err := svc.Dashboard(ctx, userID, "Mars/Olympus"); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := svc.Dashboard(ctx, uuid.New(), ""); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestDashboardService_NoData(t *testing.T) {
	userRepo := NewMockUserRepository()
	userID := userRepo.addUser(domain.User{})
	svc := NewDashboardService(NewMockSleepSessionRepository(), userRepo)

	resp, err := svc.Dashboard(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if resp.Metrics.Source != domain.MetricsSourceNone || resp.Chart.Source != domain.ChartSourceNone {
		t.Errorf("Dashboard() = %+v", resp)
	}
	if resp.ProfileAnalysis != "" {
		t.Errorf("ProfileAnalysis = %q, want empty", resp.ProfileAnalysis)
	}
}

func TestUserService_Assessments(t *testing.T) {
	userRepo := NewMockUserRepository()
	user := domain.User{}
	user.AddAssessment(domain.UserProfile{Age: "29"})
	user.AddAssessment(domain.UserProfile{Age: "30"})
	userID := userRepo.addUser(user)
	svc := NewUserService(userRepo)

	history, err := svc.Assessments(context.Background(), userID)
	if err != nil {
		t.Fatalf("Assessments() error = %v", err)
	}
	if len(history) != 2 || history[0].Age != "30" {
		t.Errorf("Assessments() = %+v, want newest first", history)
	}

	if _, err := svc.GetByID(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}
