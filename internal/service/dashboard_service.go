package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DashboardService derives the headline metrics and trend chart for a user.
type DashboardService interface {
	// Dashboard computes metrics for the viewer. An empty timezone uses the
	// user's own.
	Dashboard(ctx context.Context, userID uuid.UUID, timezone string) (*domain.DashboardResponse, error)
}

type dashboardService struct {
	sessionRepo repository.SleepSessionRepository
	userRepo    repository.UserRepository
}

func NewDashboardService(sessionRepo repository.SleepSessionRepository, userRepo repository.UserRepository) DashboardService {
	return &dashboardService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

func (s *dashboardService) Dashboard(ctx context.Context, userID uuid.UUID, timezone string) (*domain.DashboardResponse, error) {
	tracer := otel.Tracer("sleep-coach-api/metrics")
	ctx, span := tracer.Start(ctx, "DashboardService.Dashboard",
		trace.WithAttributes(attribute.String("user.id", userID.String())),
	)
	defer span.End()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	loc := user.Location()
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		loc = l
	}

	sessions, err := s.sessionRepo.All(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Attach input payload for Langfuse
	inputPayload := map[string]any{
		"user_id":          userID.String(),
		"timezone":         loc.String(),
		"session_count":    len(sessions),
		"assessment_count": len(user.AssessmentHistory),
		"has_profile":      user.Profile != nil,
	}
	if inputJSON, err := json.Marshal(inputPayload); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.input", string(inputJSON)))
	}

	resp := &domain.DashboardResponse{
		Metrics: DeriveMetrics(sessions, user.Profile),
		Chart:   BuildChart(sessions, user.AssessmentHistory, loc),
	}
	if user.Profile != nil {
		resp.ProfileAnalysis = user.Profile.AIAnalysis
	}

	span.SetAttributes(
		attribute.String("metrics.source", string(resp.Metrics.Source)),
		attribute.String("chart.source", string(resp.Chart.Source)),
		attribute.Int("chart.points", len(resp.Chart.Points)),
	)

	// Attach output payload for Langfuse
	if outputJSON, err := json.Marshal(resp); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.output", string(outputJSON)))
	}

	return resp, nil
}
