package service

import (
	"context"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/langfuse"
	"github.com/blaisecz/sleep-coach/internal/repository"
	"github.com/google/uuid"
)

// FeedbackScoreName is the Langfuse score advice ratings are recorded under.
const FeedbackScoreName = "user_rating"

// FeedbackService records user ratings of advisory output.
type FeedbackService interface {
	Rate(ctx context.Context, userID uuid.UUID, req *domain.AdviceFeedbackRequest) error
}

type feedbackService struct {
	userRepo repository.UserRepository
	traces   langfuse.Client
}

func NewFeedbackService(userRepo repository.UserRepository, traces langfuse.Client) FeedbackService {
	return &feedbackService{userRepo: userRepo, traces: traces}
}

// Rate scores the advice trace. Without Langfuse the rating is accepted and dropped.
func (s *feedbackService) Rate(ctx context.Context, userID uuid.UUID, req *domain.AdviceFeedbackRequest) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}

	if s.traces == nil || !s.traces.IsEnabled() {
		return nil
	}
	return s.traces.CreateScore(ctx, langfuse.ScoreInput{
		TraceID: req.TraceID,
		Name:    FeedbackScoreName,
		Value:   float64(req.Score),
		Comment: req.Comment,
	})
}
