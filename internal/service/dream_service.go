package service

import (
	"context"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/llm"
	"github.com/blaisecz/sleep-coach/internal/repository"
	"github.com/google/uuid"
)

// DreamLogAnalysis is the narrative stored on sessions saved from a dream entry.
const DreamLogAnalysis = "Logged via Dream Scape"

// DreamService interprets dreams and logs them as sleep sessions.
type DreamService interface {
	Interpret(ctx context.Context, userID uuid.UUID, text string) (*domain.DreamInterpretationResponse, error)
	Save(ctx context.Context, userID uuid.UUID, req *domain.SaveDreamRequest) (*domain.SleepSession, error)
}

type dreamService struct {
	repo      repository.SleepSessionRepository
	userRepo  repository.UserRepository
	inFlight  *repository.InFlight
	advisor   llm.Advisor
	estimator StageEstimator
	now       func() time.Time
}

func NewDreamService(repo repository.SleepSessionRepository, userRepo repository.UserRepository, inFlight *repository.InFlight, advisor llm.Advisor, now func() time.Time) DreamService {
	if now == nil {
		now = time.Now
	}
	return &dreamService{
		repo:      repo,
		userRepo:  userRepo,
		inFlight:  inFlight,
		advisor:   advisor,
		estimator: DreamStageEstimator{},
		now:       now,
	}
}

func (s *dreamService) Interpret(ctx context.Context, userID uuid.UUID, text string) (*domain.DreamInterpretationResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	release, err := s.inFlight.Acquire(userID, repository.FlowDreamInterpretation)
	if err != nil {
		return nil, err
	}
	defer release()

	traceID := uuid.NewString()
	ctx = llm.WithTrace(ctx, llm.TraceMeta{TraceID: traceID, UserID: userID.String()})
	analysis := s.advisor.InterpretDream(ctx, text)

	return &domain.DreamInterpretationResponse{DreamAnalysis: analysis, AdviceTraceID: traceID}, nil
}

// Save appends an interpreted dream as a session with REM-weighted stages.
func (s *dreamService) Save(ctx context.Context, userID uuid.UUID, req *domain.SaveDreamRequest) (*domain.SleepSession, error) {
	if req.DreamAnalysis == nil {
		return nil, domain.ErrNoDreamAnalysis
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	durationMinutes := roundInt(req.DurationHours * 60)
	analysis := *req.DreamAnalysis
	analysis.Themes = append([]string{}, req.DreamAnalysis.Themes...)

	now := s.now()
	session := &domain.SleepSession{
		ID:              uuid.New(),
		UserID:          userID,
		Date:            domain.LocalDate(now, user.Location()),
		DurationMinutes: durationMinutes,
		Quality:         DreamQuality,
		Stages:          s.estimator.Estimate(durationMinutes, DreamQuality),
		NoiseEvents:     0,
		DreamNotes:      req.Text,
		DreamAnalysis:   &analysis,
		AIAnalysis:      DreamLogAnalysis,
		CreatedAt:       now,
	}

	if err := s.repo.Append(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
