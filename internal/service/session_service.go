package service

import (
	"context"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/llm"
	"github.com/blaisecz/sleep-coach/internal/repository"
	"github.com/blaisecz/sleep-coach/pkg/pagination"
	"github.com/google/uuid"
)

// CaffeineNotSpecified is stored when the manual log leaves caffeine blank.
const CaffeineNotSpecified = "Not specified"

// SessionService records sleep sessions and lists them.
type SessionService interface {
	Create(ctx context.Context, userID uuid.UUID, req *domain.CreateSleepSessionRequest) (*domain.SleepSession, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.SleepSessionFilter) (*domain.SleepSessionListResponse, error)
}

type sessionService struct {
	repo      repository.SleepSessionRepository
	userRepo  repository.UserRepository
	inFlight  *repository.InFlight
	advisor   llm.Advisor
	estimator StageEstimator
	now       func() time.Time
}

func NewSessionService(repo repository.SleepSessionRepository, userRepo repository.UserRepository, inFlight *repository.InFlight, advisor llm.Advisor, now func() time.Time) SessionService {
	if now == nil {
		now = time.Now
	}
	return &sessionService{
		repo:      repo,
		userRepo:  userRepo,
		inFlight:  inFlight,
		advisor:   advisor,
		estimator: SliderStageEstimator{},
		now:       now,
	}
}

// Create builds a session from the slider inputs, attaches the advisory
// narrative and appends it. Advisory failures never block the append.
func (s *sessionService) Create(ctx context.Context, userID uuid.UUID, req *domain.CreateSleepSessionRequest) (*domain.SleepSession, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	release, err := s.inFlight.Acquire(userID, repository.FlowSessionAnalysis)
	if err != nil {
		return nil, err
	}
	defer release()

	durationMinutes := roundInt(req.DurationHours * 60)
	caffeine := req.CaffeineIntake
	if caffeine == "" {
		caffeine = CaffeineNotSpecified
	}
	activities := append([]string{}, req.PreSleepActivity...)

	now := s.now()
	session := &domain.SleepSession{
		ID:               uuid.New(),
		UserID:           userID,
		Date:             domain.LocalDate(now, user.Location()),
		DurationMinutes:  durationMinutes,
		Quality:          req.Quality,
		Stages:           s.estimator.Estimate(durationMinutes, req.Quality),
		NoiseEvents:      0,
		DreamNotes:       req.DreamNotes,
		CaffeineIntake:   caffeine,
		PreSleepActivity: activities,
		AdviceTraceID:    uuid.NewString(),
		CreatedAt:        now,
	}

	ctx = llm.WithTrace(ctx, llm.TraceMeta{TraceID: session.AdviceTraceID, UserID: userID.String()})
	session.AIAnalysis = s.advisor.AnalyzeSleepSession(ctx, *session, user.Profile)

	if err := s.repo.Append(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// List returns sessions newest first, one cursor page at a time.
func (s *sessionService) List(ctx context.Context, userID uuid.UUID, filter domain.SleepSessionFilter) (*domain.SleepSessionListResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	sessions, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	page := pagination.Cut(sessions, pagination.Clamp(filter.Limit))
	data := make([]domain.SleepSessionResponse, len(page.Items))
	for i := range page.Items {
		data[i] = page.Items[i].ToResponse()
	}

	var nextCursor string
	if page.HasMore && len(page.Items) > 0 {
		last := page.Items[len(page.Items)-1]
		nextCursor = pagination.After(last.ID, last.Date).String()
	}

	return &domain.SleepSessionListResponse{
		Data: data,
		Pagination: domain.PaginationResponse{
			NextCursor: nextCursor,
			HasMore:    page.HasMore,
		},
	}, nil
}
