package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/llm"
	"github.com/blaisecz/sleep-coach/internal/onboarding"
	"github.com/blaisecz/sleep-coach/internal/repository"
	"github.com/blaisecz/sleep-coach/internal/survey"
	"github.com/google/uuid"
)

var ErrNoOnboarding = errors.New("no onboarding started")

// StepResult is the outcome of a Next action.
type StepResult struct {
	Outcome onboarding.Outcome  `json:"outcome" enums:"blocked,advanced,completed"`
	State   onboarding.State    `json:"state"`
	Profile *domain.UserProfile `json:"profile,omitempty"`
	// Set when the completed profile was analyzed
	AdviceTraceID string `json:"advice_trace_id,omitempty"`
}

// OnboardingService drives one questionnaire per user.
type OnboardingService interface {
	Start(ctx context.Context, userID uuid.UUID, variant string) (*onboarding.State, error)
	Get(ctx context.Context, userID uuid.UUID) (*onboarding.State, error)
	SetAnswer(ctx context.Context, userID uuid.UUID, field, value string) (*onboarding.State, error)
	Toggle(ctx context.Context, userID uuid.UUID, field, item string) (*onboarding.State, error)
	Next(ctx context.Context, userID uuid.UUID) (*StepResult, error)
	Back(ctx context.Context, userID uuid.UUID) (*onboarding.State, error)
	Cancel(ctx context.Context, userID uuid.UUID) (*onboarding.State, error)
}

type onboardingService struct {
	userRepo repository.UserRepository
	inFlight *repository.InFlight
	advisor  llm.Advisor
	now      func() time.Time

	mu       sync.Mutex
	machines map[uuid.UUID]*onboarding.Machine
}

func NewOnboardingService(userRepo repository.UserRepository, inFlight *repository.InFlight, advisor llm.Advisor, now func() time.Time) OnboardingService {
	if now == nil {
		now = time.Now
	}
	return &onboardingService{
		userRepo: userRepo,
		inFlight: inFlight,
		advisor:  advisor,
		now:      now,
		machines: make(map[uuid.UUID]*onboarding.Machine),
	}
}

// Start replaces any previous questionnaire with a fresh one. An empty
// variant selects the baseline set.
func (s *onboardingService) Start(ctx context.Context, userID uuid.UUID, variant string) (*onboarding.State, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	if variant == "" {
		variant = survey.VariantBaseline
	}
	set, err := survey.Builtin(variant)
	if err != nil {
		return nil, err
	}

	m := onboarding.Start(set, s.now)

	s.mu.Lock()
	s.machines[userID] = m
	state := m.Snapshot()
	s.mu.Unlock()

	return &state, nil
}

func (s *onboardingService) Get(ctx context.Context, userID uuid.UUID) (*onboarding.State, error) {
	return s.apply(userID, func(*onboarding.Machine) error { return nil })
}

func (s *onboardingService) SetAnswer(ctx context.Context, userID uuid.UUID, field, value string) (*onboarding.State, error) {
	return s.apply(userID, func(m *onboarding.Machine) error { return m.SetAnswer(field, value) })
}

func (s *onboardingService) Toggle(ctx context.Context, userID uuid.UUID, field, item string) (*onboarding.State, error) {
	return s.apply(userID, func(m *onboarding.Machine) error { return m.Toggle(field, item) })
}

func (s *onboardingService) Back(ctx context.Context, userID uuid.UUID) (*onboarding.State, error) {
	return s.apply(userID, (*onboarding.Machine).Back)
}

func (s *onboardingService) Cancel(ctx context.Context, userID uuid.UUID) (*onboarding.State, error) {
	return s.apply(userID, (*onboarding.Machine).Cancel)
}

// Next advances the questionnaire. On completion the profile is analyzed
// and appended to the user's assessment history; an unavailable analysis
// leaves fallback text in place of the narrative.
func (s *onboardingService) Next(ctx context.Context, userID uuid.UUID) (*StepResult, error) {
	release, err := s.inFlight.Acquire(userID, repository.FlowProfileAnalysis)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.Lock()
	m, ok := s.machines[userID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoOnboarding
	}
	outcome, profile, err := m.Next()
	state := m.Snapshot()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	result := &StepResult{Outcome: outcome, State: state}
	if outcome != onboarding.OutcomeCompleted {
		return result, nil
	}

	result.AdviceTraceID = uuid.NewString()
	ctx = llm.WithTrace(ctx, llm.TraceMeta{TraceID: result.AdviceTraceID, UserID: userID.String()})
	profile.AIAnalysis = s.advisor.AnalyzeUserProfile(ctx, *profile)

	if _, err := s.userRepo.Update(ctx, userID, func(u *domain.User) error {
		u.AddAssessment(*profile)
		return nil
	}); err != nil {
		return nil, err
	}

	result.Profile = profile
	return result, nil
}

func (s *onboardingService) apply(userID uuid.UUID, fn func(*onboarding.Machine) error) (*onboarding.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.machines[userID]
	if !ok {
		return nil, ErrNoOnboarding
	}
	if err := fn(m); err != nil {
		return nil, err
	}
	state := m.Snapshot()
	return &state, nil
}
