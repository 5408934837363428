package handler

import (
	"context"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/onboarding"
	"github.com/blaisecz/sleep-coach/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// withUserID attaches a chi route context carrying the userId path param.
func withUserID(req *http.Request, userID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", userID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	guestFunc  func(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	demoFunc   func(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	verifyFunc func(token string) (uuid.UUID, error)
}

func (m *MockAuthService) Guest(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	if m.guestFunc != nil {
		return m.guestFunc(ctx, req)
	}
	return &domain.LoginResponse{
		User:  domain.UserResponse{ID: uuid.New(), Name: service.GuestName, IsGuest: true, Timezone: "UTC"},
		Token: "token",
	}, nil
}

func (m *MockAuthService) Demo(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	if m.demoFunc != nil {
		return m.demoFunc(ctx, req)
	}
	return &domain.LoginResponse{
		User:  domain.UserResponse{ID: uuid.New(), Name: service.DemoName, Timezone: "UTC"},
		Token: "token",
	}, nil
}

func (m *MockAuthService) Verify(token string) (uuid.UUID, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(token)
	}
	return uuid.Nil, domain.ErrUnauthorized
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	assessmentsFunc func(ctx context.Context, id uuid.UUID) ([]domain.UserProfile, error)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserService) Assessments(ctx context.Context, id uuid.UUID) ([]domain.UserProfile, error) {
	if m.assessmentsFunc != nil {
		return m.assessmentsFunc(ctx, id)
	}
	return []domain.UserProfile{}, nil
}

// MockOnboardingService is a mock implementation of OnboardingService
type MockOnboardingService struct {
	startFunc     func(ctx context.Context, userID uuid.UUID, variant string) (*onboarding.State, error)
	getFunc       func(ctx context.Context, userID uuid.UUID) (*onboarding.State, error)
	setAnswerFunc func(ctx context.Context, userID uuid.UUID, field, value string) (*onboarding.State, error)
	toggleFunc    func(ctx context.Context, userID uuid.UUID, field, item string) (*onboarding.State, error)
	nextFunc      func(ctx context.Context, userID uuid.UUID) (*service.StepResult, error)
	backFunc      func(ctx context.Context, userID uuid.UUID) (*onboarding.State, error)
	cancelFunc    func(ctx context.Context, userID uuid.UUID) (*onboarding.State, error)
}

func activeState(variant string) *onboarding.State {
	return &onboarding.State{Variant: variant, Status: onboarding.StatusActive, Total: 7}
}

func (m *MockOnboardingService) Start(ctx context.Context, userID uuid.UUID, variant string) (*onboarding.State, error) {
	if m.startFunc != nil {
		return m.startFunc(ctx, userID, variant)
	}
	return activeState(variant), nil
}

func (m *MockOnboardingService) Get(ctx context.Context, userID uuid.UUID) (*onboarding.State, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID)
	}
	return nil, service.ErrNoOnboarding
}

func (m *MockOnboardingService) SetAnswer(ctx context.Context, userID uuid.UUID, field, value string) (*onboarding.State, error) {
	if m.setAnswerFunc != nil {
		return m.setAnswerFunc(ctx, userID, field, value)
	}
	return activeState("baseline"), nil
}

func (m *MockOnboardingService) Toggle(ctx context.Context, userID uuid.UUID, field, item string) (*onboarding.State, error) {
	if m.toggleFunc != nil {
		return m.toggleFunc(ctx, userID, field, item)
	}
	return activeState("baseline"), nil
}

func (m *MockOnboardingService) Next(ctx context.Context, userID uuid.UUID) (*service.StepResult, error) {
	if m.nextFunc != nil {
		return m.nextFunc(ctx, userID)
	}
	return &service.StepResult{Outcome: onboarding.OutcomeAdvanced, State: *activeState("baseline")}, nil
}

func (m *MockOnboardingService) Back(ctx context.Context, userID uuid.UUID) (*onboarding.State, error) {
	if m.backFunc != nil {
		return m.backFunc(ctx, userID)
	}
	return activeState("baseline"), nil
}

func (m *MockOnboardingService) Cancel(ctx context.Context, userID uuid.UUID) (*onboarding.State, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, userID)
	}
	return &onboarding.State{Variant: "baseline", Status: onboarding.StatusCancelled, Total: 7}, nil
}

// MockSessionService is a mock implementation of SessionService
type MockSessionService struct {
	createFunc func(ctx context.Context, userID uuid.UUID, req *domain.CreateSleepSessionRequest) (*domain.SleepSession, error)
	listFunc   func(ctx context.Context, userID uuid.UUID, filter domain.SleepSessionFilter) (*domain.SleepSessionListResponse, error)
}

func (m *MockSessionService) Create(ctx context.Context, userID uuid.UUID, req *domain.CreateSleepSessionRequest) (*domain.SleepSession, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, req)
	}
	return &domain.SleepSession{
		ID:              uuid.New(),
		UserID:          userID,
		Date:            "2024-01-15",
		DurationMinutes: int(req.DurationHours * 60),
		Quality:         req.Quality,
		AIAnalysis:      "session analysis",
		CreatedAt:       time.Now(),
	}, nil
}

func (m *MockSessionService) List(ctx context.Context, userID uuid.UUID, filter domain.SleepSessionFilter) (*domain.SleepSessionListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, filter)
	}
	return &domain.SleepSessionListResponse{
		Data:       []domain.SleepSessionResponse{},
		Pagination: domain.PaginationResponse{HasMore: false},
	}, nil
}

// MockDreamService is a mock implementation of DreamService
type MockDreamService struct {
	interpretFunc func(ctx context.Context, userID uuid.UUID, text string) (*domain.DreamInterpretationResponse, error)
	saveFunc      func(ctx context.Context, userID uuid.UUID, req *domain.SaveDreamRequest) (*domain.SleepSession, error)
}

func (m *MockDreamService) Interpret(ctx context.Context, userID uuid.UUID, text string) (*domain.DreamInterpretationResponse, error) {
	if m.interpretFunc != nil {
		return m.interpretFunc(ctx, userID, text)
	}
	return &domain.DreamInterpretationResponse{
		DreamAnalysis: domain.DreamAnalysis{Interpretation: "a dream", Themes: []string{"Freedom"}},
		AdviceTraceID: "trace-1",
	}, nil
}

func (m *MockDreamService) Save(ctx context.Context, userID uuid.UUID, req *domain.SaveDreamRequest) (*domain.SleepSession, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, userID, req)
	}
	return &domain.SleepSession{ID: uuid.New(), UserID: userID, Quality: service.DreamQuality}, nil
}

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	dashboardFunc func(ctx context.Context, userID uuid.UUID, timezone string) (*domain.DashboardResponse, error)
}

func (m *MockDashboardService) Dashboard(ctx context.Context, userID uuid.UUID, timezone string) (*domain.DashboardResponse, error) {
	if m.dashboardFunc != nil {
		return m.dashboardFunc(ctx, userID, timezone)
	}
	return &domain.DashboardResponse{}, nil
}

// MockChatService is a mock implementation of ChatService
type MockChatService struct {
	sendFunc       func(ctx context.Context, userID uuid.UUID, message string) (*domain.ChatExchangeResponse, error)
	transcriptFunc func(ctx context.Context, userID uuid.UUID) (*domain.ChatTranscriptResponse, error)
}

func (m *MockChatService) Send(ctx context.Context, userID uuid.UUID, message string) (*domain.ChatExchangeResponse, error) {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, userID, message)
	}
	return &domain.ChatExchangeResponse{
		UserMessage:  domain.ChatMessage{ID: uuid.New(), Role: domain.ChatRoleUser, Text: message},
		ModelMessage: domain.ChatMessage{ID: uuid.New(), Role: domain.ChatRoleModel, Text: "coach reply"},
	}, nil
}

func (m *MockChatService) Transcript(ctx context.Context, userID uuid.UUID) (*domain.ChatTranscriptResponse, error) {
	if m.transcriptFunc != nil {
		return m.transcriptFunc(ctx, userID)
	}
	return &domain.ChatTranscriptResponse{Messages: []domain.ChatMessage{}}, nil
}

// MockFeedbackService is a mock implementation of FeedbackService
type MockFeedbackService struct {
	rateFunc func(ctx context.Context, userID uuid.UUID, req *domain.AdviceFeedbackRequest) error
}

func (m *MockFeedbackService) Rate(ctx context.Context, userID uuid.UUID, req *domain.AdviceFeedbackRequest) error {
	if m.rateFunc != nil {
		return m.rateFunc(ctx, userID, req)
	}
	return nil
}
