package service

import (
	"context"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/langfuse"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	err   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[uuid.UUID]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := user.Clone()
	m.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := user.Clone()
	return &c, nil
}

func (m *MockUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[id]
	return ok, nil
}

func (m *MockUserRepository) Update(ctx context.Context, id uuid.UUID, fn func(*domain.User) error) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	working := user.Clone()
	if err := fn(&working); err != nil {
		return nil, err
	}
	m.users[id] = &working
	c := working.Clone()
	return &c, nil
}

func (m *MockUserRepository) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// addUser stores a user directly and returns its ID.
func (m *MockUserRepository) addUser(user domain.User) uuid.UUID {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = &user
	return user.ID
}

// MockSleepSessionRepository is a mock implementation of SleepSessionRepository
type MockSleepSessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID][]domain.SleepSession
	err      error
}

func NewMockSleepSessionRepository() *MockSleepSessionRepository {
	return &MockSleepSessionRepository{
		sessions: make(map[uuid.UUID][]domain.SleepSession),
	}
}

func (m *MockSleepSessionRepository) Append(ctx context.Context, session *domain.SleepSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sessions[session.UserID] = append(m.sessions[session.UserID], *session)
	return nil
}

func (m *MockSleepSessionRepository) All(ctx context.Context, userID uuid.UUID) ([]domain.SleepSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.SleepSession{}, m.sessions[userID]...), nil
}

// List ignores the cursor and returns every session newest first.
func (m *MockSleepSessionRepository) List(ctx context.Context, userID uuid.UUID, filter domain.SleepSessionFilter) ([]domain.SleepSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stored := m.sessions[userID]
	out := make([]domain.SleepSession, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}

func (m *MockSleepSessionRepository) Latest(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stored := m.sessions[userID]
	if len(stored) == 0 {
		return nil, nil
	}
	s := stored[len(stored)-1]
	return &s, nil
}

func (m *MockSleepSessionRepository) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// MockChatRepository is a mock implementation of ChatRepository
type MockChatRepository struct {
	mu       sync.Mutex
	messages map[uuid.UUID][]domain.ChatMessage
	err      error
}

func NewMockChatRepository() *MockChatRepository {
	return &MockChatRepository{
		messages: make(map[uuid.UUID][]domain.ChatMessage),
	}
}

func (m *MockChatRepository) Append(ctx context.Context, userID uuid.UUID, msg domain.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages[userID] = append(m.messages[userID], msg)
	return nil
}

func (m *MockChatRepository) Transcript(ctx context.Context, userID uuid.UUID) ([]domain.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.ChatMessage{}, m.messages[userID]...), nil
}

// chatCall captures the arguments of one SleepCoachChat call.
type chatCall struct {
	history     []domain.ChatMessage
	message     string
	lastSession *domain.SleepSession
}

// MockAdvisor is a mock implementation of llm.Advisor
type MockAdvisor struct {
	mu sync.Mutex

	profileText string
	sessionText string
	chatText    string
	dream       domain.DreamAnalysis

	// When set, calls wait for it to close.
	block chan struct{}
	// Receives a value when a call starts.
	started chan struct{}

	profiles  []domain.UserProfile
	sessions  []domain.SleepSession
	chatCalls []chatCall
	dreams    []string
}

func NewMockAdvisor() *MockAdvisor {
	return &MockAdvisor{
		profileText: "profile analysis",
		sessionText: "session analysis",
		chatText:    "coach reply",
		dream:       domain.DreamAnalysis{Interpretation: "a dream", Themes: []string{"Freedom"}},
	}
}

func (m *MockAdvisor) wait() {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}
}

func (m *MockAdvisor) AnalyzeUserProfile(ctx context.Context, profile domain.UserProfile) string {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, profile.Clone())
	return m.profileText
}

func (m *MockAdvisor) AnalyzeSleepSession(ctx context.Context, session domain.SleepSession, profile *domain.UserProfile) string {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, session)
	return m.sessionText
}

func (m *MockAdvisor) SleepCoachChat(ctx context.Context, history []domain.ChatMessage, message string, lastSession *domain.SleepSession) string {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatCalls = append(m.chatCalls, chatCall{history: history, message: message, lastSession: lastSession})
	return m.chatText
}

func (m *MockAdvisor) InterpretDream(ctx context.Context, text string) domain.DreamAnalysis {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dreams = append(m.dreams, text)
	return m.dream
}

// MockTraces is a mock implementation of langfuse.Client
type MockTraces struct {
	mu      sync.Mutex
	enabled bool
	scores  []langfuse.ScoreInput
	err     error
}

func (m *MockTraces) IsEnabled() bool { return m.enabled }

func (m *MockTraces) CreateTrace(ctx context.Context, in langfuse.TraceInput) (string, error) {
	return in.ID, m.err
}

func (m *MockTraces) CreateScore(ctx context.Context, in langfuse.ScoreInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.scores = append(m.scores, in)
	return nil
}

func (m *MockTraces) Flush(ctx context.Context) error { return nil }

// fixedClock returns a clock stuck at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
