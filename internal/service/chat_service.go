package service

import (
	"context"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/llm"
	"github.com/blaisecz/sleep-coach/internal/repository"
	"github.com/google/uuid"
)

// ChatService runs the sleep coach conversation.
type ChatService interface {
	Send(ctx context.Context, userID uuid.UUID, message string) (*domain.ChatExchangeResponse, error)
	Transcript(ctx context.Context, userID uuid.UUID) (*domain.ChatTranscriptResponse, error)
}

type chatService struct {
	repo        repository.ChatRepository
	sessionRepo repository.SleepSessionRepository
	userRepo    repository.UserRepository
	inFlight    *repository.InFlight
	advisor     llm.Advisor
	now         func() time.Time
}

func NewChatService(repo repository.ChatRepository, sessionRepo repository.SleepSessionRepository, userRepo repository.UserRepository, inFlight *repository.InFlight, advisor llm.Advisor, now func() time.Time) ChatService {
	if now == nil {
		now = time.Now
	}
	return &chatService{
		repo:        repo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		inFlight:    inFlight,
		advisor:     advisor,
		now:         now,
	}
}

// Send appends the user's turn before asking the coach, then appends the
// reply. The coach sees the turns that preceded this one plus the most
// recent session.
func (s *chatService) Send(ctx context.Context, userID uuid.UUID, message string) (*domain.ChatExchangeResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	release, err := s.inFlight.Acquire(userID, repository.FlowChat)
	if err != nil {
		return nil, err
	}
	defer release()

	history, err := s.repo.Transcript(ctx, userID)
	if err != nil {
		return nil, err
	}

	userMsg := domain.ChatMessage{
		ID:        uuid.New(),
		Role:      domain.ChatRoleUser,
		Text:      message,
		Timestamp: s.now(),
	}
	if err := s.repo.Append(ctx, userID, userMsg); err != nil {
		return nil, err
	}

	lastSession, err := s.sessionRepo.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}

	traceID := uuid.NewString()
	ctx = llm.WithTrace(ctx, llm.TraceMeta{TraceID: traceID, UserID: userID.String()})
	reply := s.advisor.SleepCoachChat(ctx, history, message, lastSession)

	modelMsg := domain.ChatMessage{
		ID:        uuid.New(),
		Role:      domain.ChatRoleModel,
		Text:      reply,
		Timestamp: s.now(),
	}
	if err := s.repo.Append(ctx, userID, modelMsg); err != nil {
		return nil, err
	}

	return &domain.ChatExchangeResponse{
		UserMessage:   userMsg,
		ModelMessage:  modelMsg,
		AdviceTraceID: traceID,
	}, nil
}

func (s *chatService) Transcript(ctx context.Context, userID uuid.UUID) (*domain.ChatTranscriptResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	messages, err := s.repo.Transcript(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.ChatTranscriptResponse{Messages: messages}, nil
}
