package repository

import (
	"context"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/google/uuid"
)

type ChatRepository interface {
	Append(ctx context.Context, userID uuid.UUID, msg domain.ChatMessage) error
	// Transcript returns the user's messages in send order.
	Transcript(ctx context.Context, userID uuid.UUID) ([]domain.ChatMessage, error)
}

type chatRepository struct {
	store *Store
}

func NewChatRepository(store *Store) ChatRepository {
	return &chatRepository{store: store}
}

func (r *chatRepository) Append(ctx context.Context, userID uuid.UUID, msg domain.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[userID]; !ok {
		return domain.ErrNotFound
	}
	r.store.chats[userID] = append(r.store.chats[userID], msg)
	return nil
}

func (r *chatRepository) Transcript(ctx context.Context, userID uuid.UUID) ([]domain.ChatMessage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return append([]domain.ChatMessage{}, r.store.chats[userID]...), nil
}
