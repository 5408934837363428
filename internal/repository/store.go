package repository

import (
	"sync"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/google/uuid"
)

// Store is the process-lifetime application state. Every repository built on
// the same Store shares its lock, so one action mutates state at a time.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*domain.User
	sessions map[uuid.UUID][]domain.SleepSession
	chats    map[uuid.UUID][]domain.ChatMessage
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*domain.User),
		sessions: make(map[uuid.UUID][]domain.SleepSession),
		chats:    make(map[uuid.UUID][]domain.ChatMessage),
	}
}
