package repository

import (
	"context"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/pkg/pagination"
	"github.com/google/uuid"
)

type SleepSessionRepository interface {
	Append(ctx context.Context, session *domain.SleepSession) error
	// All returns the user's sessions in append order.
	All(ctx context.Context, userID uuid.UUID) ([]domain.SleepSession, error)
	// List returns up to limit+1 sessions newest first, starting after the cursor.
	List(ctx context.Context, userID uuid.UUID, filter domain.SleepSessionFilter) ([]domain.SleepSession, error)
	Latest(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error)
}

type sleepSessionRepository struct {
	store *Store
}

func NewSleepSessionRepository(store *Store) SleepSessionRepository {
	return &sleepSessionRepository{store: store}
}

func (r *sleepSessionRepository) Append(ctx context.Context, session *domain.SleepSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[session.UserID]; !ok {
		return domain.ErrNotFound
	}
	r.store.sessions[session.UserID] = append(r.store.sessions[session.UserID], cloneSession(*session))
	return nil
}

func (r *sleepSessionRepository) All(ctx context.Context, userID uuid.UUID) ([]domain.SleepSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored := r.store.sessions[userID]
	out := make([]domain.SleepSession, len(stored))
	for i, s := range stored {
		out[i] = cloneSession(s)
	}
	return out, nil
}

func (r *sleepSessionRepository) List(ctx context.Context, userID uuid.UUID, filter domain.SleepSessionFilter) ([]domain.SleepSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored := r.store.sessions[userID]
	start := len(stored) - 1

	// Resume below the cursor's session; an unknown cursor starts from the top.
	if filter.Cursor != "" {
		cursor, ok, err := pagination.Parse(filter.Cursor)
		if err == nil && ok {
			for i := len(stored) - 1; i >= 0; i-- {
				if stored[i].ID == cursor.SessionID {
					start = i - 1
					break
				}
			}
		}
	}

	// Fetch one extra to determine if there are more results
	limit := pagination.Clamp(filter.Limit) + 1
	out := make([]domain.SleepSession, 0, limit)
	for i := start; i >= 0 && len(out) < limit; i-- {
		out = append(out, cloneSession(stored[i]))
	}
	return out, nil
}

func (r *sleepSessionRepository) Latest(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored := r.store.sessions[userID]
	if len(stored) == 0 {
		return nil, nil
	}
	s := cloneSession(stored[len(stored)-1])
	return &s, nil
}

func cloneSession(s domain.SleepSession) domain.SleepSession {
	c := s
	if s.PreSleepActivity != nil {
		c.PreSleepActivity = append([]string(nil), s.PreSleepActivity...)
	}
	if s.DreamAnalysis != nil {
		a := *s.DreamAnalysis
		a.Themes = append([]string(nil), s.DreamAnalysis.Themes...)
		c.DreamAnalysis = &a
	}
	return c
}
