package repository

import (
	"context"
	"fmt"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// Update applies fn to the stored user under the store lock and returns a
	// copy of the result. Nothing is stored if fn fails.
	Update(ctx context.Context, id uuid.UUID, fn func(*domain.User) error) (*domain.User, error)
}

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; ok {
		return fmt.Errorf("%w: user %s already exists", domain.ErrInvalidInput, user.ID)
	}
	stored := user.Clone()
	r.store.users[user.ID] = &stored
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := user.Clone()
	return &c, nil
}

func (r *userRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.users[id]
	return ok, nil
}

func (r *userRepository) Update(ctx context.Context, id uuid.UUID, fn func(*domain.User) error) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	working := user.Clone()
	if err := fn(&working); err != nil {
		return nil, err
	}
	r.store.users[id] = &working
	c := working.Clone()
	return &c, nil
}
