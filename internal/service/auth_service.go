package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	GuestName  = "Guest User"
	DemoName   = "Alex Doe"
	DemoEmail  = "alex.doe@example.com"
	DemoAvatar = "https://picsum.photos/100/100"
)

// AuthConfig configures token issuing.
type AuthConfig struct {
	Secret          string
	TokenTTL        time.Duration
	DefaultTimezone string
	// OnDemo runs after a demo account is created, e.g. to seed sample history.
	OnDemo func(ctx context.Context, userID uuid.UUID) error
}

// AuthService signs users in with mock accounts and verifies their tokens.
type AuthService interface {
	Guest(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	Demo(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	// Verify returns the user a bearer token was issued to.
	Verify(token string) (uuid.UUID, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg AuthConfig, now func() time.Time) AuthService {
	if now == nil {
		now = time.Now
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "UTC"
	}
	return &authService{userRepo: userRepo, cfg: cfg, now: now}
}

func (s *authService) Guest(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	return s.login(ctx, &domain.User{
		Name:    GuestName,
		IsGuest: true,
	}, req, nil)
}

func (s *authService) Demo(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	return s.login(ctx, &domain.User{
		Name:   DemoName,
		Email:  DemoEmail,
		Avatar: DemoAvatar,
	}, req, s.cfg.OnDemo)
}

func (s *authService) login(ctx context.Context, user *domain.User, req *domain.LoginRequest, after func(context.Context, uuid.UUID) error) (*domain.LoginResponse, error) {
	user.ID = uuid.New()
	user.Timezone = s.cfg.DefaultTimezone
	if req != nil && req.Timezone != "" {
		user.Timezone = req.Timezone
	}
	user.CreatedAt = s.now()

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if after != nil {
		if err := after(ctx, user.ID); err != nil {
			return nil, err
		}
		stored, err := s.userRepo.GetByID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		user = stored
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResponse{User: user.ToResponse(), Token: token}, nil
}

func (s *authService) issue(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"is_guest": user.IsGuest,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *authService) Verify(raw string) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", domain.ErrUnauthorized)
	}
	return id, nil
}
