// Package seed fills the in-memory store with sample history so the
// dashboard and coach have data to work with right after a demo sign-in.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/repository"
	"github.com/blaisecz/sleep-coach/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const seededDays = 14

// Seeder writes sample assessments and sessions.
type Seeder struct {
	users     repository.UserRepository
	sessions  repository.SleepSessionRepository
	estimator service.StageEstimator
	rng       *rand.Rand
	now       func() time.Time
	logger    *zap.Logger
}

// New creates a Seeder. A nil rng is seeded from the clock.
func New(users repository.UserRepository, sessions repository.SleepSessionRepository, rng *rand.Rand, now func() time.Time, logger *zap.Logger) *Seeder {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		users:     users,
		sessions:  sessions,
		estimator: service.SliderStageEstimator{},
		rng:       rng,
		now:       now,
		logger:    logger.With(zap.String("component", "seed")),
	}
}

// Demo gives userID a completed baseline assessment and one session per
// night for the last two weeks, oldest first.
func (s *Seeder) Demo(ctx context.Context, userID uuid.UUID) error {
	now := s.now()
	completedAt := now.AddDate(0, 0, -seededDays)
	profile := domain.UserProfile{
		Date:                  &completedAt,
		Age:                   "32",
		Gender:                "Prefer not to say",
		DailyCaffeine:         "2-3 Cups",
		ScreenTime:            "30-60 mins",
		TypicalBedtimeRoutine: []string{"Reading", "Shower"},
		AverageSleepDuration:  "6-7 hours",
		SleepIssues:           []string{"Waking up during night"},
		AIAnalysis:            "You average a little under seven hours with some caffeine in the day. Keeping screens out of the last half hour before bed should help you stay asleep.",
	}

	user, err := s.users.Update(ctx, userID, func(u *domain.User) error {
		u.AddAssessment(profile)
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed assessment: %w", err)
	}

	loc := user.Location()
	for i := seededDays; i >= 1; i-- {
		if err := s.sessions.Append(ctx, s.session(userID, now.AddDate(0, 0, -i), loc)); err != nil {
			return fmt.Errorf("seed session: %w", err)
		}
	}

	s.logger.Info("seeded demo history", zap.String("user_id", userID.String()), zap.Int("sessions", seededDays))
	return nil
}

func (s *Seeder) session(userID uuid.UUID, at time.Time, loc *time.Location) *domain.SleepSession {
	// 6h to 8h30 in half-hour slider steps
	durationMinutes := 360 + 30*s.rng.Intn(6)
	quality := 50 + s.rng.Intn(46)

	var activities []string
	for _, a := range domain.PreSleepActivities {
		if s.rng.Intn(3) == 0 {
			activities = append(activities, a)
		}
	}

	return &domain.SleepSession{
		ID:               uuid.New(),
		UserID:           userID,
		Date:             domain.LocalDate(at, loc),
		DurationMinutes:  durationMinutes,
		Quality:          quality,
		Stages:           s.estimator.Estimate(durationMinutes, quality),
		NoiseEvents:      s.rng.Intn(4),
		AIAnalysis:       "Sample night generated for the demo account.",
		CaffeineIntake:   domain.CaffeineIntakes[s.rng.Intn(len(domain.CaffeineIntakes))],
		PreSleepActivity: activities,
		CreatedAt:        at,
	}
}
