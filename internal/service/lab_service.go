package service

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
)

const (
	SleepCycle          = 90 * time.Minute
	FallAsleepLatency   = 15 * time.Minute
	MakeupMinutesPerDay = 20

	clockLayout = "15:04"
)

var cycleLabels = map[int]string{
	6: "9 hours (Best)",
	5: "7.5 hours (Good)",
	4: "6 hours (Okay)",
	3: "4.5 hours",
}

// LabService provides the sleep lab calculators.
type LabService interface {
	Bedtimes(wake string, loc *time.Location) (*domain.BedtimeResponse, error)
	SleepDebt(req *domain.SleepDebtRequest) domain.SleepDebtResult
	Breathing() domain.BreathingPlan
}

type labService struct {
	now func() time.Time
}

func NewLabService(now func() time.Time) LabService {
	if now == nil {
		now = time.Now
	}
	return &labService{now: now}
}

// Bedtimes suggests bedtimes that end a whole number of sleep cycles at the
// wake time. A wake time already past today is taken to mean tomorrow.
func (s *labService) Bedtimes(wake string, loc *time.Location) (*domain.BedtimeResponse, error) {
	if loc == nil {
		loc = time.UTC
	}
	clock, err := time.Parse(clockLayout, wake)
	if err != nil {
		return nil, fmt.Errorf("%w: wake time must be HH:MM", domain.ErrInvalidInput)
	}

	now := s.now().In(loc)
	wakeAt := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	if wakeAt.Before(now) {
		wakeAt = wakeAt.AddDate(0, 0, 1)
	}

	resp := &domain.BedtimeResponse{WakeTime: wakeAt.Format(clockLayout)}
	for cycles := 6; cycles >= 3; cycles-- {
		sleep := time.Duration(cycles) * SleepCycle
		bedtime := wakeAt.Add(-sleep - FallAsleepLatency)
		resp.Suggestions = append(resp.Suggestions, domain.BedtimeSuggestion{
			Cycles:     cycles,
			SleepHours: sleep.Hours(),
			Bedtime:    bedtime.Format(clockLayout),
			Label:      cycleLabels[cycles],
		})
	}
	return resp, nil
}

// SleepDebt spreads the shortfall over days of going to bed a little earlier.
func (s *labService) SleepDebt(req *domain.SleepDebtRequest) domain.SleepDebtResult {
	debt := req.NeededHours - req.ActualHours
	if debt <= 0 {
		return domain.SleepDebtResult{
			DebtHours: debt,
			Message:   "You are sleep positive! Keep maintaining this schedule.",
		}
	}

	makeupDays := int(math.Ceil(debt * 60 / MakeupMinutesPerDay))
	return domain.SleepDebtResult{
		DebtHours:  debt,
		MakeupDays: makeupDays,
		Message: fmt.Sprintf(
			"You have a sleep debt of %s hours. Try going to bed %d minutes earlier for the next %d days to recover.",
			strconv.FormatFloat(debt, 'f', -1, 64), MakeupMinutesPerDay, makeupDays,
		),
	}
}

// Breathing returns the 4-7-8 relaxation exercise.
func (s *labService) Breathing() domain.BreathingPlan {
	phases := []domain.BreathingPhase{
		{Name: "Inhale", Prompt: "Inhale...", Seconds: 4},
		{Name: "Hold", Prompt: "Hold...", Seconds: 7},
		{Name: "Exhale", Prompt: "Exhale...", Seconds: 8},
	}
	total := 0
	for _, p := range phases {
		total += p.Seconds
	}
	return domain.BreathingPlan{
		Name:         "4-7-8 Breathing",
		Phases:       phases,
		CycleSeconds: total,
	}
}
