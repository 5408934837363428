// Package onboarding drives a user through a question set one step at a time.
package onboarding

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/survey"
)

var (
	ErrOnboardingClosed = errors.New("onboarding is closed")
	ErrFieldNotOnStep   = errors.New("field is not part of the current question")
	ErrInvalidAnswer    = errors.New("answer is not an accepted option")
)

// Outcome is the result of a Next call.
type Outcome string

const (
	OutcomeBlocked   Outcome = "blocked"
	OutcomeAdvanced  Outcome = "advanced"
	OutcomeCompleted Outcome = "completed"
)

// Status of a machine.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Machine holds one draft profile and the current step. It is not safe for
// concurrent use; callers serialize access.
type Machine struct {
	set    *survey.QuestionSet
	step   int
	draft  domain.UserProfile
	status Status
	now    func() time.Time
}

// Start creates a machine at step 0 with an empty draft.
func Start(set *survey.QuestionSet, now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{
		set:    set,
		draft:  domain.UserProfile{TypicalBedtimeRoutine: []string{}, SleepIssues: []string{}},
		status: StatusActive,
		now:    now,
	}
}

// State is a read-only view of the machine.
type State struct {
	Variant  string             `json:"variant"`
	Status   Status             `json:"status"`
	Step     int                `json:"step"`
	Total    int                `json:"total"`
	Question *survey.Question   `json:"question,omitempty"`
	CanNext  bool               `json:"can_next"`
	IsLast   bool               `json:"is_last"`
	Draft    domain.UserProfile `json:"draft"`
}

// Snapshot returns the current state with a copy of the draft.
func (m *Machine) Snapshot() State {
	s := State{
		Variant: m.set.Variant,
		Status:  m.status,
		Step:    m.step,
		Total:   m.set.Len(),
		Draft:   m.draft.Clone(),
	}
	if m.status == StatusActive {
		q := m.set.Question(m.step)
		s.Question = q
		s.CanNext = q.IsValid(&m.draft)
		s.IsLast = m.step == m.set.Len()-1
	}
	return s
}

// Status reports whether the machine is still accepting input.
func (m *Machine) Status() Status { return m.status }

// SetAnswer replaces a single-valued field of the current question.
func (m *Machine) SetAnswer(field, value string) error {
	q, err := m.current()
	if err != nil {
		return err
	}
	if !q.Owns(field) {
		return fmt.Errorf("%w: %s", ErrFieldNotOnStep, field)
	}
	if !survey.IsTextField(field) {
		return fmt.Errorf("%w: %s takes multiple selections", ErrInvalidAnswer, field)
	}

	gate := q.Gate()
	if gate != "" && field != gate && survey.Text(&m.draft, gate) != q.Unlock {
		return fmt.Errorf("%w: %s is hidden until %s is %q", ErrFieldNotOnStep, field, gate, q.Unlock)
	}
	if options, ok := q.OptionsFor(field); ok && !slices.Contains(options, value) {
		return fmt.Errorf("%w: %q for %s", ErrInvalidAnswer, value, field)
	}

	if err := survey.SetText(&m.draft, field, value); err != nil {
		return err
	}
	if field == gate && value != q.Unlock {
		for _, f := range q.FollowUps {
			_ = survey.SetText(&m.draft, f.Field, "")
		}
	}
	return nil
}

// Toggle adds or removes item in a multi-select field of the current question.
func (m *Machine) Toggle(field, item string) error {
	q, err := m.current()
	if err != nil {
		return err
	}
	if !q.Owns(field) {
		return fmt.Errorf("%w: %s", ErrFieldNotOnStep, field)
	}
	if q.Kind != survey.KindMultiSelect {
		return fmt.Errorf("%w: %s takes a single answer", ErrInvalidAnswer, field)
	}
	if !slices.Contains(q.Options, item) {
		return fmt.Errorf("%w: %q for %s", ErrInvalidAnswer, item, field)
	}
	return survey.Toggle(&m.draft, field, item)
}

// Next advances when the current question is satisfied. On the last step it
// completes the machine and returns the dated profile.
func (m *Machine) Next() (Outcome, *domain.UserProfile, error) {
	q, err := m.current()
	if err != nil {
		return "", nil, err
	}
	if !q.IsValid(&m.draft) {
		return OutcomeBlocked, nil, nil
	}
	if m.step < m.set.Len()-1 {
		m.step++
		return OutcomeAdvanced, nil, nil
	}

	profile := m.draft.Clone()
	completedAt := m.now()
	profile.Date = &completedAt
	m.status = StatusCompleted
	return OutcomeCompleted, &profile, nil
}

// Back moves to the previous step. Answers are kept.
func (m *Machine) Back() error {
	if m.status != StatusActive {
		return ErrOnboardingClosed
	}
	if m.step > 0 {
		m.step--
	}
	return nil
}

// Cancel discards the draft.
func (m *Machine) Cancel() error {
	if m.status != StatusActive {
		return ErrOnboardingClosed
	}
	m.status = StatusCancelled
	m.draft = domain.UserProfile{}
	return nil
}

func (m *Machine) current() (*survey.Question, error) {
	if m.status != StatusActive {
		return nil, ErrOnboardingClosed
	}
	return m.set.Question(m.step), nil
}
