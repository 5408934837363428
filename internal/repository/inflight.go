package repository

import (
	"fmt"
	"sync"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/google/uuid"
)

// Flow names one independently guarded advisory request kind.
type Flow string

const (
	FlowProfileAnalysis     Flow = "profile_analysis"
	FlowSessionAnalysis     Flow = "session_analysis"
	FlowChat                Flow = "chat"
	FlowDreamInterpretation Flow = "dream_interpretation"
)

type flightKey struct {
	user uuid.UUID
	flow Flow
}

// InFlight tracks which advisory flows are busy per user. A flow admits one
// request at a time; flows do not block each other.
type InFlight struct {
	mu   sync.Mutex
	busy map[flightKey]bool
}

func NewInFlight() *InFlight {
	return &InFlight{busy: make(map[flightKey]bool)}
}

// Acquire marks the flow busy and returns the function that clears it.
func (f *InFlight) Acquire(userID uuid.UUID, flow Flow) (func(), error) {
	key := flightKey{user: userID, flow: flow}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy[key] {
		return nil, fmt.Errorf("%w: %s", domain.ErrRequestInFlight, flow)
	}
	f.busy[key] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.busy, key)
			f.mu.Unlock()
		})
	}, nil
}

// Busy reports whether the flow is currently held.
func (f *InFlight) Busy(userID uuid.UUID, flow Flow) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy[flightKey{user: userID, flow: flow}]
}
