package domain

// BedtimeSuggestion is one candidate bedtime for a target wake time.
// @Description Bedtime aligned to full 90-minute sleep cycles.
type BedtimeSuggestion struct {
	Cycles     int     `json:"cycles" example:"6"`
	SleepHours float64 `json:"sleep_hours" example:"9"`
	Bedtime    string  `json:"bedtime" example:"21:45"`
	Label      string  `json:"label" example:"9 hours (Best)"`
}

// BedtimeResponse lists bedtime suggestions, longest sleep first.
type BedtimeResponse struct {
	WakeTime    string              `json:"wake_time" example:"07:00"`
	Suggestions []BedtimeSuggestion `json:"suggestions"`
}

// SleepDebtRequest is the request body for the sleep debt calculator.
type SleepDebtRequest struct {
	NeededHours float64 `json:"needed_hours" validate:"gt=0,max=24" example:"8"`
	ActualHours float64 `json:"actual_hours" validate:"min=0,max=24" example:"6"`
}

// SleepDebtResult is the outcome of the sleep debt calculator.
// @Description Sleep debt and recovery plan.
type SleepDebtResult struct {
	DebtHours  float64 `json:"debt_hours" example:"2"`
	MakeupDays int     `json:"makeup_days" example:"6"`
	Message    string  `json:"message"`
}

// BreathingPhase is one timed step of a breathing exercise.
type BreathingPhase struct {
	Name    string `json:"name" example:"Inhale"`
	Prompt  string `json:"prompt" example:"Inhale..."`
	Seconds int    `json:"seconds" example:"4"`
}

// BreathingPlan describes a breathing exercise cycle.
// @Description Timed breathing exercise.
type BreathingPlan struct {
	Name         string           `json:"name" example:"4-7-8 Breathing"`
	Phases       []BreathingPhase `json:"phases"`
	CycleSeconds int              `json:"cycle_seconds" example:"19"`
}
