package survey

import (
	"fmt"

	"github.com/blaisecz/sleep-coach/internal/domain"
)

// Profile field keys, matching the JSON names of domain.UserProfile.
const (
	FieldAge                   = "age"
	FieldGender                = "gender"
	FieldDailyCaffeine         = "daily_caffeine"
	FieldScreenTime            = "screen_time"
	FieldTypicalBedtimeRoutine = "typical_bedtime_routine"
	FieldAverageSleepDuration  = "average_sleep_duration"
	FieldSleepIssues           = "sleep_issues"
	FieldSleepLastNightHours   = "sleep_last_night_hours"
	FieldSleepLastNightMinutes = "sleep_last_night_minutes"
	FieldSleepQuality          = "sleep_quality"
	FieldCurrentFeeling        = "current_feeling"
	FieldCaffeineYesterday     = "caffeine_yesterday"
	FieldCaffeineLastCup       = "caffeine_last_cup"
	FieldCaffeineTotalIntake   = "caffeine_total_intake"
	FieldAlcoholYesterday      = "alcohol_yesterday"
	FieldAlcoholCloseToBed     = "alcohol_close_to_bed"
	FieldAteWithin3Hours       = "ate_within_3_hours"
	FieldMealType              = "meal_type"
	FieldWorkoutToday          = "workout_today"
	FieldWorkoutIntensity      = "workout_intensity"
	FieldWorkoutTiming         = "workout_timing"
	FieldSleepEnvironment      = "sleep_environment"
)

type textField struct {
	get func(*domain.UserProfile) string
	set func(*domain.UserProfile, string)
}

var textFields = map[string]textField{
	FieldAge:                   {func(p *domain.UserProfile) string { return p.Age }, func(p *domain.UserProfile, v string) { p.Age = v }},
	FieldGender:                {func(p *domain.UserProfile) string { return p.Gender }, func(p *domain.UserProfile, v string) { p.Gender = v }},
	FieldDailyCaffeine:         {func(p *domain.UserProfile) string { return p.DailyCaffeine }, func(p *domain.UserProfile, v string) { p.DailyCaffeine = v }},
	FieldScreenTime:            {func(p *domain.UserProfile) string { return p.ScreenTime }, func(p *domain.UserProfile, v string) { p.ScreenTime = v }},
	FieldAverageSleepDuration:  {func(p *domain.UserProfile) string { return p.AverageSleepDuration }, func(p *domain.UserProfile, v string) { p.AverageSleepDuration = v }},
	FieldSleepLastNightHours:   {func(p *domain.UserProfile) string { return p.SleepLastNightHours }, func(p *domain.UserProfile, v string) { p.SleepLastNightHours = v }},
	FieldSleepLastNightMinutes: {func(p *domain.UserProfile) string { return p.SleepLastNightMinutes }, func(p *domain.UserProfile, v string) { p.SleepLastNightMinutes = v }},
	FieldSleepQuality:          {func(p *domain.UserProfile) string { return p.SleepQuality }, func(p *domain.UserProfile, v string) { p.SleepQuality = v }},
	FieldCurrentFeeling:        {func(p *domain.UserProfile) string { return p.CurrentFeeling }, func(p *domain.UserProfile, v string) { p.CurrentFeeling = v }},
	FieldCaffeineYesterday:     {func(p *domain.UserProfile) string { return p.CaffeineYesterday }, func(p *domain.UserProfile, v string) { p.CaffeineYesterday = v }},
	FieldCaffeineLastCup:       {func(p *domain.UserProfile) string { return p.CaffeineLastCup }, func(p *domain.UserProfile, v string) { p.CaffeineLastCup = v }},
	FieldCaffeineTotalIntake:   {func(p *domain.UserProfile) string { return p.CaffeineTotalIntake }, func(p *domain.UserProfile, v string) { p.CaffeineTotalIntake = v }},
	FieldAlcoholYesterday:      {func(p *domain.UserProfile) string { return p.AlcoholYesterday }, func(p *domain.UserProfile, v string) { p.AlcoholYesterday = v }},
	FieldAlcoholCloseToBed:     {func(p *domain.UserProfile) string { return p.AlcoholCloseToBed }, func(p *domain.UserProfile, v string) { p.AlcoholCloseToBed = v }},
	FieldAteWithin3Hours:       {func(p *domain.UserProfile) string { return p.AteWithin3Hours }, func(p *domain.UserProfile, v string) { p.AteWithin3Hours = v }},
	FieldMealType:              {func(p *domain.UserProfile) string { return p.MealType }, func(p *domain.UserProfile, v string) { p.MealType = v }},
	FieldWorkoutToday:          {func(p *domain.UserProfile) string { return p.WorkoutToday }, func(p *domain.UserProfile, v string) { p.WorkoutToday = v }},
	FieldWorkoutIntensity:      {func(p *domain.UserProfile) string { return p.WorkoutIntensity }, func(p *domain.UserProfile, v string) { p.WorkoutIntensity = v }},
	FieldWorkoutTiming:         {func(p *domain.UserProfile) string { return p.WorkoutTiming }, func(p *domain.UserProfile, v string) { p.WorkoutTiming = v }},
}

var listFields = map[string]func(*domain.UserProfile) *[]string{
	FieldTypicalBedtimeRoutine: func(p *domain.UserProfile) *[]string { return &p.TypicalBedtimeRoutine },
	FieldSleepIssues:           func(p *domain.UserProfile) *[]string { return &p.SleepIssues },
	FieldSleepEnvironment:      func(p *domain.UserProfile) *[]string { return &p.SleepEnvironment },
}

// IsTextField reports whether field holds a single string answer.
func IsTextField(field string) bool {
	_, ok := textFields[field]
	return ok
}

// IsListField reports whether field holds a set of tags.
func IsListField(field string) bool {
	_, ok := listFields[field]
	return ok
}

// Text returns the string answer stored under field.
func Text(p *domain.UserProfile, field string) string {
	if f, ok := textFields[field]; ok {
		return f.get(p)
	}
	return ""
}

// SetText replaces the string answer stored under field.
func SetText(p *domain.UserProfile, field, value string) error {
	f, ok := textFields[field]
	if !ok {
		return fmt.Errorf("unknown text field %q", field)
	}
	f.set(p, value)
	return nil
}

// List returns the tag set stored under field.
func List(p *domain.UserProfile, field string) []string {
	if f, ok := listFields[field]; ok {
		return *f(p)
	}
	return nil
}

// Toggle adds item to the set under field if absent and removes it if present.
func Toggle(p *domain.UserProfile, field, item string) error {
	f, ok := listFields[field]
	if !ok {
		return fmt.Errorf("unknown list field %q", field)
	}
	current := f(p)
	for i, existing := range *current {
		if existing == item {
			next := make([]string, 0, len(*current)-1)
			next = append(next, (*current)[:i]...)
			next = append(next, (*current)[i+1:]...)
			*current = next
			return nil
		}
	}
	*current = append(append([]string{}, *current...), item)
	return nil
}
