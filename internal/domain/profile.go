package domain

import "time"

// Survey literals shared by the question sets, the metrics engine and the advisory prompts.
const (
	CaffeineNone       = "None"
	CaffeineOneCup     = "1 Cup"
	CaffeineTwoToThree = "2-3 Cups"
	CaffeineFourPlus   = "4+ Cups"

	SleepIssueNone = "None"

	AnswerYes = "Yes"
	AnswerNo  = "No"
)

// UserProfile is one completed or in-progress questionnaire instance.
// @Description Sleep habit questionnaire answers.
type UserProfile struct {
	// Assessment completion time (set when the questionnaire is completed)
	Date *time.Time `json:"date,omitempty" example:"2024-01-15T23:30:00Z"`

	Age                   string   `json:"age" example:"29"`
	Gender                string   `json:"gender" example:"Female"`
	DailyCaffeine         string   `json:"daily_caffeine" example:"2-3 Cups"`
	ScreenTime            string   `json:"screen_time" example:"30-60 mins"`
	TypicalBedtimeRoutine []string `json:"typical_bedtime_routine"`
	AverageSleepDuration  string   `json:"average_sleep_duration" example:"7-8 hours"`
	SleepIssues           []string `json:"sleep_issues"`

	// Extended questionnaire
	SleepLastNightHours   string   `json:"sleep_last_night_hours,omitempty"`
	SleepLastNightMinutes string   `json:"sleep_last_night_minutes,omitempty"`
	SleepQuality          string   `json:"sleep_quality,omitempty" example:"7"`
	CurrentFeeling        string   `json:"current_feeling,omitempty" example:"Alert but tired"`
	CaffeineYesterday     string   `json:"caffeine_yesterday,omitempty"`
	CaffeineLastCup       string   `json:"caffeine_last_cup,omitempty"`
	CaffeineTotalIntake   string   `json:"caffeine_total_intake,omitempty"`
	AlcoholYesterday      string   `json:"alcohol_yesterday,omitempty"`
	AlcoholCloseToBed     string   `json:"alcohol_close_to_bed,omitempty"`
	AteWithin3Hours       string   `json:"ate_within_3_hours,omitempty"`
	MealType              string   `json:"meal_type,omitempty"`
	WorkoutToday          string   `json:"workout_today,omitempty"`
	WorkoutIntensity      string   `json:"workout_intensity,omitempty"`
	WorkoutTiming         string   `json:"workout_timing,omitempty"`
	SleepEnvironment      []string `json:"sleep_environment,omitempty"`

	AIAnalysis string `json:"ai_analysis,omitempty"`
}

// Clone returns a copy that shares no slices with p.
func (p UserProfile) Clone() UserProfile {
	c := p
	c.TypicalBedtimeRoutine = cloneStrings(p.TypicalBedtimeRoutine)
	c.SleepIssues = cloneStrings(p.SleepIssues)
	c.SleepEnvironment = cloneStrings(p.SleepEnvironment)
	if p.Date != nil {
		d := *p.Date
		c.Date = &d
	}
	return c
}

// ReportedIssues returns the sleep issues excluding the "None" marker.
func (p UserProfile) ReportedIssues() []string {
	var issues []string
	for _, issue := range p.SleepIssues {
		if issue != SleepIssueNone {
			issues = append(issues, issue)
		}
	}
	return issues
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
