package domain

import (
	"time"

	"github.com/google/uuid"
)

// LocalDateLayout is the calendar date format used for session dates and chart labels.
const LocalDateLayout = "2006-01-02"

// SleepStages holds per-stage minute estimates.
// @Description Estimated minutes per sleep stage.
type SleepStages struct {
	Awake int `json:"awake" example:"67"`
	Light int `json:"light" example:"240"`
	Deep  int `json:"deep" example:"77"`
	REM   int `json:"rem" example:"96"`
}

// Total returns the sum of all stage minutes.
func (s SleepStages) Total() int {
	return s.Awake + s.Light + s.Deep + s.REM
}

// DreamAnalysis is the structured dream interpretation returned by the advisory gateway.
// @Description Dream interpretation with extracted themes.
type DreamAnalysis struct {
	Interpretation string   `json:"interpretation" example:"Flying often reflects a wish for freedom..."`
	Themes         []string `json:"themes" example:"Freedom,Control,Change"`
}

// SleepSession is one recorded or dream-derived night of sleep. Sessions are
// immutable once appended to the state store.
type SleepSession struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Date             string
	DurationMinutes  int
	Quality          int
	Stages           SleepStages
	NoiseEvents      int
	DreamNotes       string
	DreamAnalysis    *DreamAnalysis
	AIAnalysis       string
	CaffeineIntake   string
	PreSleepActivity []string
	// AdviceTraceID identifies the advisory trace behind AIAnalysis
	AdviceTraceID string
	CreatedAt     time.Time
}

// Choices offered by the session log form.
var (
	CaffeineIntakes    = []string{"None", "1-2 cups", "3+ cups"}
	PreSleepActivities = []string{"Screen Time", "Reading", "Late Meal", "Workout"}
)

// CreateSleepSessionRequest is the request body for logging last night's sleep.
// @Description Manual sleep log from the duration and quality sliders.
type CreateSleepSessionRequest struct {
	// Sleep duration in hours (slider, 0-14 in half-hour steps)
	DurationHours float64 `json:"duration_hours" validate:"min=0,max=14" example:"7.5" minimum:"0" maximum:"14"`
	// Sleep quality score (0-100)
	Quality int `json:"quality" validate:"min=0,max=100" example:"75" minimum:"0" maximum:"100"`
	// Caffeine consumed yesterday
	CaffeineIntake string `json:"caffeine_intake,omitempty" validate:"omitempty,caffeine_intake" example:"1-2 cups" enums:"None,1-2 cups,3+ cups"`
	// Activities before bed
	PreSleepActivity []string `json:"pre_sleep_activity,omitempty" validate:"omitempty,dive,pre_sleep_activity"`
	// Optional free-text dream notes
	DreamNotes string `json:"dream_notes,omitempty" validate:"max=4000"`
}

// InterpretDreamRequest is the request body for dream interpretation.
type InterpretDreamRequest struct {
	Text string `json:"text" validate:"required,max=4000" example:"I was flying over a city made of glass..."`
}

// DreamInterpretationResponse is the response body for dream interpretation.
type DreamInterpretationResponse struct {
	DreamAnalysis
	AdviceTraceID string `json:"advice_trace_id,omitempty"`
}

// SaveDreamRequest is the request body for saving an interpreted dream as a session.
// @Description Dream entry saved to the sleep log.
type SaveDreamRequest struct {
	// Dream text
	Text string `json:"text" validate:"required,max=4000"`
	// Estimated sleep duration in hours (3-12)
	DurationHours float64 `json:"duration_hours" validate:"min=3,max=12" example:"7.5"`
	// Interpretation previously returned by the interpret endpoint
	DreamAnalysis *DreamAnalysis `json:"dream_analysis"`
}

// SleepSessionResponse is the response body for session endpoints.
// @Description Recorded sleep session.
type SleepSessionResponse struct {
	ID               uuid.UUID      `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Date             string         `json:"date" example:"2024-01-15"`
	DurationMinutes  int            `json:"duration_minutes" example:"480"`
	Quality          int            `json:"quality" example:"80"`
	Stages           SleepStages    `json:"stages"`
	NoiseEvents      int            `json:"noise_events" example:"0"`
	DreamNotes       string         `json:"dream_notes,omitempty"`
	DreamAnalysis    *DreamAnalysis `json:"dream_analysis,omitempty"`
	AIAnalysis       string         `json:"ai_analysis,omitempty"`
	CaffeineIntake   string         `json:"caffeine_intake,omitempty"`
	PreSleepActivity []string       `json:"pre_sleep_activity,omitempty"`
	AdviceTraceID    string         `json:"advice_trace_id,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (s *SleepSession) ToResponse() SleepSessionResponse {
	return SleepSessionResponse{
		ID:               s.ID,
		Date:             s.Date,
		DurationMinutes:  s.DurationMinutes,
		Quality:          s.Quality,
		Stages:           s.Stages,
		NoiseEvents:      s.NoiseEvents,
		DreamNotes:       s.DreamNotes,
		DreamAnalysis:    s.DreamAnalysis,
		AIAnalysis:       s.AIAnalysis,
		CaffeineIntake:   s.CaffeineIntake,
		PreSleepActivity: s.PreSleepActivity,
		AdviceTraceID:    s.AdviceTraceID,
		CreatedAt:        s.CreatedAt,
	}
}

// SleepSessionListResponse is the response body for listing sessions.
// @Description Paginated list of sleep sessions, newest first.
type SleepSessionListResponse struct {
	Data       []SleepSessionResponse `json:"data"`
	Pagination PaginationResponse     `json:"pagination"`
}

// PaginationResponse contains pagination metadata.
// @Description Cursor-based pagination info.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more" example:"true"`
}

// SleepSessionFilter contains filter parameters for listing sessions
type SleepSessionFilter struct {
	Limit  int
	Cursor string
}

// LocalDate formats t as a calendar date in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(LocalDateLayout)
}
