package service

import (
	"math"
	"testing"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
)

func TestSliderStageEstimator(t *testing.T) {
	tests := []struct {
		name     string
		minutes  int
		quality  int
		expected domain.SleepStages
	}{
		{"8h at 80", 480, 80, domain.SleepStages{Deep: 77, REM: 96, Light: 240, Awake: 67}},
		{"zero quality", 480, 0, domain.SleepStages{Deep: 0, REM: 0, Light: 240, Awake: 240}},
		{"full quality", 480, 100, domain.SleepStages{Deep: 96, REM: 120, Light: 240, Awake: 24}},
		{"zero duration", 0, 90, domain.SleepStages{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SliderStageEstimator{}.Estimate(tt.minutes, tt.quality)
			if got != tt.expected {
				t.Errorf("Estimate(%d, %d) = %+v, want %+v", tt.minutes, tt.quality, got, tt.expected)
			}
		})
	}
}

func TestSliderStageEstimator_NeverNegative(t *testing.T) {
	for minutes := 0; minutes <= 14*60; minutes += 30 {
		for quality := 0; quality <= 100; quality += 5 {
			got := SliderStageEstimator{}.Estimate(minutes, quality)
			if got.Awake < 0 || got.Deep < 0 || got.REM < 0 || got.Light < 0 {
				t.Fatalf("Estimate(%d, %d) = %+v has a negative stage", minutes, quality, got)
			}
			if got.Total() != minutes {
				t.Fatalf("Estimate(%d, %d) total = %d", minutes, quality, got.Total())
			}
		}
	}
}

func TestDreamStageEstimator(t *testing.T) {
	got := DreamStageEstimator{}.Estimate(360, DreamQuality)
	expected := domain.SleepStages{Deep: 54, REM: 126, Light: 162, Awake: 18}
	if got != expected {
		t.Errorf("Estimate(360) = %+v, want %+v", got, expected)
	}
}

func TestDurationMinutesFor(t *testing.T) {
	tests := []struct {
		answer   string
		expected int
	}{
		{"< 5 hours", 270},
		{"5-6 hours", 330},
		{"6-7 hours", 390},
		{"7-8 hours", 450},
		{"8+ hours", 510},
		{"", DefaultDurationMinutes},
		{"ten hours", DefaultDurationMinutes},
	}

	for _, tt := range tests {
		if got := DurationMinutesFor(tt.answer); got != tt.expected {
			t.Errorf("DurationMinutesFor(%q) = %d, want %d", tt.answer, got, tt.expected)
		}
	}
}

func TestEstimateQuality(t *testing.T) {
	tests := []struct {
		name     string
		profile  domain.UserProfile
		expected int
	}{
		{
			name:     "no penalties",
			profile:  domain.UserProfile{DailyCaffeine: "None", SleepIssues: []string{"None"}},
			expected: 85,
		},
		{
			name:     "moderate caffeine",
			profile:  domain.UserProfile{DailyCaffeine: "2-3 Cups"},
			expected: 80,
		},
		{
			name:     "heavy caffeine and two issues",
			profile:  domain.UserProfile{DailyCaffeine: "4+ Cups", SleepIssues: []string{"Snoring", "Nightmares"}},
			expected: 54,
		},
		{
			name: "clamped at minimum",
			profile: domain.UserProfile{
				DailyCaffeine: "4+ Cups",
				SleepIssues:   []string{"Trouble falling asleep", "Waking up during night", "Waking up too early", "Snoring", "Nightmares"},
			},
			expected: 40,
		},
		{
			name:     "None marker is not an issue",
			profile:  domain.UserProfile{SleepIssues: []string{"None", "Snoring"}},
			expected: 77,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateQuality(tt.profile); got != tt.expected {
				t.Errorf("EstimateQuality() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestDeriveMetrics_FromSessions(t *testing.T) {
	sessions := []domain.SleepSession{
		{DurationMinutes: 420, Quality: 70, Stages: domain.SleepStages{Deep: 50}},
		{DurationMinutes: 480, Quality: 95, Stages: domain.SleepStages{Deep: 91}},
	}

	m := DeriveMetrics(sessions, &domain.UserProfile{DailyCaffeine: "4+ Cups"})

	if m.Source != domain.MetricsSourceSessions {
		t.Fatalf("Source = %s, want sessions", m.Source)
	}
	// mean quality 82.5 rounds half up
	if m.Quality.Display != "83%" {
		t.Errorf("Quality = %s, want 83%%", m.Quality.Display)
	}
	if m.Duration.Display != "7h 30m" {
		t.Errorf("Duration = %s, want 7h 30m", m.Duration.Display)
	}
	if m.DeepSleep.Display != "91m" {
		t.Errorf("DeepSleep = %s, want the last session's 91m", m.DeepSleep.Display)
	}
	if m.Efficiency.Display != "91%" {
		t.Errorf("Efficiency = %s, want 91%%", m.Efficiency.Display)
	}
}

func TestDeriveMetrics_EfficiencyCapped(t *testing.T) {
	for q := 0; q <= 100; q++ {
		m := DeriveMetrics([]domain.SleepSession{{DurationMinutes: 480, Quality: q}}, nil)
		if *m.Efficiency.Value > MaxSessionEfficiency {
			t.Fatalf("quality %d gave efficiency %d", q, *m.Efficiency.Value)
		}
	}
}

func TestDeriveMetrics_FromProfile(t *testing.T) {
	profile := &domain.UserProfile{
		DailyCaffeine:        "4+ Cups",
		AverageSleepDuration: "7-8 hours",
		SleepIssues:          []string{"Snoring", "Nightmares"},
	}

	m := DeriveMetrics(nil, profile)

	if m.Source != domain.MetricsSourceProfile {
		t.Fatalf("Source = %s, want profile", m.Source)
	}
	checks := map[string]string{
		"quality":    m.Quality.Display,
		"duration":   m.Duration.Display,
		"deep":       m.DeepSleep.Display,
		"efficiency": m.Efficiency.Display,
	}
	expected := map[string]string{
		"quality":    "54%",
		"duration":   "7h 30m",
		"deep":       "90m",
		"efficiency": "57%",
	}
	for k, want := range expected {
		if checks[k] != want {
			t.Errorf("%s = %s, want %s", k, checks[k], want)
		}
	}
}

func TestDeriveMetrics_Placeholder(t *testing.T) {
	m := DeriveMetrics(nil, nil)

	if m.Source != domain.MetricsSourceNone {
		t.Fatalf("Source = %s, want none", m.Source)
	}
	for _, v := range []domain.MetricValue{m.Quality, m.Duration, m.DeepSleep, m.Efficiency} {
		if v.Value != nil {
			t.Errorf("Value = %d, want nil", *v.Value)
		}
		if v.Display != domain.NoDataPlaceholder {
			t.Errorf("Display = %q, want %q", v.Display, domain.NoDataPlaceholder)
		}
	}
}

func TestBuildChart_FromSessions(t *testing.T) {
	sessions := []domain.SleepSession{
		{Date: "2024-01-14", DurationMinutes: 420, Quality: 70},
		{Date: "2024-01-15", DurationMinutes: 480, Quality: 80},
	}

	c := BuildChart(sessions, []domain.UserProfile{{}}, time.UTC)

	if c.Source != domain.ChartSourceSessions {
		t.Fatalf("Source = %s, want sessions", c.Source)
	}
	if len(c.Points) != 2 || c.Points[0].Date != "2024-01-14" || c.Points[1].Quality != 80 {
		t.Errorf("Points = %+v", c.Points)
	}
}

func TestBuildChart_FromAssessments(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	completed := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)

	// newest first
	history := []domain.UserProfile{
		{Date: &completed, AverageSleepDuration: "7-8 hours"},
		{AverageSleepDuration: "< 5 hours"},
	}

	c := BuildChart(nil, history, ny)

	if c.Source != domain.ChartSourceAssessments {
		t.Fatalf("Source = %s, want assessments", c.Source)
	}
	expected := []domain.ChartPoint{
		{Date: "Assessment 1", DurationMinutes: 270, Quality: AssessmentChartQuality},
		{Date: "2024-01-15", DurationMinutes: 450, Quality: AssessmentChartQuality},
	}
	if len(c.Points) != len(expected) {
		t.Fatalf("len(Points) = %d, want %d", len(c.Points), len(expected))
	}
	for i := range expected {
		if c.Points[i] != expected[i] {
			t.Errorf("Points[%d] = %+v, want %+v", i, c.Points[i], expected[i])
		}
	}
}

func TestBuildChart_Empty(t *testing.T) {
	c := BuildChart(nil, nil, nil)
	if c.Source != domain.ChartSourceNone || c.Points == nil || len(c.Points) != 0 {
		t.Errorf("BuildChart() = %+v, want empty series", c)
	}
}

func TestDeriveMetrics_NoNaN(t *testing.T) {
	m := DeriveMetrics([]domain.SleepSession{{}}, nil)
	for _, v := range []domain.MetricValue{m.Quality, m.Duration, m.DeepSleep, m.Efficiency} {
		if v.Value == nil || math.IsNaN(float64(*v.Value)) {
			t.Errorf("metric %+v has no numeric value", v)
		}
	}
}
