package service

import (
	"fmt"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
)

const (
	// DefaultDurationMinutes stands in for an unanswered or unknown
	// average-duration answer: a typical 8 hour night.
	DefaultDurationMinutes = 480

	// AssessmentChartQuality is plotted for assessments, which carry no
	// measured quality.
	AssessmentChartQuality = 75

	// MaxSessionEfficiency caps efficiency derived from recorded sessions.
	MaxSessionEfficiency = 98

	estQualityBase        = 85
	estQualityMin         = 40
	estQualityMax         = 95
	estPenaltyTwoToThree  = 5
	estPenaltyFourPlus    = 15
	estPenaltyPerIssue    = 8
	estProfileEfficiency  = 1.05
	estSessionEfficiency  = 1.1
	estDeepSleepShare     = 0.2
	assessmentLabelFormat = "Assessment %d"
)

var durationLookup = map[string]int{
	"< 5 hours": 270,
	"5-6 hours": 330,
	"6-7 hours": 390,
	"7-8 hours": 450,
	"8+ hours":  510,
}

// DurationMinutesFor maps an average-duration answer to representative minutes.
func DurationMinutesFor(answer string) int {
	if m, ok := durationLookup[answer]; ok {
		return m
	}
	return DefaultDurationMinutes
}

// EstimateQuality scores a profile's self-reported habits on the quality scale.
func EstimateQuality(p domain.UserProfile) int {
	q := estQualityBase
	switch p.DailyCaffeine {
	case domain.CaffeineTwoToThree:
		q -= estPenaltyTwoToThree
	case domain.CaffeineFourPlus:
		q -= estPenaltyFourPlus
	}
	q -= estPenaltyPerIssue * len(p.ReportedIssues())
	return min(estQualityMax, max(estQualityMin, q))
}

// DeriveMetrics computes the headline metrics, preferring recorded sessions
// over a profile estimate. sessions are in append order.
func DeriveMetrics(sessions []domain.SleepSession, profile *domain.UserProfile) domain.DashboardMetrics {
	switch {
	case len(sessions) > 0:
		var qualitySum, durationSum int
		for _, s := range sessions {
			qualitySum += s.Quality
			durationSum += s.DurationMinutes
		}
		n := float64(len(sessions))
		avgQuality := roundInt(float64(qualitySum) / n)
		avgDuration := roundInt(float64(durationSum) / n)
		efficiency := min(MaxSessionEfficiency, roundInt(float64(avgQuality)*estSessionEfficiency))

		return domain.DashboardMetrics{
			Source:     domain.MetricsSourceSessions,
			Quality:    percent(avgQuality),
			Duration:   duration(avgDuration),
			DeepSleep:  minutes(sessions[len(sessions)-1].Stages.Deep),
			Efficiency: percent(efficiency),
		}

	case profile != nil:
		estMinutes := DurationMinutesFor(profile.AverageSleepDuration)
		estQuality := EstimateQuality(*profile)

		return domain.DashboardMetrics{
			Source:     domain.MetricsSourceProfile,
			Quality:    percent(estQuality),
			Duration:   duration(estMinutes),
			DeepSleep:  minutes(roundInt(float64(estMinutes) * estDeepSleepShare)),
			Efficiency: percent(roundInt(float64(estQuality) * estProfileEfficiency)),
		}

	default:
		return domain.DashboardMetrics{
			Source:     domain.MetricsSourceNone,
			Quality:    placeholder("%"),
			Duration:   placeholder("min"),
			DeepSleep:  placeholder("min"),
			Efficiency: placeholder("%"),
		}
	}
}

// BuildChart returns the trend series from sessions, or from the assessment
// history (newest first) when no sessions exist. Assessment dates are
// calendar dates in loc.
func BuildChart(sessions []domain.SleepSession, history []domain.UserProfile, loc *time.Location) domain.ChartSeries {
	if len(sessions) > 0 {
		points := make([]domain.ChartPoint, len(sessions))
		for i, s := range sessions {
			points[i] = domain.ChartPoint{Date: s.Date, DurationMinutes: s.DurationMinutes, Quality: s.Quality}
		}
		return domain.ChartSeries{Source: domain.ChartSourceSessions, Points: points}
	}

	if len(history) > 0 {
		points := make([]domain.ChartPoint, 0, len(history))
		for i := len(history) - 1; i >= 0; i-- {
			h := history[i]
			label := fmt.Sprintf(assessmentLabelFormat, len(points)+1)
			if h.Date != nil {
				label = domain.LocalDate(*h.Date, loc)
			}
			points = append(points, domain.ChartPoint{
				Date:            label,
				DurationMinutes: DurationMinutesFor(h.AverageSleepDuration),
				Quality:         AssessmentChartQuality,
			})
		}
		return domain.ChartSeries{Source: domain.ChartSourceAssessments, Points: points}
	}

	return domain.ChartSeries{Source: domain.ChartSourceNone, Points: []domain.ChartPoint{}}
}

func percent(v int) domain.MetricValue {
	return domain.MetricValue{Value: &v, Unit: "%", Display: fmt.Sprintf("%d%%", v)}
}

func minutes(v int) domain.MetricValue {
	return domain.MetricValue{Value: &v, Unit: "min", Display: fmt.Sprintf("%dm", v)}
}

func duration(v int) domain.MetricValue {
	return domain.MetricValue{Value: &v, Unit: "min", Display: fmt.Sprintf("%dh %dm", v/60, v%60)}
}

func placeholder(unit string) domain.MetricValue {
	return domain.MetricValue{Unit: unit, Display: domain.NoDataPlaceholder}
}
