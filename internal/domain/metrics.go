package domain

// NoDataPlaceholder is displayed for every metric when neither sessions nor a profile exist.
const NoDataPlaceholder = "--"

// MetricsSource tells which evidence the dashboard metrics were derived from.
type MetricsSource string

const (
	MetricsSourceSessions MetricsSource = "sessions"
	MetricsSourceProfile  MetricsSource = "profile"
	MetricsSourceNone     MetricsSource = "none"
)

// ChartSource tells which evidence the chart series was built from.
type ChartSource string

const (
	ChartSourceSessions    ChartSource = "sessions"
	ChartSourceAssessments ChartSource = "assessments"
	ChartSourceNone        ChartSource = "none"
)

// MetricValue is one display metric. Value is nil when Display is the placeholder.
// @Description A dashboard metric with its display string.
type MetricValue struct {
	Value   *int   `json:"value"`
	Unit    string `json:"unit" example:"%"`
	Display string `json:"display" example:"82%"`
}

// DashboardMetrics are the four headline dashboard numbers.
// @Description Headline sleep metrics.
type DashboardMetrics struct {
	Source     MetricsSource `json:"source" example:"sessions" enums:"sessions,profile,none"`
	Quality    MetricValue   `json:"quality"`
	Duration   MetricValue   `json:"duration"`
	DeepSleep  MetricValue   `json:"deep_sleep"`
	Efficiency MetricValue   `json:"efficiency"`
}

// ChartPoint is one entry of the trend chart.
// @Description One point of the sleep trend chart.
type ChartPoint struct {
	Date            string `json:"date" example:"2024-01-15"`
	DurationMinutes int    `json:"duration_minutes" example:"450"`
	Quality         int    `json:"quality" example:"75"`
}

// ChartSeries is the ordered, date-keyed trend series.
// @Description Chart-ready trend series.
type ChartSeries struct {
	Source ChartSource  `json:"source" example:"sessions" enums:"sessions,assessments,none"`
	Points []ChartPoint `json:"points"`
}

// DashboardResponse is the response body for the dashboard endpoint.
// @Description Dashboard metrics and chart series.
type DashboardResponse struct {
	Metrics DashboardMetrics `json:"metrics"`
	Chart   ChartSeries      `json:"chart"`
	// Latest profile analysis, if an assessment was completed
	ProfileAnalysis string `json:"profile_analysis,omitempty"`
}
