package models

import "time"

// MinReliableSampleSize is the number of recorded outcomes below which
// burden metrics should not drive strong decisions.
const MinReliableSampleSize = 10

// BurdenMetrics are rolling-window aggregates over recent intervention
// outcomes. They are recomputed from history (see the history package);
// the burden model is a pure function over them.
type BurdenMetrics struct {
	AvgResponseTime time.Duration `json:"avg_response_time"`

	DismissRate     float64 `json:"dismiss_rate"`
	TimeoutRate     float64 `json:"timeout_rate"`
	SnoozeFrequency int     `json:"snooze_frequency"`

	// EngagementTrend tracks whether users are responding faster or
	// slower to interventions over the window.
	EngagementTrend Trend `json:"engagement_trend"`

	InterventionsLast24h int `json:"interventions_last_24h"`
	InterventionsLast7d  int `json:"interventions_last_7d"`

	// EffectivenessRolling7d is the go-back rate over the last 7 days.
	EffectivenessRolling7d float64 `json:"effectiveness_rolling_7d"`
	EffectivenessTrend     Trend   `json:"effectiveness_trend"`

	HelpfulCount     int     `json:"helpful_count"`
	DisruptiveCount  int     `json:"disruptive_count"`
	HelpfulnessRatio float64 `json:"helpfulness_ratio"`

	AvgSpacing time.Duration `json:"avg_spacing"`
	MinSpacing time.Duration `json:"min_spacing"`

	SampleSize   int       `json:"sample_size"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// FeedbackCount returns the number of explicit ratings in the window.
func (m BurdenMetrics) FeedbackCount() int {
	return m.HelpfulCount + m.DisruptiveCount
}

// Reliable reports whether the window is large enough to act on.
func (m BurdenMetrics) Reliable() bool {
	return m.SampleSize >= MinReliableSampleSize
}
