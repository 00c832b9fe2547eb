package models

import "time"

// InterventionResult is one record per shown intervention. It is created
// when the overlay is shown, updated when the outcome and any feedback
// arrive, and only removed by retention cleanup in the storage layer.
type InterventionResult struct {
	ID          string           `json:"id"`
	Type        InterventionType `json:"type"`
	ContentType ContentType      `json:"content_type"`

	// Context captured at show time.
	AppPackage        string    `json:"app_package"`
	ShownAt           time.Time `json:"shown_at"`
	HourOfDay         int       `json:"hour_of_day"`
	Weekday           int       `json:"weekday"` // time.Weekday, stored as int
	IsWeekend         bool      `json:"is_weekend"`
	IsLateNight       bool      `json:"is_late_night"`
	SessionCountToday int       `json:"session_count_today"`
	QuickReopen       bool      `json:"quick_reopen"`
	SessionMinutes    float64   `json:"session_minutes"`

	// Decision metadata.
	Persona          Persona    `json:"persona"`
	Confidence       Confidence `json:"confidence"`
	OpportunityScore int        `json:"opportunity_score"`

	// Outcome, zero-valued until the user responds.
	Choice          UserChoice    `json:"choice,omitempty"`
	DecisionLatency time.Duration `json:"decision_latency,omitempty"`
	Feedback        Feedback      `json:"feedback,omitempty"`
	Snoozed         bool          `json:"snoozed,omitempty"`
	SnoozeDuration  time.Duration `json:"snooze_duration,omitempty"`

	// Post-hoc outcome fields, nil until the post-intervention window
	// is observed.
	SessionContinued    *bool          `json:"session_continued,omitempty"`
	FinalSessionMinutes *float64       `json:"final_session_minutes,omitempty"`
	ReopenedQuickly     *bool          `json:"reopened_quickly,omitempty"`
	ReopenDelay         *time.Duration `json:"reopen_delay,omitempty"`
	Resolved            bool           `json:"resolved"`
}

// Responded reports whether the user's choice has been recorded yet.
func (r InterventionResult) Responded() bool {
	return r.Choice != ""
}
