package models

import "time"

// BehavioralSnapshot aggregates a user's recent usage history into the
// inputs the persona classifier needs. It is computed fresh per decision
// from session history and never persisted.
type BehavioralSnapshot struct {
	DaysSinceInstall  int        `json:"days_since_install"`
	AvgDailySessions  float64    `json:"avg_daily_sessions"`
	AvgSessionMinutes float64    `json:"avg_session_minutes"`
	QuickReopenRate   float64    `json:"quick_reopen_rate"`
	Trend             UsageTrend `json:"trend"`
}

// SessionContext is the moment-of-decision snapshot the engine receives
// when a monitored app opens or an in-app timer fires.
type SessionContext struct {
	AppPackage string    `json:"app_package"`
	Timestamp  time.Time `json:"timestamp"`

	HourOfDay   int  `json:"hour_of_day"`
	IsWeekend   bool `json:"is_weekend"`
	IsLateNight bool `json:"is_late_night"` // 23:00-05:00

	// SessionCountToday counts opens of this app since local midnight.
	SessionCountToday int `json:"session_count_today"`

	// SessionMinutes is how long the current session has been running.
	// Zero for app-open events.
	SessionMinutes float64 `json:"session_minutes"`

	// QuickReopen is set when the app was reopened shortly after closing.
	QuickReopen bool          `json:"quick_reopen"`
	ReopenDelay time.Duration `json:"reopen_delay,omitempty"`

	// CurrentStreak is the user's streak of goal-met days.
	CurrentStreak int `json:"current_streak"`
}

// IsExtendedSession reports whether the current session has run long
// enough to count as a binge (20+ minutes).
func (c SessionContext) IsExtendedSession() bool {
	return c.SessionMinutes >= 20
}

// UsageSession is one recorded session of a monitored app, owned by the
// usage-monitoring layer and consumed read-only here.
type UsageSession struct {
	AppPackage  string        `json:"app_package"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	QuickReopen bool          `json:"quick_reopen"`
}
