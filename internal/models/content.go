package models

// ContentType identifies the category of intervention content shown to the user.
type ContentType string

const (
	ContentReflection   ContentType = "reflection_prompt"   // "Why did you open this app?"
	ContentBreathing    ContentType = "breathing_exercise"  // Short guided pause
	ContentUsageStats   ContentType = "usage_stats"         // Mirror of today's usage
	ContentGoalReminder ContentType = "goal_reminder"       // User's own stated goal
	ContentStreak       ContentType = "streak_motivation"   // Current streak at stake
	ContentAlternative  ContentType = "alternative_activity" // Suggest something else
)

// AllContentTypes lists every content category in stable order.
// Weight maps are defined over exactly this set.
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentReflection,
		ContentBreathing,
		ContentUsageStats,
		ContentGoalReminder,
		ContentStreak,
		ContentAlternative,
	}
}

// InterventionType distinguishes the two delivery mechanisms.
type InterventionType string

const (
	// InterventionReminder fires on app open.
	InterventionReminder InterventionType = "reminder"

	// InterventionTimer fires after elapsed in-app time.
	InterventionTimer InterventionType = "timer"
)
