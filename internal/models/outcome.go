package models

// UserChoice is what the user did with a shown intervention.
type UserChoice string

const (
	ChoiceGoBack   UserChoice = "go_back"  // Left the monitored app (success)
	ChoiceContinue UserChoice = "continue" // Acknowledged and kept using
	ChoiceDismiss  UserChoice = "dismiss"  // Swiped the overlay away
	ChoiceTimeout  UserChoice = "timeout"  // Overlay expired without interaction
)

// Feedback is the optional explicit rating a user can attach to an intervention.
type Feedback string

const (
	FeedbackNone       Feedback = "none"
	FeedbackHelpful    Feedback = "helpful"
	FeedbackDisruptive Feedback = "disruptive"
)

// Trend describes the direction of a rolling metric.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)
