// Package reward converts intervention outcomes into scalar rewards in
// [0,1] for the adaptive learner. Choice sets the base; each applicable
// follow-on signal adjusts it independently; the result is clamped.
package reward

import (
	"time"

	"github.com/intently-app/intently/internal/models"
)

// Outcome is everything known about one intervention after the fact.
// Pointer fields are optional signals that may not be observed.
type Outcome struct {
	Choice   models.UserChoice
	Feedback models.Feedback

	// SessionContinued is false when the user left the app after the
	// intervention (the outcome we want).
	SessionContinued *bool

	// SessionMinutesAfter is the session length measured after the
	// intervention was shown.
	SessionMinutesAfter *float64

	// QuickReopen is set when the app was reopened shortly after this
	// intervention ended the session.
	QuickReopen *bool

	// ReopenDelay is how long the user stayed away before reopening.
	ReopenDelay *time.Duration
}

// Calculate scores an outcome. Base reward by choice, then every
// applicable adjustment, then clamp to [0,1].
func Calculate(o Outcome) float64 {
	r := baseReward(o.Choice)

	switch o.Feedback {
	case models.FeedbackHelpful:
		r += 0.2
	case models.FeedbackDisruptive:
		r -= 0.3
	}

	if o.SessionContinued != nil && !*o.SessionContinued {
		r += 0.1
	}

	if o.SessionMinutesAfter != nil {
		switch {
		case *o.SessionMinutesAfter > 15:
			r -= 0.1
		case *o.SessionMinutesAfter <= 5:
			r += 0.1
		}
	}

	if o.QuickReopen != nil && *o.QuickReopen {
		r -= 0.2
	}

	if o.ReopenDelay != nil {
		switch {
		case *o.ReopenDelay < 2*time.Minute:
			r -= 0.2
		case *o.ReopenDelay > 5*time.Minute:
			r += 0.1
		}
	}

	return clamp(r)
}

func baseReward(choice models.UserChoice) float64 {
	switch choice {
	case models.ChoiceGoBack:
		return 1.0
	case models.ChoiceContinue:
		return 0.3
	case models.ChoiceDismiss:
		return 0.0
	case models.ChoiceTimeout:
		return 0.1
	default:
		return 0.5
	}
}

// Binary is the strict success reward: 1.0 iff the user went back.
func Binary(choice models.UserChoice) float64 {
	if choice == models.ChoiceGoBack {
		return 1.0
	}
	return 0.0
}

// IsSuccessfulOutcome reports whether the intervention worked: the user
// left, or stayed but explicitly rated the prompt helpful.
func IsSuccessfulOutcome(choice models.UserChoice, feedback models.Feedback) bool {
	if choice == models.ChoiceGoBack {
		return true
	}
	return choice == models.ChoiceContinue && feedback == models.FeedbackHelpful
}

// Normalized adds an exploration bonus of (1-confidence)*0.1 to a base
// reward, favoring arms the learner is least certain about.
func Normalized(base, confidence float64) float64 {
	return clamp(base + (1.0-confidence)*0.1)
}

func clamp(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
