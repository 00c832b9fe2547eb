// Package content picks which intervention content to show via weighted
// random sampling over a persona's base distribution, with contextual
// overrides for moments that call for specific content.
package content

import (
	"math/rand"

	"github.com/intently-app/intently/internal/models"
)

// Selection reasons recorded in the explanation record.
const (
	ReasonBaseWeights     = "base_weights"
	ReasonLateNight       = "late_night"
	ReasonQuickReopen     = "quick_reopen"
	ReasonExtendedSession = "extended_session"
	ReasonTimer           = "timer_intervention"
	ReasonHighStreak      = "high_streak"
)

// highStreakDays is the streak length at which streak-protection content
// takes over the distribution.
const highStreakDays = 7

// Request carries everything one selection needs.
type Request struct {
	Type              models.InterventionType
	IsLateNight       bool
	IsQuickReopen     bool
	IsExtendedSession bool
	CurrentStreak     int

	// BaseWeights is the persona's content distribution, possibly already
	// blended with learned posteriors by the caller.
	BaseWeights map[models.ContentType]float64
}

// Selection is the drawn content plus the final normalized weights and
// the reason, both retained for the explanation record.
type Selection struct {
	Content models.ContentType
	Weights map[models.ContentType]float64
	Reason  string
}

// Selector draws content types. All randomness flows through the injected
// source so selections are reproducible in tests and simulations.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a selector using the given random source.
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Select applies at most one contextual override (first applicable wins,
// fully replacing the base weights), normalizes, and draws.
func (s *Selector) Select(req Request) Selection {
	weights, reason := resolveWeights(req)
	weights = Normalize(weights)

	return Selection{
		Content: s.draw(weights),
		Weights: weights,
		Reason:  reason,
	}
}

// resolveWeights picks the active weight map. Override priority:
// late night > quick reopen > extended session > timer type > high streak.
func resolveWeights(req Request) (map[models.ContentType]float64, string) {
	switch {
	case req.IsLateNight:
		return lateNightWeights(), ReasonLateNight
	case req.IsQuickReopen:
		return quickReopenWeights(), ReasonQuickReopen
	case req.IsExtendedSession:
		return extendedSessionWeights(), ReasonExtendedSession
	case req.Type == models.InterventionTimer:
		return timerWeights(), ReasonTimer
	case req.CurrentStreak >= highStreakDays:
		return highStreakWeights(), ReasonHighStreak
	default:
		return req.BaseWeights, ReasonBaseWeights
	}
}

// Normalize scales a weight map to sum to 1.0. Negative entries are
// clamped to zero first; an empty or all-zero map becomes uniform so a
// draw is always possible.
func Normalize(weights map[models.ContentType]float64) map[models.ContentType]float64 {
	out := make(map[models.ContentType]float64, len(weights))
	total := 0.0
	for ct, w := range weights {
		if w < 0 {
			w = 0
		}
		out[ct] = w
		total += w
	}

	if total <= 0 {
		all := models.AllContentTypes()
		uniform := make(map[models.ContentType]float64, len(all))
		for _, ct := range all {
			uniform[ct] = 1.0 / float64(len(all))
		}
		return uniform
	}

	for ct := range out {
		out[ct] /= total
	}
	return out
}

// draw samples one content type from a normalized weight map. Iteration
// goes through AllContentTypes so the draw order is stable.
func (s *Selector) draw(weights map[models.ContentType]float64) models.ContentType {
	r := s.rng.Float64()
	acc := 0.0

	types := models.AllContentTypes()
	for _, ct := range types {
		acc += weights[ct]
		if r < acc {
			return ct
		}
	}
	// Floating point slack: return the last type with any weight.
	for i := len(types) - 1; i >= 0; i-- {
		if weights[types[i]] > 0 {
			return types[i]
		}
	}
	return types[len(types)-1]
}

func lateNightWeights() map[models.ContentType]float64 {
	return map[models.ContentType]float64{
		models.ContentBreathing:    0.40,
		models.ContentReflection:   0.30,
		models.ContentAlternative:  0.20,
		models.ContentUsageStats:   0.05,
		models.ContentGoalReminder: 0.05,
	}
}

func quickReopenWeights() map[models.ContentType]float64 {
	return map[models.ContentType]float64{
		models.ContentReflection:   0.45,
		models.ContentBreathing:    0.25,
		models.ContentUsageStats:   0.15,
		models.ContentGoalReminder: 0.10,
		models.ContentAlternative:  0.05,
	}
}

func extendedSessionWeights() map[models.ContentType]float64 {
	return map[models.ContentType]float64{
		models.ContentUsageStats:   0.40,
		models.ContentAlternative:  0.25,
		models.ContentReflection:   0.15,
		models.ContentGoalReminder: 0.10,
		models.ContentBreathing:    0.05,
		models.ContentStreak:       0.05,
	}
}

func timerWeights() map[models.ContentType]float64 {
	return map[models.ContentType]float64{
		models.ContentUsageStats:   0.35,
		models.ContentReflection:   0.25,
		models.ContentAlternative:  0.20,
		models.ContentGoalReminder: 0.10,
		models.ContentBreathing:    0.10,
	}
}

func highStreakWeights() map[models.ContentType]float64 {
	return map[models.ContentType]float64{
		models.ContentStreak:       0.45,
		models.ContentGoalReminder: 0.25,
		models.ContentReflection:   0.15,
		models.ContentUsageStats:   0.10,
		models.ContentBreathing:    0.05,
	}
}
