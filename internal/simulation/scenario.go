package simulation

import (
	"math/rand"
	"time"

	"github.com/intently-app/intently/internal/engine"
	"github.com/intently-app/intently/internal/models"
	"github.com/intently-app/intently/internal/store"
)

// UserProfile describes how the synthetic user responds to interventions.
// Choice probabilities are cumulative in order go-back, continue, dismiss;
// the remainder times out.
type UserProfile struct {
	GoBackRate   float64
	ContinueRate float64
	DismissRate  float64

	// HelpfulRate and DisruptiveRate are the chances of explicit feedback
	// accompanying a response.
	HelpfulRate    float64
	DisruptiveRate float64
}

// ReceptiveUser mostly goes back and finds prompts helpful.
func ReceptiveUser() UserProfile {
	return UserProfile{GoBackRate: 0.6, ContinueRate: 0.3, DismissRate: 0.1, HelpfulRate: 0.3}
}

// HostileUser dismisses or ignores nearly everything.
func HostileUser() UserProfile {
	return UserProfile{GoBackRate: 0.0, ContinueRate: 0.1, DismissRate: 0.6, DisruptiveRate: 0.4}
}

// Sample draws one outcome from the profile's distributions.
func (p UserProfile) Sample(rng *rand.Rand) store.ResultOutcome {
	roll := rng.Float64()
	var choice models.UserChoice
	switch {
	case roll < p.GoBackRate:
		choice = models.ChoiceGoBack
	case roll < p.GoBackRate+p.ContinueRate:
		choice = models.ChoiceContinue
	case roll < p.GoBackRate+p.ContinueRate+p.DismissRate:
		choice = models.ChoiceDismiss
	default:
		choice = models.ChoiceTimeout
	}

	feedback := models.FeedbackNone
	fb := rng.Float64()
	switch {
	case fb < p.HelpfulRate:
		feedback = models.FeedbackHelpful
	case fb < p.HelpfulRate+p.DisruptiveRate:
		feedback = models.FeedbackDisruptive
	}

	return store.ResultOutcome{
		Choice:          choice,
		DecisionLatency: time.Duration(1+rng.Intn(10)) * time.Second,
		Feedback:        feedback,
	}
}

// Scenario is one reproducible multi-day experiment.
type Scenario struct {
	Name           string
	Seed           int64
	App            string
	Days           int
	SessionsPerDay int

	// SessionGap is the simulated time between app opens.
	SessionGap time.Duration

	Profile UserProfile

	// Engine overrides the engine configuration. Zero value uses defaults.
	Engine engine.Config
}

// Result collects everything a scenario produced.
type Result struct {
	Evaluations  int
	Shows        int
	Skips        int
	ReasonCounts map[string]int

	// ShowsPerDay indexes show counts by simulated day.
	ShowsPerDay []int

	// ShowTimes are the simulated timestamps of SHOW decisions, in order.
	ShowTimes []time.Time

	Explanations []models.DecisionExplanation
}
