// Package opportunity scores how receptive the user is to an intervention
// right now. The scorer is pure: identical inputs always produce the same
// score, and every point is attributed to a named factor so the decision
// can be audited later.
package opportunity

import (
	"time"

	"github.com/intently-app/intently/internal/models"
)

// Factor names used in score breakdowns.
const (
	FactorTimeOfDay       = "time_of_day"
	FactorQuickReopen     = "quick_reopen"
	FactorExtendedSession = "extended_session"
	FactorSessionCount    = "session_count"
	FactorRecency         = "intervention_recency"
	FactorPersona         = "persona_receptivity"
	FactorEffectiveness   = "recent_effectiveness"
)

// ScorerConfig holds the point budget per factor. The exact weighting is
// configurable; the level thresholds below are the behavioral contract.
type ScorerConfig struct {
	TimeOfDayMax          int
	QuickReopenPoints     int
	ExtendedSessionPoints int
	SessionCountMax       int
	RecencyMax            int
	PersonaMax            int
	EffectivenessMax      int
}

// DefaultScorerConfig returns the default point budget.
// Factors total 125 before the clamp to 100, so no single factor can
// carry a decision alone.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		TimeOfDayMax:          20,
		QuickReopenPoints:     25,
		ExtendedSessionPoints: 20,
		SessionCountMax:       15,
		RecencyMax:            20,
		PersonaMax:            15,
		EffectivenessMax:      10,
	}
}

// Signals are the contextual inputs to one scoring pass. History reads
// happen in the caller; the scorer sees already-resolved values.
type Signals struct {
	Context models.SessionContext
	Persona models.Persona

	// SinceLastIntervention is zero when no intervention was shown yet.
	SinceLastIntervention time.Duration
	HasPrior              bool

	// Effectiveness7d is the rolling go-back rate; SampleSize guards it.
	Effectiveness7d float64
	SampleSize      int
}

// Decision is the scorer's output: score, band, coarse recommendation,
// and the per-factor breakdown retained for the explanation record.
type Decision struct {
	Score     int
	Level     models.OpportunityLevel
	Decision  models.InterventionDecision
	Breakdown map[string]int
}

// Scorer computes opportunity scores.
type Scorer struct {
	config ScorerConfig
}

// NewScorer creates a scorer with the given config. Zero-valued configs
// get the defaults.
func NewScorer(config ScorerConfig) *Scorer {
	if config == (ScorerConfig{}) {
		config = DefaultScorerConfig()
	}
	return &Scorer{config: config}
}

// Score evaluates the signals. burdenStrained is the burden model's
// ShouldReduceInterventions verdict and only affects the coarse decision,
// never the numeric score.
func (s *Scorer) Score(sig Signals, burdenStrained bool) Decision {
	breakdown := map[string]int{
		FactorTimeOfDay:       s.timeOfDayPoints(sig.Context),
		FactorQuickReopen:     s.quickReopenPoints(sig.Context),
		FactorExtendedSession: s.extendedSessionPoints(sig.Context),
		FactorSessionCount:    s.sessionCountPoints(sig.Context),
		FactorRecency:         s.recencyPoints(sig),
		FactorPersona:         s.personaPoints(sig.Persona),
		FactorEffectiveness:   s.effectivenessPoints(sig),
	}

	score := 0
	for _, pts := range breakdown {
		score += pts
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	level := LevelFor(score)

	return Decision{
		Score:     score,
		Level:     level,
		Decision:  coarseDecision(level, burdenStrained),
		Breakdown: breakdown,
	}
}

// LevelFor maps a score to its band. Thresholds are a behavioral contract.
func LevelFor(score int) models.OpportunityLevel {
	switch {
	case score >= 70:
		return models.OpportunityExcellent
	case score >= 50:
		return models.OpportunityGood
	case score >= 30:
		return models.OpportunityModerate
	default:
		return models.OpportunityPoor
	}
}

// coarseDecision maps a level to the scorer's recommendation. Burden
// strain downgrades an immediate intervention to a considered one.
func coarseDecision(level models.OpportunityLevel, burdenStrained bool) models.InterventionDecision {
	switch level {
	case models.OpportunityExcellent, models.OpportunityGood:
		if burdenStrained {
			return models.DecideInterveneConsidered
		}
		return models.DecideInterveneNow
	case models.OpportunityModerate:
		return models.DecideWait
	default:
		return models.DecideSkip
	}
}

// timeOfDayPoints favors the hours where interventions land best:
// late night strongest, evening next, working day modest.
func (s *Scorer) timeOfDayPoints(ctx models.SessionContext) int {
	max := s.config.TimeOfDayMax
	switch {
	case ctx.IsLateNight:
		return max
	case ctx.HourOfDay >= 18:
		return max * 3 / 4
	case ctx.HourOfDay >= 9:
		return max / 2
	default:
		return max / 4
	}
}

// quickReopenPoints fires on the compulsive close-then-reopen pattern,
// the single strongest "good moment" signal we have.
func (s *Scorer) quickReopenPoints(ctx models.SessionContext) int {
	if ctx.QuickReopen {
		return s.config.QuickReopenPoints
	}
	return 0
}

func (s *Scorer) extendedSessionPoints(ctx models.SessionContext) int {
	if ctx.IsExtendedSession() {
		return s.config.ExtendedSessionPoints
	}
	return 0
}

// sessionCountPoints scales with how many times the app was opened today.
func (s *Scorer) sessionCountPoints(ctx models.SessionContext) int {
	max := s.config.SessionCountMax
	switch {
	case ctx.SessionCountToday >= 10:
		return max
	case ctx.SessionCountToday >= 5:
		return max * 2 / 3
	case ctx.SessionCountToday >= 3:
		return max / 3
	default:
		return 0
	}
}

// recencyPoints rewards long gaps since the last intervention. A user who
// was just interrupted scores zero here.
func (s *Scorer) recencyPoints(sig Signals) int {
	max := s.config.RecencyMax
	if !sig.HasPrior {
		return max
	}
	switch {
	case sig.SinceLastIntervention >= 2*time.Hour:
		return max
	case sig.SinceLastIntervention >= time.Hour:
		return max / 2
	case sig.SinceLastIntervention >= 30*time.Minute:
		return max / 4
	default:
		return 0
	}
}

// personaPoints reflects how responsive each archetype is to prompting.
func (s *Scorer) personaPoints(p models.Persona) int {
	max := s.config.PersonaMax
	switch p {
	case models.PersonaProblematicPattern, models.PersonaHeavyCompulsive:
		return max
	case models.PersonaHeavyBinge, models.PersonaModerateBalanced:
		return max * 2 / 3
	default:
		return max / 3
	}
}

// effectivenessPoints folds in the recent go-back rate, but only once the
// sample is large enough to mean anything.
func (s *Scorer) effectivenessPoints(sig Signals) int {
	if sig.SampleSize < models.MinReliableSampleSize {
		return s.config.EffectivenessMax / 2
	}
	switch {
	case sig.Effectiveness7d >= 0.5:
		return s.config.EffectivenessMax
	case sig.Effectiveness7d >= 0.3:
		return s.config.EffectivenessMax / 2
	default:
		return 0
	}
}
