package models

// Persona is a behavioral archetype bucket used to tailor intervention
// frequency and content. The catalog of configurations lives in the
// persona package; this is just the identifier.
type Persona string

const (
	PersonaNewUser            Persona = "new_user"
	PersonaProblematicPattern Persona = "problematic_pattern"
	PersonaHeavyCompulsive    Persona = "heavy_compulsive"
	PersonaHeavyBinge         Persona = "heavy_binge"
	PersonaModerateBalanced   Persona = "moderate_balanced"
	PersonaCasual             Persona = "casual"
)

// Confidence grades how much historical data backs a persona assignment.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"    // fewer than 7 days of data
	ConfidenceMedium Confidence = "medium" // 7-13 days
	ConfidenceHigh   Confidence = "high"   // 14 days or more
)

// Score returns the confidence as a value in [0,1], used by the bandit
// learner's exploration bonus.
func (c Confidence) Score() float64 {
	switch c {
	case ConfidenceHigh:
		return 0.9
	case ConfidenceMedium:
		return 0.6
	default:
		return 0.3
	}
}

// InterventionFrequency is a persona's pacing strategy. Each maps to a
// multiplier over the base cooldown in the engine.
type InterventionFrequency string

const (
	FrequencyOnboarding   InterventionFrequency = "onboarding"   // gentle, trust-building
	FrequencyMinimal      InterventionFrequency = "minimal"      // rare, high-signal only
	FrequencyConservative InterventionFrequency = "conservative" // long spacing
	FrequencyBalanced     InterventionFrequency = "balanced"
	FrequencyModerate     InterventionFrequency = "moderate"
	FrequencyAdaptive     InterventionFrequency = "adaptive" // driven by burden state
)

// UsageTrend describes the week-over-week direction of a user's usage.
type UsageTrend string

const (
	TrendEscalating     UsageTrend = "escalating"
	TrendIncreasing     UsageTrend = "increasing"
	TrendFlat           UsageTrend = "stable"
	TrendDecreasing     UsageTrend = "decreasing"
	TrendUsageDeclining UsageTrend = "declining"
)
