package models

import "time"

// OpportunityLevel is the coarse band an opportunity score falls into.
type OpportunityLevel string

const (
	OpportunityExcellent OpportunityLevel = "excellent" // score >= 70
	OpportunityGood      OpportunityLevel = "good"      // score >= 50
	OpportunityModerate  OpportunityLevel = "moderate"  // score >= 30
	OpportunityPoor      OpportunityLevel = "poor"
)

// InterventionDecision is the opportunity scorer's coarse recommendation.
type InterventionDecision string

const (
	DecideInterveneNow        InterventionDecision = "intervene_now"
	DecideInterveneConsidered InterventionDecision = "intervene_with_consideration"
	DecideWait                InterventionDecision = "wait_for_better_opportunity"
	DecideSkip                InterventionDecision = "skip_intervention"
)

// Decision is the engine's final answer for one evaluation.
type Decision string

const (
	DecisionShow Decision = "SHOW"
	DecisionSkip Decision = "SKIP"
)

// BurdenLevel grades cumulative intervention fatigue.
type BurdenLevel string

const (
	BurdenLow      BurdenLevel = "low"
	BurdenModerate BurdenLevel = "moderate"
	BurdenHigh     BurdenLevel = "high"
	BurdenCritical BurdenLevel = "critical"
)

// DecisionExplanation is the write-once audit record emitted for every
// evaluation, SHOW or SKIP. It captures every input that fed the decision
// so any outcome can be reconstructed after the fact.
type DecisionExplanation struct {
	ID          string    `json:"id"`
	EvaluatedAt time.Time `json:"evaluated_at"`
	AppPackage  string    `json:"app_package"`

	Decision Decision `json:"decision"`
	Reason   string   `json:"reason"` // gate that decided, e.g. "rate_limit", "all_gates_passed"

	// Gate results in evaluation order. A gate that never ran is absent.
	RateLimitPassed  *bool `json:"rate_limit_passed,omitempty"`
	FrequencyPassed  *bool `json:"frequency_passed,omitempty"`
	BurdenGatePassed *bool `json:"burden_gate_passed,omitempty"`

	// Opportunity scoring inputs.
	OpportunityScore    int                  `json:"opportunity_score"`
	OpportunityLevel    OpportunityLevel     `json:"opportunity_level,omitempty"`
	OpportunityDecision InterventionDecision `json:"opportunity_decision,omitempty"`
	FactorBreakdown     map[string]int       `json:"factor_breakdown,omitempty"`

	// Persona inputs.
	Persona    Persona    `json:"persona"`
	Confidence Confidence `json:"confidence"`

	// Burden inputs.
	BurdenScore        int         `json:"burden_score"`
	BurdenLevel        BurdenLevel `json:"burden_level,omitempty"`
	CooldownMultiplier float64     `json:"cooldown_multiplier,omitempty"`

	// Content selection, present only on SHOW.
	ContentWeights  map[ContentType]float64 `json:"content_weights,omitempty"`
	ChosenContent   ContentType             `json:"chosen_content,omitempty"`
	SelectionReason string                  `json:"selection_reason,omitempty"`

	// Human-readable summaries for the debug surface.
	Short string `json:"short_explanation"`
	Long  string `json:"long_explanation,omitempty"`
}
