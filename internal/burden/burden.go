// Package burden detects intervention fatigue. It is a pure function over
// rolling outcome aggregates: a score from independently-verifiable signal
// thresholds, a level, a reduce-interventions verdict, and a cooldown
// multiplier the engine applies to its base spacing.
package burden

import (
	"time"

	"github.com/intently-app/intently/internal/models"
)

// Signal thresholds and their point weights. Downstream behavior depends
// on these exact values; change them only with the level thresholds in view.
const (
	dismissRateThreshold = 0.40
	timeoutRateThreshold = 0.30
	daily24hThreshold    = 15
	avgSpacingFloor      = 10 * time.Minute
	minSpacingFloor      = 3 * time.Minute
	effectivenessFloor   = 0.35
	helpfulnessFloor     = 0.30
	minFeedbackSamples   = 5
	snoozeThreshold      = 5
)

// Score sums the active fatigue signals. Each signal contributes a fixed
// weight; the breakdown is reproducible from the metrics alone.
func Score(m models.BurdenMetrics) int {
	score := 0

	if m.DismissRate > dismissRateThreshold {
		score += 3
	}
	if m.TimeoutRate > timeoutRateThreshold {
		score += 3
	}
	if m.EngagementTrend == models.TrendDeclining {
		score += 4
	}
	if m.EffectivenessTrend == models.TrendDeclining {
		score += 4
	}
	if m.InterventionsLast24h > daily24hThreshold {
		score += 2
	}
	if m.AvgSpacing > 0 && m.AvgSpacing < avgSpacingFloor {
		score += 2
	}
	if m.MinSpacing > 0 && m.MinSpacing < minSpacingFloor {
		score += 3
	}
	if m.EffectivenessRolling7d < effectivenessFloor {
		score += 3
	}
	if m.HelpfulnessRatio < helpfulnessFloor && m.FeedbackCount() >= minFeedbackSamples {
		score += 5
	}
	if m.SnoozeFrequency > snoozeThreshold {
		score += 2
	}

	return score
}

// Level maps a burden score to its band.
func Level(m models.BurdenMetrics) models.BurdenLevel {
	return levelFor(Score(m))
}

func levelFor(score int) models.BurdenLevel {
	switch {
	case score >= 15:
		return models.BurdenCritical
	case score >= 10:
		return models.BurdenHigh
	case score >= 5:
		return models.BurdenModerate
	default:
		return models.BurdenLow
	}
}

// ShouldReduceInterventions is the hard-brake verdict: true when any of
// the standalone overload conditions hold.
func ShouldReduceInterventions(m models.BurdenMetrics) bool {
	if m.DismissRate > 0.40 || m.TimeoutRate > 0.30 {
		return true
	}
	if m.EngagementTrend == models.TrendDeclining && m.EffectivenessTrend == models.TrendDeclining {
		return true
	}
	if m.InterventionsLast24h > 20 {
		return true
	}
	if m.HelpfulnessRatio < 0.25 && m.FeedbackCount() >= minFeedbackSamples {
		return true
	}
	if m.AvgSpacing > 0 && m.AvgSpacing < 8*time.Minute {
		return true
	}
	return false
}

// CooldownMultiplier returns the factor applied to the base
// inter-intervention cooldown for the current burden level.
func CooldownMultiplier(m models.BurdenMetrics) float64 {
	switch Level(m) {
	case models.BurdenCritical:
		return 4.0
	case models.BurdenHigh:
		return 2.5
	case models.BurdenModerate:
		return 1.5
	default:
		return 1.0
	}
}
