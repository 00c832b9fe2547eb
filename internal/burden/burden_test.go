package burden

import (
	"testing"
	"time"

	"github.com/intently-app/intently/internal/models"
)

// saturatedMetrics trips every scoring signal at once.
func saturatedMetrics() models.BurdenMetrics {
	return models.BurdenMetrics{
		DismissRate:            0.5,
		TimeoutRate:            0.4,
		EngagementTrend:        models.TrendDeclining,
		EffectivenessTrend:     models.TrendDeclining,
		InterventionsLast24h:   25,
		AvgSpacing:             5 * time.Minute,
		MinSpacing:             2 * time.Minute,
		EffectivenessRolling7d: 0.2,
		HelpfulCount:           1,
		DisruptiveCount:        5,
		HelpfulnessRatio:       0.1,
		SnoozeFrequency:        8,
		SampleSize:             30,
	}
}

func TestScore_AllSignalsSum(t *testing.T) {
	// 3+3+4+4+2+2+3+3+5+2 = 31
	if got := Score(saturatedMetrics()); got != 31 {
		t.Errorf("Score(saturated) = %d, want 31", got)
	}
	if got := Level(saturatedMetrics()); got != models.BurdenCritical {
		t.Errorf("Level(saturated) = %s, want critical", got)
	}
}

func TestScore_IndividualSignals(t *testing.T) {
	// Each case trips exactly one signal. EffectivenessRolling7d must sit
	// above its floor so the baseline contributes nothing.
	base := models.BurdenMetrics{EffectivenessRolling7d: 0.5}

	tests := []struct {
		name   string
		mutate func(*models.BurdenMetrics)
		want   int
	}{
		{"dismiss rate", func(m *models.BurdenMetrics) { m.DismissRate = 0.41 }, 3},
		{"timeout rate", func(m *models.BurdenMetrics) { m.TimeoutRate = 0.31 }, 3},
		{"engagement declining", func(m *models.BurdenMetrics) { m.EngagementTrend = models.TrendDeclining }, 4},
		{"effectiveness declining", func(m *models.BurdenMetrics) { m.EffectivenessTrend = models.TrendDeclining }, 4},
		{"24h volume", func(m *models.BurdenMetrics) { m.InterventionsLast24h = 16 }, 2},
		{"avg spacing", func(m *models.BurdenMetrics) { m.AvgSpacing = 9 * time.Minute }, 2},
		{"min spacing", func(m *models.BurdenMetrics) { m.MinSpacing = 2 * time.Minute }, 3},
		{"low effectiveness", func(m *models.BurdenMetrics) { m.EffectivenessRolling7d = 0.34 }, 3},
		{"low helpfulness with sample", func(m *models.BurdenMetrics) {
			m.HelpfulCount = 1
			m.DisruptiveCount = 4
			m.HelpfulnessRatio = 0.2
		}, 5},
		{"snooze frequency", func(m *models.BurdenMetrics) { m.SnoozeFrequency = 6 }, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			tt.mutate(&m)
			if got := Score(m); got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScore_HelpfulnessNeedsFeedbackSample(t *testing.T) {
	m := models.BurdenMetrics{
		EffectivenessRolling7d: 0.5,
		HelpfulCount:           1,
		DisruptiveCount:        3, // 4 total, below the 5-sample floor
		HelpfulnessRatio:       0.25,
	}
	if got := Score(m); got != 0 {
		t.Errorf("Score = %d, want 0 (helpfulness signal needs 5+ feedback samples)", got)
	}
}

func TestScore_ThresholdsAreExclusive(t *testing.T) {
	// Values sitting exactly at the thresholds must not trip the signals.
	m := models.BurdenMetrics{
		DismissRate:            0.40,
		TimeoutRate:            0.30,
		InterventionsLast24h:   15,
		AvgSpacing:             10 * time.Minute,
		MinSpacing:             3 * time.Minute,
		EffectivenessRolling7d: 0.35,
		SnoozeFrequency:        5,
	}
	if got := Score(m); got != 0 {
		t.Errorf("Score = %d, want 0 at exact thresholds", got)
	}
}

func TestLevel_Thresholds(t *testing.T) {
	tests := []struct {
		score int
		want  models.BurdenLevel
	}{
		{0, models.BurdenLow},
		{4, models.BurdenLow},
		{5, models.BurdenModerate},
		{9, models.BurdenModerate},
		{10, models.BurdenHigh},
		{14, models.BurdenHigh},
		{15, models.BurdenCritical},
		{31, models.BurdenCritical},
	}
	for _, tt := range tests {
		if got := levelFor(tt.score); got != tt.want {
			t.Errorf("levelFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestShouldReduceInterventions(t *testing.T) {
	tests := []struct {
		name string
		m    models.BurdenMetrics
		want bool
	}{
		{"clean metrics", models.BurdenMetrics{EffectivenessRolling7d: 0.5, HelpfulnessRatio: 0.8}, false},
		{"dismiss rate alone", models.BurdenMetrics{DismissRate: 0.41, HelpfulnessRatio: 0.8}, true},
		{"timeout rate alone", models.BurdenMetrics{TimeoutRate: 0.31, HelpfulnessRatio: 0.8}, true},
		{
			"both trends declining",
			models.BurdenMetrics{
				EngagementTrend:    models.TrendDeclining,
				EffectivenessTrend: models.TrendDeclining,
				HelpfulnessRatio:   0.8,
			},
			true,
		},
		{
			"one trend declining is not enough",
			models.BurdenMetrics{EngagementTrend: models.TrendDeclining, HelpfulnessRatio: 0.8},
			false,
		},
		{"24h overload", models.BurdenMetrics{InterventionsLast24h: 21, HelpfulnessRatio: 0.8}, true},
		{"24h at limit", models.BurdenMetrics{InterventionsLast24h: 20, HelpfulnessRatio: 0.8}, false},
		{
			"unhelpful with sample",
			models.BurdenMetrics{HelpfulnessRatio: 0.2, HelpfulCount: 1, DisruptiveCount: 4},
			true,
		},
		{
			"unhelpful without sample",
			models.BurdenMetrics{HelpfulnessRatio: 0.2, HelpfulCount: 1, DisruptiveCount: 2},
			false,
		},
		{"tight spacing", models.BurdenMetrics{AvgSpacing: 7 * time.Minute, HelpfulnessRatio: 0.8}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldReduceInterventions(tt.m); got != tt.want {
				t.Errorf("ShouldReduceInterventions = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestCooldownMultiplier(t *testing.T) {
	tests := []struct {
		name string
		m    models.BurdenMetrics
		want float64
	}{
		{"low", models.BurdenMetrics{EffectivenessRolling7d: 0.5}, 1.0},
		{
			"moderate",
			models.BurdenMetrics{DismissRate: 0.5, TimeoutRate: 0.4, EffectivenessRolling7d: 0.5},
			1.5,
		},
		{
			"high",
			models.BurdenMetrics{
				DismissRate:            0.5,
				TimeoutRate:            0.4,
				EngagementTrend:        models.TrendDeclining,
				EffectivenessRolling7d: 0.5,
			},
			2.5,
		},
		{"critical", saturatedMetrics(), 4.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CooldownMultiplier(tt.m); got != tt.want {
				t.Errorf("CooldownMultiplier = %.1f, want %.1f", got, tt.want)
			}
		})
	}
}
