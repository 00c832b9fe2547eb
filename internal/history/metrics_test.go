package history

import (
	"testing"
	"time"

	"github.com/intently-app/intently/internal/models"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// resultAt builds a responded intervention result shown at now-ago.
func resultAt(now time.Time, ago time.Duration, choice models.UserChoice) models.InterventionResult {
	return models.InterventionResult{
		ShownAt:         now.Add(-ago),
		Choice:          choice,
		DecisionLatency: 2 * time.Second,
	}
}

func TestMetricsFromResults_Empty(t *testing.T) {
	m := MetricsFromResults(nil, baseTime)
	if m.SampleSize != 0 {
		t.Errorf("SampleSize = %d, want 0", m.SampleSize)
	}
	if m.Reliable() {
		t.Error("empty metrics should not be reliable")
	}
	if !m.CalculatedAt.Equal(baseTime) {
		t.Errorf("CalculatedAt = %v, want %v", m.CalculatedAt, baseTime)
	}
}

func TestMetricsFromResults_Rates(t *testing.T) {
	now := baseTime
	results := []models.InterventionResult{
		resultAt(now, 1*time.Hour, models.ChoiceGoBack),
		resultAt(now, 2*time.Hour, models.ChoiceGoBack),
		resultAt(now, 3*time.Hour, models.ChoiceDismiss),
		resultAt(now, 4*time.Hour, models.ChoiceTimeout),
	}

	m := MetricsFromResults(results, now)

	if m.SampleSize != 4 {
		t.Errorf("SampleSize = %d, want 4", m.SampleSize)
	}
	if m.DismissRate != 0.25 {
		t.Errorf("DismissRate = %f, want 0.25", m.DismissRate)
	}
	if m.TimeoutRate != 0.25 {
		t.Errorf("TimeoutRate = %f, want 0.25", m.TimeoutRate)
	}
	if m.EffectivenessRolling7d != 0.5 {
		t.Errorf("EffectivenessRolling7d = %f, want 0.5", m.EffectivenessRolling7d)
	}
	if m.InterventionsLast24h != 4 {
		t.Errorf("InterventionsLast24h = %d, want 4", m.InterventionsLast24h)
	}
	if m.AvgSpacing != time.Hour {
		t.Errorf("AvgSpacing = %v, want 1h", m.AvgSpacing)
	}
	if m.MinSpacing != time.Hour {
		t.Errorf("MinSpacing = %v, want 1h", m.MinSpacing)
	}
}

func TestMetricsFromResults_WindowCounts(t *testing.T) {
	now := baseTime
	results := []models.InterventionResult{
		resultAt(now, 2*time.Hour, models.ChoiceGoBack),       // in 24h and 7d
		resultAt(now, 3*24*time.Hour, models.ChoiceGoBack),    // in 7d only
		resultAt(now, 10*24*time.Hour, models.ChoiceDismiss),  // outside both
	}

	m := MetricsFromResults(results, now)

	if m.InterventionsLast24h != 1 {
		t.Errorf("InterventionsLast24h = %d, want 1", m.InterventionsLast24h)
	}
	if m.InterventionsLast7d != 2 {
		t.Errorf("InterventionsLast7d = %d, want 2", m.InterventionsLast7d)
	}
	// The dismiss sits outside the 7d window, so rolling effectiveness
	// only sees the two go-backs.
	if m.EffectivenessRolling7d != 1.0 {
		t.Errorf("EffectivenessRolling7d = %f, want 1.0", m.EffectivenessRolling7d)
	}
}

func TestMetricsFromResults_FeedbackAndSnooze(t *testing.T) {
	now := baseTime
	mk := func(ago time.Duration, fb models.Feedback, snoozed bool) models.InterventionResult {
		r := resultAt(now, ago, models.ChoiceContinue)
		r.Feedback = fb
		r.Snoozed = snoozed
		return r
	}
	results := []models.InterventionResult{
		mk(1*time.Hour, models.FeedbackHelpful, false),
		mk(2*time.Hour, models.FeedbackDisruptive, true),
		mk(3*time.Hour, models.FeedbackDisruptive, true),
		mk(4*time.Hour, models.FeedbackNone, false),
	}

	m := MetricsFromResults(results, now)

	if m.HelpfulCount != 1 || m.DisruptiveCount != 2 {
		t.Errorf("feedback counts = %d/%d, want 1/2", m.HelpfulCount, m.DisruptiveCount)
	}
	if want := 1.0 / 3.0; m.HelpfulnessRatio < want-1e-9 || m.HelpfulnessRatio > want+1e-9 {
		t.Errorf("HelpfulnessRatio = %f, want %f", m.HelpfulnessRatio, want)
	}
	if m.SnoozeFrequency != 2 {
		t.Errorf("SnoozeFrequency = %d, want 2", m.SnoozeFrequency)
	}
}

func TestMetricsFromResults_EffectivenessTrendDeclining(t *testing.T) {
	now := baseTime
	// Older half all go-back, newer half all dismiss.
	results := []models.InterventionResult{
		resultAt(now, 6*time.Hour, models.ChoiceGoBack),
		resultAt(now, 5*time.Hour, models.ChoiceGoBack),
		resultAt(now, 2*time.Hour, models.ChoiceDismiss),
		resultAt(now, 1*time.Hour, models.ChoiceDismiss),
	}

	m := MetricsFromResults(results, now)
	if m.EffectivenessTrend != models.TrendDeclining {
		t.Errorf("EffectivenessTrend = %s, want declining", m.EffectivenessTrend)
	}
}

func TestMetricsFromResults_EngagementTrendDeclining(t *testing.T) {
	now := baseTime
	mk := func(ago time.Duration, latency time.Duration) models.InterventionResult {
		r := resultAt(now, ago, models.ChoiceContinue)
		r.DecisionLatency = latency
		return r
	}
	// Latency doubles in the newer half: user disengaging.
	results := []models.InterventionResult{
		mk(6*time.Hour, 2*time.Second),
		mk(5*time.Hour, 2*time.Second),
		mk(2*time.Hour, 5*time.Second),
		mk(1*time.Hour, 5*time.Second),
	}

	m := MetricsFromResults(results, now)
	if m.EngagementTrend != models.TrendDeclining {
		t.Errorf("EngagementTrend = %s, want declining", m.EngagementTrend)
	}
}

func TestMetricsFromResults_UnrespondedExcludedFromRates(t *testing.T) {
	now := baseTime
	pending := models.InterventionResult{ShownAt: now.Add(-30 * time.Minute)}
	results := []models.InterventionResult{
		resultAt(now, 2*time.Hour, models.ChoiceDismiss),
		pending,
	}

	m := MetricsFromResults(results, now)
	if m.DismissRate != 1.0 {
		t.Errorf("DismissRate = %f, want 1.0 (pending result excluded)", m.DismissRate)
	}
	if m.SampleSize != 2 {
		t.Errorf("SampleSize = %d, want 2", m.SampleSize)
	}
}
