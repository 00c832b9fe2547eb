// Package history turns raw intervention and usage records into the
// aggregates the scoring components consume. Everything here is a pure
// function over an already-loaded window; reading the records is the
// store's job.
package history

import (
	"sort"
	"time"

	"github.com/intently-app/intently/internal/models"
)

// trendTolerance is the relative change below which a metric counts as stable.
const trendTolerance = 0.25

// MetricsFromResults computes burden aggregates from a window of
// intervention results. The window should cover at least the last 7 days;
// anything older is counted only into spacing.
func MetricsFromResults(results []models.InterventionResult, now time.Time) models.BurdenMetrics {
	m := models.BurdenMetrics{
		SampleSize:   len(results),
		CalculatedAt: now,
	}
	if len(results) == 0 {
		return m
	}

	ordered := make([]models.InterventionResult, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ShownAt.Before(ordered[j].ShownAt)
	})

	var (
		responded    int
		dismissed    int
		timedOut     int
		totalLatency time.Duration
		goBack7d     int
		responded7d  int
	)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	dayAgo := now.Add(-24 * time.Hour)

	for _, r := range ordered {
		if r.ShownAt.After(dayAgo) {
			m.InterventionsLast24h++
		}
		if r.ShownAt.After(weekAgo) {
			m.InterventionsLast7d++
		}
		if r.Snoozed {
			m.SnoozeFrequency++
		}
		switch r.Feedback {
		case models.FeedbackHelpful:
			m.HelpfulCount++
		case models.FeedbackDisruptive:
			m.DisruptiveCount++
		}

		if !r.Responded() {
			continue
		}
		responded++
		totalLatency += r.DecisionLatency
		switch r.Choice {
		case models.ChoiceDismiss:
			dismissed++
		case models.ChoiceTimeout:
			timedOut++
		}
		if r.ShownAt.After(weekAgo) {
			responded7d++
			if r.Choice == models.ChoiceGoBack {
				goBack7d++
			}
		}
	}

	if responded > 0 {
		m.DismissRate = float64(dismissed) / float64(responded)
		m.TimeoutRate = float64(timedOut) / float64(responded)
		m.AvgResponseTime = totalLatency / time.Duration(responded)
	}
	if responded7d > 0 {
		m.EffectivenessRolling7d = float64(goBack7d) / float64(responded7d)
	}
	if fc := m.FeedbackCount(); fc > 0 {
		m.HelpfulnessRatio = float64(m.HelpfulCount) / float64(fc)
	}

	m.AvgSpacing, m.MinSpacing = spacing(ordered)
	m.EngagementTrend = engagementTrend(ordered)
	m.EffectivenessTrend = effectivenessTrend(ordered)

	return m
}

// spacing returns the average and minimum gap between consecutive shows.
// Zero values mean fewer than two records.
func spacing(ordered []models.InterventionResult) (avg, min time.Duration) {
	if len(ordered) < 2 {
		return 0, 0
	}
	var total time.Duration
	for i := 1; i < len(ordered); i++ {
		gap := ordered[i].ShownAt.Sub(ordered[i-1].ShownAt)
		total += gap
		if min == 0 || gap < min {
			min = gap
		}
	}
	return total / time.Duration(len(ordered)-1), min
}

// engagementTrend compares response latency between the older and newer
// halves of the window. Users losing interest respond slower.
func engagementTrend(ordered []models.InterventionResult) models.Trend {
	older, newer := splitLatencies(ordered)
	if older == 0 || newer == 0 {
		return models.TrendStable
	}
	ratio := float64(newer) / float64(older)
	switch {
	case ratio > 1+trendTolerance:
		return models.TrendDeclining
	case ratio < 1-trendTolerance:
		return models.TrendImproving
	default:
		return models.TrendStable
	}
}

func splitLatencies(ordered []models.InterventionResult) (older, newer time.Duration) {
	mid := len(ordered) / 2
	olderSum, olderN := meanLatency(ordered[:mid])
	newerSum, newerN := meanLatency(ordered[mid:])
	if olderN == 0 || newerN == 0 {
		return 0, 0
	}
	return olderSum / time.Duration(olderN), newerSum / time.Duration(newerN)
}

func meanLatency(results []models.InterventionResult) (time.Duration, int) {
	var sum time.Duration
	n := 0
	for _, r := range results {
		if r.Responded() {
			sum += r.DecisionLatency
			n++
		}
	}
	return sum, n
}

// effectivenessTrend compares the go-back rate between the older and
// newer halves of the window.
func effectivenessTrend(ordered []models.InterventionResult) models.Trend {
	mid := len(ordered) / 2
	olderRate, olderOK := goBackRate(ordered[:mid])
	newerRate, newerOK := goBackRate(ordered[mid:])
	if !olderOK || !newerOK {
		return models.TrendStable
	}
	switch {
	case newerRate < olderRate-0.1:
		return models.TrendDeclining
	case newerRate > olderRate+0.1:
		return models.TrendImproving
	default:
		return models.TrendStable
	}
}

func goBackRate(results []models.InterventionResult) (float64, bool) {
	responded, goBack := 0, 0
	for _, r := range results {
		if !r.Responded() {
			continue
		}
		responded++
		if r.Choice == models.ChoiceGoBack {
			goBack++
		}
	}
	if responded == 0 {
		return 0, false
	}
	return float64(goBack) / float64(responded), true
}
