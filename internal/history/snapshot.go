package history

import (
	"time"

	"github.com/intently-app/intently/internal/models"
)

// snapshotWindowDays bounds how far back daily averages look.
const snapshotWindowDays = 14

// SnapshotFromSessions aggregates usage sessions into the classifier's
// behavioral snapshot. Returns ok=false when there is no session data,
// in which case the caller should fall back to new-user defaults.
func SnapshotFromSessions(sessions []models.UsageSession, installedAt, now time.Time) (models.BehavioralSnapshot, bool) {
	snap := models.BehavioralSnapshot{
		DaysSinceInstall: daysBetween(installedAt, now),
		Trend:            models.TrendFlat,
	}
	if len(sessions) == 0 {
		return snap, false
	}

	windowStart := now.Add(-snapshotWindowDays * 24 * time.Hour)
	var (
		inWindow     int
		totalMinutes float64
		quickReopens int
		daySet       = map[string]bool{}
		last7        int
		prior7       int
	)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	for _, s := range sessions {
		if s.StartedAt.Before(windowStart) {
			continue
		}
		inWindow++
		totalMinutes += s.Duration.Minutes()
		if s.QuickReopen {
			quickReopens++
		}
		daySet[s.StartedAt.Format("2006-01-02")] = true
		if s.StartedAt.After(weekAgo) {
			last7++
		} else {
			prior7++
		}
	}

	if inWindow == 0 {
		return snap, false
	}

	days := len(daySet)
	if days == 0 {
		days = 1
	}
	snap.AvgDailySessions = float64(inWindow) / float64(days)
	snap.AvgSessionMinutes = totalMinutes / float64(inWindow)
	snap.QuickReopenRate = float64(quickReopens) / float64(inWindow)
	snap.Trend = usageTrend(last7, prior7)

	return snap, true
}

// usageTrend compares this week's session count to last week's.
func usageTrend(last7, prior7 int) models.UsageTrend {
	if prior7 == 0 {
		// No baseline week to compare against.
		return models.TrendFlat
	}
	ratio := float64(last7) / float64(prior7)
	switch {
	case ratio >= 1.5:
		return models.TrendEscalating
	case ratio >= 1.15:
		return models.TrendIncreasing
	case ratio <= 0.5:
		return models.TrendUsageDeclining
	case ratio <= 0.85:
		return models.TrendDecreasing
	default:
		return models.TrendFlat
	}
}

func daysBetween(from, to time.Time) int {
	if from.IsZero() || to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
