package simulation

import (
	"math/rand"

	"github.com/intently-app/intently/internal/models"
)

// GenerateForSession produces one synthetic session context. All
// variability comes from rng, so a seeded generator replays the same
// stream of contexts. Timestamps are the runner's job.
func GenerateForSession(rng *rand.Rand, app string, day, index int) models.SessionContext {
	hour := 8 + rng.Intn(16) // 8..23
	minutes := rng.Float64() * 30

	return models.SessionContext{
		AppPackage:        app,
		HourOfDay:         hour,
		IsWeekend:         day%7 >= 5,
		IsLateNight:       hour >= 23,
		SessionCountToday: index + 1,
		SessionMinutes:    minutes,
		QuickReopen:       rng.Float64() < 0.3,
		CurrentStreak:     rng.Intn(10),
	}
}
