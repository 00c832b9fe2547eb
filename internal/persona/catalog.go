// Package persona classifies users into behavioral archetypes and holds
// the fixed catalog of per-archetype configuration.
package persona

import (
	"github.com/intently-app/intently/internal/models"
)

// Config is the immutable profile for one persona. The catalog is defined
// at compile time; classification selects among entries, never mutates them.
type Config struct {
	Persona models.Persona

	// Typical ranges, kept for documentation and the stats surface.
	// The classifier applies its rule order directly, not these fields.
	MinDailySessions  float64
	MaxDailySessions  float64
	AvgSessionMinutes float64
	QuickReopenRate   float64
	PatternTag        string

	// Frequency is the pacing strategy the engine applies for this persona.
	Frequency models.InterventionFrequency

	// BaseWeights is the starting content distribution. Sums to 1.0.
	BaseWeights map[models.ContentType]float64
}

// catalog maps each persona to its configuration.
var catalog = map[models.Persona]Config{
	models.PersonaNewUser: {
		Persona:           models.PersonaNewUser,
		MinDailySessions:  0,
		MaxDailySessions:  100,
		AvgSessionMinutes: 0,
		QuickReopenRate:   0,
		PatternTag:        "onboarding",
		Frequency:         models.FrequencyOnboarding,
		BaseWeights: map[models.ContentType]float64{
			models.ContentReflection:   0.30,
			models.ContentBreathing:    0.10,
			models.ContentUsageStats:   0.20,
			models.ContentGoalReminder: 0.20,
			models.ContentStreak:       0.10,
			models.ContentAlternative:  0.10,
		},
	},
	models.PersonaProblematicPattern: {
		Persona:           models.PersonaProblematicPattern,
		MinDailySessions:  0,
		MaxDailySessions:  100,
		QuickReopenRate:   0.40,
		PatternTag:        "escalating-compulsive",
		Frequency:         models.FrequencyAdaptive,
		BaseWeights: map[models.ContentType]float64{
			models.ContentReflection:   0.25,
			models.ContentBreathing:    0.30,
			models.ContentUsageStats:   0.15,
			models.ContentGoalReminder: 0.10,
			models.ContentStreak:       0.05,
			models.ContentAlternative:  0.15,
		},
	},
	models.PersonaHeavyCompulsive: {
		Persona:           models.PersonaHeavyCompulsive,
		MinDailySessions:  15,
		MaxDailySessions:  100,
		AvgSessionMinutes: 5,
		QuickReopenRate:   0.35,
		PatternTag:        "frequent-short",
		Frequency:         models.FrequencyModerate,
		BaseWeights: map[models.ContentType]float64{
			models.ContentReflection:   0.30,
			models.ContentBreathing:    0.25,
			models.ContentUsageStats:   0.15,
			models.ContentGoalReminder: 0.10,
			models.ContentStreak:       0.05,
			models.ContentAlternative:  0.15,
		},
	},
	models.PersonaHeavyBinge: {
		Persona:           models.PersonaHeavyBinge,
		MinDailySessions:  6,
		MaxDailySessions:  100,
		AvgSessionMinutes: 20,
		PatternTag:        "long-immersive",
		Frequency:         models.FrequencyBalanced,
		BaseWeights: map[models.ContentType]float64{
			models.ContentReflection:   0.15,
			models.ContentBreathing:    0.10,
			models.ContentUsageStats:   0.30,
			models.ContentGoalReminder: 0.15,
			models.ContentStreak:       0.10,
			models.ContentAlternative:  0.20,
		},
	},
	models.PersonaModerateBalanced: {
		Persona:           models.PersonaModerateBalanced,
		MinDailySessions:  8,
		MaxDailySessions:  13,
		PatternTag:        "steady",
		Frequency:         models.FrequencyConservative,
		BaseWeights: map[models.ContentType]float64{
			models.ContentReflection:   0.20,
			models.ContentBreathing:    0.15,
			models.ContentUsageStats:   0.20,
			models.ContentGoalReminder: 0.15,
			models.ContentStreak:       0.15,
			models.ContentAlternative:  0.15,
		},
	},
	models.PersonaCasual: {
		Persona:           models.PersonaCasual,
		MinDailySessions:  0,
		MaxDailySessions:  8,
		PatternTag:        "light",
		Frequency:         models.FrequencyMinimal,
		BaseWeights: map[models.ContentType]float64{
			models.ContentReflection:   0.15,
			models.ContentBreathing:    0.10,
			models.ContentUsageStats:   0.15,
			models.ContentGoalReminder: 0.20,
			models.ContentStreak:       0.25,
			models.ContentAlternative:  0.15,
		},
	},
}

// Lookup returns the configuration for a persona. Unknown personas fall
// back to the moderate-balanced profile, which is also the classifier's
// default bucket.
func Lookup(p models.Persona) Config {
	if cfg, ok := catalog[p]; ok {
		return cfg
	}
	return catalog[models.PersonaModerateBalanced]
}

// All returns every catalog entry. Order is unspecified.
func All() []Config {
	configs := make([]Config, 0, len(catalog))
	for _, cfg := range catalog {
		configs = append(configs, cfg)
	}
	return configs
}
