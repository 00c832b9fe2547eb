package persona

import (
	"github.com/intently-app/intently/internal/models"
)

// onboardingDays is the grace period during which every user is
// classified as a new user regardless of behavior.
const onboardingDays = 14

// Detect maps a behavioral snapshot to a persona. Rules are evaluated in
// fixed priority order; the first match wins. There are no error
// conditions: every snapshot maps to some persona.
func Detect(s models.BehavioralSnapshot) models.Persona {
	switch {
	case s.DaysSinceInstall < onboardingDays:
		return models.PersonaNewUser

	case s.Trend == models.TrendEscalating && s.QuickReopenRate > 0.40:
		return models.PersonaProblematicPattern

	case s.AvgDailySessions >= 15 && s.QuickReopenRate >= 0.35 && s.AvgSessionMinutes < 5:
		return models.PersonaHeavyCompulsive

	case s.AvgDailySessions >= 6 && s.AvgSessionMinutes >= 20:
		return models.PersonaHeavyBinge

	case s.AvgDailySessions >= 8 && s.AvgDailySessions <= 13:
		return models.PersonaModerateBalanced

	case s.AvgDailySessions < 8:
		return models.PersonaCasual

	default:
		return models.PersonaModerateBalanced
	}
}

// DetectConfidence grades the assignment purely by elapsed days of data.
func DetectConfidence(daysOfData int) models.Confidence {
	switch {
	case daysOfData >= 14:
		return models.ConfidenceHigh
	case daysOfData >= 7:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// Classify is the full contract: persona plus confidence for a snapshot.
func Classify(s models.BehavioralSnapshot) (models.Persona, models.Confidence) {
	return Detect(s), DetectConfidence(s.DaysSinceInstall)
}
