package persona

import (
	"math"
	"testing"

	"github.com/intently-app/intently/internal/models"
)

func TestDetect_RuleOrder(t *testing.T) {
	tests := []struct {
		name string
		snap models.BehavioralSnapshot
		want models.Persona
	}{
		{
			name: "onboarding grace period wins regardless of behavior",
			snap: models.BehavioralSnapshot{
				DaysSinceInstall:  5,
				AvgDailySessions:  30,
				AvgSessionMinutes: 2,
				QuickReopenRate:   0.9,
				Trend:             models.TrendEscalating,
			},
			want: models.PersonaNewUser,
		},
		{
			name: "escalating with high reopen rate",
			snap: models.BehavioralSnapshot{
				DaysSinceInstall: 30,
				AvgDailySessions: 10,
				QuickReopenRate:  0.45,
				Trend:            models.TrendEscalating,
			},
			want: models.PersonaProblematicPattern,
		},
		{
			name: "heavy compulsive",
			snap: models.BehavioralSnapshot{
				DaysSinceInstall:  20,
				AvgDailySessions:  20,
				AvgSessionMinutes: 3,
				QuickReopenRate:   0.5,
				Trend:             models.TrendFlat,
			},
			want: models.PersonaHeavyCompulsive,
		},
		{
			name: "heavy binge",
			snap: models.BehavioralSnapshot{
				DaysSinceInstall:  20,
				AvgDailySessions:  7,
				AvgSessionMinutes: 35,
				Trend:             models.TrendFlat,
			},
			want: models.PersonaHeavyBinge,
		},
		{
			name: "moderate balanced band",
			snap: models.BehavioralSnapshot{
				DaysSinceInstall:  20,
				AvgDailySessions:  10,
				AvgSessionMinutes: 8,
				Trend:             models.TrendFlat,
			},
			want: models.PersonaModerateBalanced,
		},
		{
			name: "casual",
			snap: models.BehavioralSnapshot{
				DaysSinceInstall:  20,
				AvgDailySessions:  3,
				AvgSessionMinutes: 6,
				Trend:             models.TrendDecreasing,
			},
			want: models.PersonaCasual,
		},
		{
			name: "compulsive rule outranks binge rule",
			snap: models.BehavioralSnapshot{
				DaysSinceInstall:  20,
				AvgDailySessions:  18,
				AvgSessionMinutes: 4,
				QuickReopenRate:   0.4,
				Trend:             models.TrendIncreasing,
			},
			want: models.PersonaHeavyCompulsive,
		},
		{
			name: "high sessions short length but low reopen falls through to default",
			snap: models.BehavioralSnapshot{
				DaysSinceInstall:  20,
				AvgDailySessions:  18,
				AvgSessionMinutes: 4,
				QuickReopenRate:   0.1,
				Trend:             models.TrendFlat,
			},
			want: models.PersonaModerateBalanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.snap); got != tt.want {
				t.Errorf("Detect() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetectConfidence(t *testing.T) {
	tests := []struct {
		days int
		want models.Confidence
	}{
		{0, models.ConfidenceLow},
		{6, models.ConfidenceLow},
		{7, models.ConfidenceMedium},
		{13, models.ConfidenceMedium},
		{14, models.ConfidenceHigh},
		{100, models.ConfidenceHigh},
	}
	for _, tt := range tests {
		if got := DetectConfidence(tt.days); got != tt.want {
			t.Errorf("DetectConfidence(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestCatalog_WeightsSumToOne(t *testing.T) {
	for _, cfg := range All() {
		sum := 0.0
		for _, w := range cfg.BaseWeights {
			if w < 0 {
				t.Errorf("%s: negative weight %f", cfg.Persona, w)
			}
			sum += w
		}
		if math.Abs(sum-1.0) > 0.01 {
			t.Errorf("%s: base weights sum to %f, want 1.0 +/- 0.01", cfg.Persona, sum)
		}
		if len(cfg.BaseWeights) != len(models.AllContentTypes()) {
			t.Errorf("%s: weight map covers %d content types, want %d",
				cfg.Persona, len(cfg.BaseWeights), len(models.AllContentTypes()))
		}
	}
}

func TestCatalog_AllFrequenciesAssigned(t *testing.T) {
	seen := map[models.InterventionFrequency]bool{}
	for _, cfg := range All() {
		seen[cfg.Frequency] = true
	}
	want := []models.InterventionFrequency{
		models.FrequencyOnboarding,
		models.FrequencyMinimal,
		models.FrequencyConservative,
		models.FrequencyBalanced,
		models.FrequencyModerate,
		models.FrequencyAdaptive,
	}
	for _, f := range want {
		if !seen[f] {
			t.Errorf("no persona uses frequency %s", f)
		}
	}
}

func TestLookup_UnknownFallsBack(t *testing.T) {
	cfg := Lookup(models.Persona("nonsense"))
	if cfg.Persona != models.PersonaModerateBalanced {
		t.Errorf("Lookup(unknown) = %s, want moderate_balanced", cfg.Persona)
	}
}
