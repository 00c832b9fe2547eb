package opportunity

import (
	"testing"
	"time"

	"github.com/intently-app/intently/internal/models"
)

func TestLevelFor_Thresholds(t *testing.T) {
	tests := []struct {
		score int
		want  models.OpportunityLevel
	}{
		{100, models.OpportunityExcellent},
		{70, models.OpportunityExcellent},
		{69, models.OpportunityGood},
		{50, models.OpportunityGood},
		{49, models.OpportunityModerate},
		{30, models.OpportunityModerate},
		{29, models.OpportunityPoor},
		{0, models.OpportunityPoor},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.score); got != tt.want {
			t.Errorf("LevelFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())
	sig := Signals{
		Context: models.SessionContext{
			HourOfDay:         23,
			IsLateNight:       true,
			QuickReopen:       true,
			SessionCountToday: 12,
			SessionMinutes:    25,
		},
		Persona:               models.PersonaHeavyCompulsive,
		HasPrior:              true,
		SinceLastIntervention: 3 * time.Hour,
		Effectiveness7d:       0.6,
		SampleSize:            20,
	}

	first := s.Score(sig, false)
	for i := 0; i < 10; i++ {
		got := s.Score(sig, false)
		if got.Score != first.Score {
			t.Fatalf("score changed between identical calls: %d vs %d", got.Score, first.Score)
		}
	}
}

func TestScore_ClampAndBreakdown(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	// Every factor maxed: raw total is 125, clamped to 100.
	sig := Signals{
		Context: models.SessionContext{
			HourOfDay:         23,
			IsLateNight:       true,
			QuickReopen:       true,
			SessionCountToday: 12,
			SessionMinutes:    25,
		},
		Persona:               models.PersonaProblematicPattern,
		HasPrior:              false,
		Effectiveness7d:       0.6,
		SampleSize:            20,
	}
	d := s.Score(sig, false)

	if d.Score != 100 {
		t.Errorf("Score = %d, want 100 (clamped)", d.Score)
	}
	if d.Level != models.OpportunityExcellent {
		t.Errorf("Level = %s, want excellent", d.Level)
	}

	rawSum := 0
	for _, pts := range d.Breakdown {
		rawSum += pts
	}
	if rawSum != 125 {
		t.Errorf("breakdown sums to %d, want 125 before clamp", rawSum)
	}
	for _, factor := range []string{
		FactorTimeOfDay, FactorQuickReopen, FactorExtendedSession,
		FactorSessionCount, FactorRecency, FactorPersona, FactorEffectiveness,
	} {
		if _, ok := d.Breakdown[factor]; !ok {
			t.Errorf("breakdown missing factor %s", factor)
		}
	}
}

func TestScore_PoorMomentSkips(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	// Early morning, first open of the day, intervention 5 minutes ago,
	// poor recent effectiveness. Nothing to recommend intervening on.
	sig := Signals{
		Context: models.SessionContext{
			HourOfDay:         7,
			SessionCountToday: 1,
		},
		Persona:               models.PersonaCasual,
		HasPrior:              true,
		SinceLastIntervention: 5 * time.Minute,
		Effectiveness7d:       0.1,
		SampleSize:            20,
	}
	d := s.Score(sig, false)

	if d.Level != models.OpportunityPoor {
		t.Errorf("Level = %s (score %d), want poor", d.Level, d.Score)
	}
	if d.Decision != models.DecideSkip {
		t.Errorf("Decision = %s, want skip_intervention", d.Decision)
	}
}

func TestScore_BurdenDowngradesDecision(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())
	sig := Signals{
		Context: models.SessionContext{
			HourOfDay:   22,
			QuickReopen: true,
		},
		Persona:    models.PersonaHeavyCompulsive,
		HasPrior:   false,
		SampleSize: 0,
	}

	relaxed := s.Score(sig, false)
	strained := s.Score(sig, true)

	if relaxed.Score != strained.Score {
		t.Fatalf("burden state changed the numeric score: %d vs %d", relaxed.Score, strained.Score)
	}
	if relaxed.Decision != models.DecideInterveneNow {
		t.Errorf("relaxed decision = %s, want intervene_now", relaxed.Decision)
	}
	if strained.Decision != models.DecideInterveneConsidered {
		t.Errorf("strained decision = %s, want intervene_with_consideration", strained.Decision)
	}
}

func TestScore_ModerateWaits(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())
	sig := Signals{
		Context: models.SessionContext{
			HourOfDay:         14,
			SessionCountToday: 4,
		},
		Persona:               models.PersonaModerateBalanced,
		HasPrior:              true,
		SinceLastIntervention: 45 * time.Minute,
		Effectiveness7d:       0.4,
		SampleSize:            15,
	}
	d := s.Score(sig, false)

	if d.Level != models.OpportunityModerate {
		t.Fatalf("Level = %s (score %d), want moderate", d.Level, d.Score)
	}
	if d.Decision != models.DecideWait {
		t.Errorf("Decision = %s, want wait_for_better_opportunity", d.Decision)
	}
}
