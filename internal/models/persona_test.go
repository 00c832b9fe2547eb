package models

import "testing"

// Usage trends (week-over-week volume) and metric trends (rolling quality)
// are distinct vocabularies that share some wire values. Each constant must
// resolve at its own type.
func TestTrendVocabulariesAreDistinct(t *testing.T) {
	usage := map[UsageTrend]string{
		TrendEscalating:     "escalating",
		TrendIncreasing:     "increasing",
		TrendFlat:           "stable",
		TrendDecreasing:     "decreasing",
		TrendUsageDeclining: "declining",
	}
	for c, want := range usage {
		if string(c) != want {
			t.Errorf("usage trend %q, want %q", c, want)
		}
	}

	metric := map[Trend]string{
		TrendImproving: "improving",
		TrendStable:    "stable",
		TrendDeclining: "declining",
	}
	for c, want := range metric {
		if string(c) != want {
			t.Errorf("metric trend %q, want %q", c, want)
		}
	}
}
