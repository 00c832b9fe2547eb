package reward

import (
	"math"
	"testing"
	"time"

	"github.com/intently-app/intently/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestCalculate_BaseRewards(t *testing.T) {
	tests := []struct {
		choice models.UserChoice
		want   float64
	}{
		{models.ChoiceGoBack, 1.0},
		{models.ChoiceContinue, 0.3},
		{models.ChoiceDismiss, 0.0},
		{models.ChoiceTimeout, 0.1},
		{models.UserChoice(""), 0.5},
		{models.UserChoice("mystery"), 0.5},
	}
	for _, tt := range tests {
		if got := Calculate(Outcome{Choice: tt.choice}); got != tt.want {
			t.Errorf("Calculate(%q) = %f, want %f", tt.choice, got, tt.want)
		}
	}
}

func TestCalculate_Clamping(t *testing.T) {
	// go_back + helpful would be 1.2, clamps to 1.0.
	got := Calculate(Outcome{Choice: models.ChoiceGoBack, Feedback: models.FeedbackHelpful})
	if got != 1.0 {
		t.Errorf("go_back+helpful = %f, want 1.0 (clamped)", got)
	}

	// dismiss + disruptive would be -0.3, clamps to 0.0.
	got = Calculate(Outcome{Choice: models.ChoiceDismiss, Feedback: models.FeedbackDisruptive})
	if got != 0.0 {
		t.Errorf("dismiss+disruptive = %f, want 0.0 (clamped)", got)
	}
}

func TestCalculate_Adjustments(t *testing.T) {
	tests := []struct {
		name string
		o    Outcome
		want float64
	}{
		{
			"session ended adds a tenth",
			Outcome{Choice: models.ChoiceContinue, SessionContinued: ptr(false)},
			0.4,
		},
		{
			"session continued adds nothing",
			Outcome{Choice: models.ChoiceContinue, SessionContinued: ptr(true)},
			0.3,
		},
		{
			"long session after penalized",
			Outcome{Choice: models.ChoiceContinue, SessionMinutesAfter: ptr(20.0)},
			0.2,
		},
		{
			"short session after rewarded",
			Outcome{Choice: models.ChoiceContinue, SessionMinutesAfter: ptr(4.0)},
			0.4,
		},
		{
			"mid-length session neutral",
			Outcome{Choice: models.ChoiceContinue, SessionMinutesAfter: ptr(10.0)},
			0.3,
		},
		{
			"quick reopen penalized",
			Outcome{Choice: models.ChoiceGoBack, QuickReopen: ptr(true)},
			0.8,
		},
		{
			"fast reopen delay penalized",
			Outcome{Choice: models.ChoiceGoBack, ReopenDelay: ptr(90 * time.Second)},
			0.8,
		},
		{
			"long reopen delay rewarded",
			Outcome{Choice: models.ChoiceContinue, ReopenDelay: ptr(10 * time.Minute)},
			0.4,
		},
		{
			"adjustments stack",
			Outcome{
				Choice:              models.ChoiceContinue,
				Feedback:            models.FeedbackHelpful,
				SessionContinued:    ptr(false),
				SessionMinutesAfter: ptr(3.0),
				ReopenDelay:         ptr(10 * time.Minute),
			},
			0.8, // 0.3 + 0.2 + 0.1 + 0.1 + 0.1
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Calculate(tt.o); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Calculate = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestBinary(t *testing.T) {
	if got := Binary(models.ChoiceGoBack); got != 1.0 {
		t.Errorf("Binary(go_back) = %f, want 1.0", got)
	}
	for _, c := range []models.UserChoice{models.ChoiceContinue, models.ChoiceDismiss, models.ChoiceTimeout, ""} {
		if got := Binary(c); got != 0.0 {
			t.Errorf("Binary(%q) = %f, want 0.0", c, got)
		}
	}
}

func TestIsSuccessfulOutcome(t *testing.T) {
	tests := []struct {
		choice   models.UserChoice
		feedback models.Feedback
		want     bool
	}{
		{models.ChoiceGoBack, models.FeedbackNone, true},
		{models.ChoiceGoBack, models.FeedbackDisruptive, true},
		{models.ChoiceContinue, models.FeedbackHelpful, true},
		{models.ChoiceContinue, models.FeedbackNone, false},
		{models.ChoiceDismiss, models.FeedbackHelpful, false},
		{models.ChoiceTimeout, models.FeedbackNone, false},
	}
	for _, tt := range tests {
		if got := IsSuccessfulOutcome(tt.choice, tt.feedback); got != tt.want {
			t.Errorf("IsSuccessfulOutcome(%s, %s) = %t, want %t", tt.choice, tt.feedback, got, tt.want)
		}
	}
}

func TestNormalized(t *testing.T) {
	tests := []struct {
		base       float64
		confidence float64
		want       float64
	}{
		{0.5, 1.0, 0.5},   // full confidence, no bonus
		{0.5, 0.0, 0.6},   // zero confidence, full bonus
		{0.5, 0.5, 0.55},  // half confidence
		{1.0, 0.0, 1.0},   // clamped at 1.0
	}
	for _, tt := range tests {
		if got := Normalized(tt.base, tt.confidence); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalized(%f, %f) = %f, want %f", tt.base, tt.confidence, got, tt.want)
		}
	}
}
