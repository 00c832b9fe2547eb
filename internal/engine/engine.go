// Package engine orchestrates one intervention decision. Every evaluation
// walks the same gate sequence and emits exactly one decision explanation,
// SHOW or SKIP, persisted before the result is returned.
//
// Gate order: rate limit, opportunity, persona frequency, burden-scaled
// cooldown. The first failing gate decides; later gates never run, and
// their fields stay absent from the explanation.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/intently-app/intently/internal/bandit"
	"github.com/intently-app/intently/internal/burden"
	"github.com/intently-app/intently/internal/content"
	"github.com/intently-app/intently/internal/history"
	"github.com/intently-app/intently/internal/logging"
	"github.com/intently-app/intently/internal/models"
	"github.com/intently-app/intently/internal/opportunity"
	"github.com/intently-app/intently/internal/persona"
	"github.com/intently-app/intently/internal/ratelimit"
	"github.com/intently-app/intently/internal/reward"
	"github.com/intently-app/intently/internal/store"
)

// Skip reasons recorded in explanations.
const (
	ReasonRateLimit        = "rate_limit"
	ReasonDailyCap         = "daily_cap"
	ReasonPoorOpportunity  = "poor_opportunity"
	ReasonWaitForBetter    = "wait_for_better_opportunity"
	ReasonPersonaFrequency = "persona_frequency"
	ReasonBurdenCooldown   = "burden_cooldown"
	ReasonCriticalBurden   = "critical_burden"
	ReasonAllGatesPassed   = "all_gates_passed"
	ReasonEvaluationError  = "evaluation_error"
)

// historyWindow is how far back the engine loads results and sessions
// for each evaluation.
const historyWindow = 14 * 24 * time.Hour

// Config holds the engine's pacing knobs.
type Config struct {
	// BaseCooldown is the minimum per-app gap before multipliers.
	BaseCooldown time.Duration

	// DailyCap bounds interventions across all apps per 24h. Zero
	// disables the cap.
	DailyCap int

	// Scorer overrides the opportunity point budget. Zero value uses
	// the defaults.
	Scorer opportunity.ScorerConfig

	// Bandit configures the content learner.
	Bandit bandit.Config
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		BaseCooldown: time.Hour,
		DailyCap:     12,
		Bandit:       bandit.DefaultConfig(),
	}
}

// Engine is the decision orchestrator.
type Engine struct {
	cfg      Config
	store    store.Store
	tracker  *ratelimit.Tracker
	scorer   *opportunity.Scorer
	selector *content.Selector
	learner  *bandit.Learner
	logger   *slog.Logger
	decLog   *logging.DecisionLogger

	nowFunc func() time.Time
	newID   func() string
}

// New creates an engine. All randomness flows through rng, so seeded
// engines make reproducible decisions. logger must not be nil; decLog
// may be nil (decision tracing disabled).
func New(cfg Config, s store.Store, rng *rand.Rand, logger *slog.Logger, decLog *logging.DecisionLogger) *Engine {
	if cfg.BaseCooldown <= 0 {
		cfg.BaseCooldown = time.Hour
	}
	return &Engine{
		cfg:      cfg,
		store:    s,
		tracker:  ratelimit.NewTracker(),
		scorer:   opportunity.NewScorer(cfg.Scorer),
		selector: content.NewSelector(rng),
		learner:  bandit.NewLearner(cfg.Bandit, rng),
		logger:   logger,
		decLog:   decLog,
		nowFunc:  time.Now,
		newID:    uuid.NewString,
	}
}

// SetNowFunc overrides the engine's clock and propagates it to the
// cooldown tracker. Test and simulation use only.
func (e *Engine) SetNowFunc(f func() time.Time) {
	e.nowFunc = f
	e.tracker.SetNowFunc(f)
}

// Evaluate runs the full gate sequence for one session context and
// returns the persisted explanation. Storage failures while loading
// history fail safe: the user sees nothing, and the explanation records
// the error.
func (e *Engine) Evaluate(ctx context.Context, sc models.SessionContext, itype models.InterventionType) (models.DecisionExplanation, error) {
	now := sc.Timestamp
	if now.IsZero() {
		now = e.nowFunc()
	}

	exp := models.DecisionExplanation{
		ID:          e.newID(),
		EvaluatedAt: now,
		AppPackage:  sc.AppPackage,
	}

	inputs, err := e.loadInputs(ctx, sc, now)
	if err != nil {
		e.logger.Error("history load failed, skipping intervention", "app", sc.AppPackage, "error", err)
		exp.Decision = models.DecisionSkip
		exp.Reason = ReasonEvaluationError
		exp.Short = "skipped: could not load history"
		return e.finish(ctx, exp)
	}

	exp.Persona = inputs.persona
	exp.Confidence = inputs.confidence
	exp.BurdenScore = burden.Score(inputs.metrics)
	exp.BurdenLevel = burden.Level(inputs.metrics)

	// Gate 1: base rate limit and daily cap. Personas paced faster than
	// balanced lower the floor here instead of stretching it in gate 3.
	// Spacing is derived from the persisted history, so a process restart
	// does not reset it; the in-memory tracker is a same-process fast path.
	pCfg := persona.Lookup(inputs.persona)
	freqCooldown := scaleDuration(e.cfg.BaseCooldown, FrequencyMultiplier(pCfg.Frequency))
	floor := e.cfg.BaseCooldown
	if freqCooldown < floor {
		floor = freqCooldown
	}
	ok, reason := e.tracker.Check(sc.AppPackage, floor, e.cfg.DailyCap)
	if ok && inputs.hasPrior && inputs.sinceLast < floor {
		ok, reason = false, ratelimit.ReasonCooldown
	}
	if ok && e.cfg.DailyCap > 0 && inputs.metrics.InterventionsLast24h >= e.cfg.DailyCap {
		ok, reason = false, ratelimit.ReasonDailyCap
	}
	exp.RateLimitPassed = boolPtr(ok)
	if !ok {
		exp.Decision = models.DecisionSkip
		if reason == ratelimit.ReasonDailyCap {
			exp.Reason = ReasonDailyCap
		} else {
			exp.Reason = ReasonRateLimit
		}
		exp.Short = fmt.Sprintf("skipped: %s", exp.Reason)
		return e.finish(ctx, exp)
	}

	// Gate 2: opportunity.
	strained := burden.ShouldReduceInterventions(inputs.metrics)
	scored := e.scorer.Score(opportunity.Signals{
		Context:               sc,
		Persona:               inputs.persona,
		SinceLastIntervention: inputs.sinceLast,
		HasPrior:              inputs.hasPrior,
		Effectiveness7d:       inputs.metrics.EffectivenessRolling7d,
		SampleSize:            inputs.metrics.SampleSize,
	}, strained)
	exp.OpportunityScore = scored.Score
	exp.OpportunityLevel = scored.Level
	exp.OpportunityDecision = scored.Decision
	exp.FactorBreakdown = scored.Breakdown

	switch scored.Decision {
	case models.DecideSkip:
		exp.Decision = models.DecisionSkip
		exp.Reason = ReasonPoorOpportunity
		exp.Short = fmt.Sprintf("skipped: opportunity %d is %s", scored.Score, scored.Level)
		return e.finish(ctx, exp)
	case models.DecideWait:
		exp.Decision = models.DecisionSkip
		exp.Reason = ReasonWaitForBetter
		exp.Short = fmt.Sprintf("skipped: opportunity %d, waiting for a better moment", scored.Score)
		return e.finish(ctx, exp)
	}

	// Gate 3: persona frequency stretches the cooldown.
	freqOK := e.tracker.TimeUntilAllowed(sc.AppPackage, freqCooldown) == 0 &&
		(!inputs.hasPrior || inputs.sinceLast >= freqCooldown)
	exp.FrequencyPassed = boolPtr(freqOK)
	if !freqOK {
		exp.Decision = models.DecisionSkip
		exp.Reason = ReasonPersonaFrequency
		exp.Short = fmt.Sprintf("skipped: %s pacing for %s persona", pCfg.Frequency, inputs.persona)
		return e.finish(ctx, exp)
	}

	// Gate 4: burden stretches it further, and critical burden hard-stops.
	multiplier := burden.CooldownMultiplier(inputs.metrics)
	exp.CooldownMultiplier = multiplier
	if exp.BurdenLevel == models.BurdenCritical {
		exp.BurdenGatePassed = boolPtr(false)
		exp.Decision = models.DecisionSkip
		exp.Reason = ReasonCriticalBurden
		exp.Short = fmt.Sprintf("skipped: burden score %d is critical", exp.BurdenScore)
		return e.finish(ctx, exp)
	}
	burdenCooldown := scaleDuration(freqCooldown, multiplier)
	burdenOK := e.tracker.TimeUntilAllowed(sc.AppPackage, burdenCooldown) == 0 &&
		(!inputs.hasPrior || inputs.sinceLast >= burdenCooldown)
	exp.BurdenGatePassed = boolPtr(burdenOK)
	if !burdenOK {
		exp.Decision = models.DecisionSkip
		exp.Reason = ReasonBurdenCooldown
		exp.Short = fmt.Sprintf("skipped: burden multiplier %.1fx extends cooldown", multiplier)
		return e.finish(ctx, exp)
	}

	// All gates passed: pick content and record the pending result.
	baseWeights := e.learner.BlendWeights(pCfg.BaseWeights)
	sel := e.selector.Select(content.Request{
		Type:              itype,
		IsLateNight:       sc.IsLateNight,
		IsQuickReopen:     sc.QuickReopen,
		IsExtendedSession: sc.IsExtendedSession(),
		CurrentStreak:     sc.CurrentStreak,
		BaseWeights:       baseWeights,
	})

	exp.Decision = models.DecisionShow
	exp.Reason = ReasonAllGatesPassed
	exp.ContentWeights = sel.Weights
	exp.ChosenContent = sel.Content
	exp.SelectionReason = sel.Reason
	exp.Short = fmt.Sprintf("show %s (opportunity %d, %s)", sel.Content, scored.Score, sel.Reason)
	exp.Long = e.longExplanation(exp)

	result := models.InterventionResult{
		ID:                exp.ID,
		Type:              itype,
		ContentType:       sel.Content,
		AppPackage:        sc.AppPackage,
		ShownAt:           now,
		HourOfDay:         sc.HourOfDay,
		Weekday:           int(now.Weekday()),
		IsWeekend:         sc.IsWeekend,
		IsLateNight:       sc.IsLateNight,
		SessionCountToday: sc.SessionCountToday,
		QuickReopen:       sc.QuickReopen,
		SessionMinutes:    sc.SessionMinutes,
		Persona:           inputs.persona,
		Confidence:        inputs.confidence,
		OpportunityScore:  scored.Score,
	}
	if err := e.store.SaveResult(ctx, result); err != nil {
		return exp, fmt.Errorf("saving intervention result: %w", err)
	}
	e.tracker.Record(sc.AppPackage)

	return e.finish(ctx, exp)
}

// RecordOutcome resolves a pending intervention with the user's response,
// feeds the reward into the content learner, and persists learner state.
func (e *Engine) RecordOutcome(ctx context.Context, id string, outcome store.ResultOutcome) error {
	if err := e.store.ResolveResult(ctx, id, outcome); err != nil {
		return err
	}

	result, err := e.store.GetResult(ctx, id)
	if err != nil {
		return err
	}

	r := reward.Calculate(reward.Outcome{
		Choice:              outcome.Choice,
		Feedback:            outcome.Feedback,
		SessionContinued:    outcome.SessionContinued,
		SessionMinutesAfter: outcome.FinalSessionMinutes,
		QuickReopen:         outcome.ReopenedQuickly,
		ReopenDelay:         outcome.ReopenDelay,
	})
	e.learner.Update(result.ContentType, r)
	e.logger.Debug("outcome recorded",
		"id", id, "choice", outcome.Choice, "content", result.ContentType, "reward", r)

	return e.persistLearner(ctx)
}

// RecordSession stores one completed usage session.
func (e *Engine) RecordSession(ctx context.Context, session models.UsageSession) error {
	return e.store.SaveSession(ctx, session)
}

// RestoreLearner loads persisted bandit state, if any.
func (e *Engine) RestoreLearner(ctx context.Context) error {
	raw, err := e.store.GetMeta(ctx, store.MetaBanditArms)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	var states []bandit.ArmState
	if err := json.Unmarshal([]byte(raw), &states); err != nil {
		return fmt.Errorf("parsing learner state: %w", err)
	}
	e.learner.Restore(states)
	return nil
}

func (e *Engine) persistLearner(ctx context.Context) error {
	data, err := json.Marshal(e.learner.Snapshot())
	if err != nil {
		return fmt.Errorf("marshaling learner state: %w", err)
	}
	return e.store.SetMeta(ctx, store.MetaBanditArms, string(data))
}

// decisionInputs are the resolved history aggregates one evaluation needs.
type decisionInputs struct {
	persona    models.Persona
	confidence models.Confidence
	metrics    models.BurdenMetrics
	sinceLast  time.Duration
	hasPrior   bool
}

func (e *Engine) loadInputs(ctx context.Context, sc models.SessionContext, now time.Time) (decisionInputs, error) {
	var in decisionInputs

	since := now.Add(-historyWindow)
	results, err := e.store.ResultsSince(ctx, since)
	if err != nil {
		return in, fmt.Errorf("loading results: %w", err)
	}
	sessions, err := e.store.SessionsSince(ctx, since)
	if err != nil {
		return in, fmt.Errorf("loading sessions: %w", err)
	}
	installedAt, err := e.installedAt(ctx, now)
	if err != nil {
		return in, err
	}

	snap, hasData := history.SnapshotFromSessions(sessions, installedAt, now)
	if !hasData {
		// No usage history yet: treat as a brand-new user.
		snap = models.BehavioralSnapshot{Trend: models.TrendFlat}
	}
	in.persona, in.confidence = persona.Classify(snap)
	in.metrics = history.MetricsFromResults(results, now)

	if last, err := e.store.LastResult(ctx, sc.AppPackage); err == nil {
		in.hasPrior = true
		in.sinceLast = now.Sub(last.ShownAt)
	} else if !errors.Is(err, store.ErrNotFound) {
		return in, fmt.Errorf("loading last result: %w", err)
	}

	return in, nil
}

// installedAt reads the recorded install time, recording now on first use.
func (e *Engine) installedAt(ctx context.Context, now time.Time) (time.Time, error) {
	raw, err := e.store.GetMeta(ctx, store.MetaInstalledAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("loading install time: %w", err)
	}
	if raw == "" {
		if err := e.store.SetMeta(ctx, store.MetaInstalledAt, now.UTC().Format(time.RFC3339Nano)); err != nil {
			return time.Time{}, fmt.Errorf("recording install time: %w", err)
		}
		return now, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing install time: %w", err)
	}
	return t, nil
}

// finish persists and logs the explanation. Every evaluation path ends here.
func (e *Engine) finish(ctx context.Context, exp models.DecisionExplanation) (models.DecisionExplanation, error) {
	if err := e.store.SaveExplanation(ctx, exp); err != nil {
		return exp, fmt.Errorf("saving explanation: %w", err)
	}
	e.decLog.LogExplanation(exp)
	e.logger.Info("decision",
		"app", exp.AppPackage, "decision", exp.Decision, "reason", exp.Reason,
		"opportunity", exp.OpportunityScore, "burden", exp.BurdenScore)
	e.logger.Log(ctx, logging.LevelTrace, "decision detail",
		"id", exp.ID, "breakdown", exp.FactorBreakdown, "weights", exp.ContentWeights)
	return exp, nil
}

func (e *Engine) longExplanation(exp models.DecisionExplanation) string {
	return fmt.Sprintf(
		"persona %s (%s confidence), opportunity %d (%s), burden %d (%s, %.1fx cooldown), content %s via %s",
		exp.Persona, exp.Confidence, exp.OpportunityScore, exp.OpportunityLevel,
		exp.BurdenScore, exp.BurdenLevel, exp.CooldownMultiplier,
		exp.ChosenContent, exp.SelectionReason)
}

// FrequencyMultiplier maps a persona pacing strategy to its cooldown
// multiplier. Adaptive pacing leaves spacing to the burden multiplier.
func FrequencyMultiplier(f models.InterventionFrequency) float64 {
	switch f {
	case models.FrequencyMinimal:
		return 3.0
	case models.FrequencyOnboarding:
		return 2.0
	case models.FrequencyConservative:
		return 1.5
	case models.FrequencyModerate:
		return 0.75
	default:
		// balanced and adaptive
		return 1.0
	}
}

func scaleDuration(d time.Duration, factor float64) time.Duration {
	return time.Duration(float64(d) * factor)
}

func boolPtr(b bool) *bool { return &b }
