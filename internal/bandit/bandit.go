// Package bandit learns which content types work for a user via Thompson
// sampling. Each content type is a Beta-distributed arm updated with the
// reward calculator's [0,1] outcomes; posterior draws are blended into
// the content selector's base weights so learning shifts, rather than
// replaces, the persona defaults.
package bandit

import (
	"math"
	"math/rand"
	"sync"

	"github.com/intently-app/intently/internal/models"
)

// ArmState is the persistable posterior of one arm.
type ArmState struct {
	ContentType models.ContentType `json:"content_type"`
	Alpha       float64            `json:"alpha"`
	Beta        float64            `json:"beta"`
	Pulls       int                `json:"pulls"`
}

// Config controls priors and how much the posterior shifts base weights.
type Config struct {
	// PriorAlpha and PriorBeta seed each arm. A (1,1) prior is uniform.
	PriorAlpha float64
	PriorBeta  float64

	// Exploration is the blend fraction given to posterior samples when
	// mixing with base weights. Zero disables learning influence.
	Exploration float64

	// MinPulls is how many total updates are needed before the posterior
	// influences selection at all.
	MinPulls int
}

// DefaultConfig returns the standard bandit configuration.
func DefaultConfig() Config {
	return Config{
		PriorAlpha:  1.0,
		PriorBeta:   1.0,
		Exploration: 0.3,
		MinPulls:    10,
	}
}

type arm struct {
	alpha float64
	beta  float64
	pulls int
}

// Learner holds one Beta arm per content type. Safe for concurrent use.
// Randomness comes only from the injected source.
type Learner struct {
	mu   sync.Mutex
	cfg  Config
	arms map[models.ContentType]*arm
	rng  *rand.Rand
}

// NewLearner creates a learner with fresh priors for every content type.
func NewLearner(cfg Config, rng *rand.Rand) *Learner {
	if cfg.PriorAlpha <= 0 {
		cfg.PriorAlpha = 1.0
	}
	if cfg.PriorBeta <= 0 {
		cfg.PriorBeta = 1.0
	}
	arms := make(map[models.ContentType]*arm, len(models.AllContentTypes()))
	for _, ct := range models.AllContentTypes() {
		arms[ct] = &arm{alpha: cfg.PriorAlpha, beta: cfg.PriorBeta}
	}
	return &Learner{cfg: cfg, arms: arms, rng: rng}
}

// Update folds a [0,1] reward into the arm's posterior. Fractional rewards
// split between alpha and beta, so a 0.3 outcome is 0.3 of a success.
func (l *Learner) Update(ct models.ContentType, reward float64) {
	if reward < 0 {
		reward = 0
	} else if reward > 1 {
		reward = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.arms[ct]
	if !ok {
		a = &arm{alpha: l.cfg.PriorAlpha, beta: l.cfg.PriorBeta}
		l.arms[ct] = a
	}
	a.alpha += reward
	a.beta += 1 - reward
	a.pulls++
}

// TotalPulls returns the number of updates across all arms.
func (l *Learner) TotalPulls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, a := range l.arms {
		total += a.pulls
	}
	return total
}

// Sample draws once from every arm's posterior.
func (l *Learner) Sample() map[models.ContentType]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[models.ContentType]float64, len(l.arms))
	for ct, a := range l.arms {
		out[ct] = sampleBeta(l.rng, a.alpha, a.beta)
	}
	return out
}

// Means returns each arm's posterior mean, alpha/(alpha+beta).
func (l *Learner) Means() map[models.ContentType]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[models.ContentType]float64, len(l.arms))
	for ct, a := range l.arms {
		out[ct] = a.alpha / (a.alpha + a.beta)
	}
	return out
}

// BlendWeights mixes a posterior draw into the given base weights:
// (1-exploration)*base + exploration*sample, renormalized. Before MinPulls
// updates have accumulated the base weights pass through unchanged.
func (l *Learner) BlendWeights(base map[models.ContentType]float64) map[models.ContentType]float64 {
	if l.cfg.Exploration <= 0 || l.TotalPulls() < l.cfg.MinPulls {
		return base
	}

	samples := l.Sample()
	var sampleTotal float64
	for ct := range base {
		sampleTotal += samples[ct]
	}
	if sampleTotal <= 0 {
		return base
	}

	blended := make(map[models.ContentType]float64, len(base))
	var total float64
	for ct, w := range base {
		v := (1-l.cfg.Exploration)*w + l.cfg.Exploration*(samples[ct]/sampleTotal)
		blended[ct] = v
		total += v
	}
	if total <= 0 {
		return base
	}
	for ct := range blended {
		blended[ct] /= total
	}
	return blended
}

// Snapshot exports every arm in the stable content-type order.
func (l *Learner) Snapshot() []ArmState {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]ArmState, 0, len(l.arms))
	for _, ct := range models.AllContentTypes() {
		a, ok := l.arms[ct]
		if !ok {
			continue
		}
		out = append(out, ArmState{ContentType: ct, Alpha: a.alpha, Beta: a.beta, Pulls: a.pulls})
	}
	return out
}

// Restore replaces arm posteriors with previously snapshotted state.
// Unknown content types are ignored.
func (l *Learner) Restore(states []ArmState) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range states {
		if s.Alpha <= 0 || s.Beta <= 0 {
			continue
		}
		l.arms[s.ContentType] = &arm{alpha: s.Alpha, beta: s.Beta, pulls: s.Pulls}
	}
}

// sampleBeta draws from Beta(a,b) as Ga/(Ga+Gb) using gamma variates.
func sampleBeta(rng *rand.Rand, a, b float64) float64 {
	ga := sampleGamma(rng, a)
	gb := sampleGamma(rng, b)
	if ga+gb == 0 {
		return 0.5
	}
	return ga / (ga + gb)
}

// sampleGamma draws from Gamma(shape, 1) via Marsaglia-Tsang, with the
// standard boost for shape < 1.
func sampleGamma(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		u := rng.Float64()
		for u == 0 {
			u = rng.Float64()
		}
		return sampleGamma(rng, shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
