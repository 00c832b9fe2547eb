// Package store persists intervention results, usage sessions, and
// decision explanations. The SQLite implementation is the production
// store; the memory implementation backs tests and simulations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/intently-app/intently/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

// Meta keys used by the engine.
const (
	MetaInstalledAt = "installed_at"
	MetaBanditArms  = "bandit_arms"
)

// ResultOutcome carries the user's response to a shown intervention,
// applied to the pending result record.
type ResultOutcome struct {
	Choice          models.UserChoice
	DecisionLatency time.Duration
	Feedback        models.Feedback
	Snoozed         bool
	SnoozeDuration  time.Duration

	// Post-hoc session signals for the reward model, nil when the
	// post-intervention window was not observed.
	SessionContinued    *bool
	FinalSessionMinutes *float64
	ReopenedQuickly     *bool
	ReopenDelay         *time.Duration
}

// Store is the persistence surface the engine depends on.
type Store interface {
	// SaveResult inserts a new pending intervention result.
	SaveResult(ctx context.Context, result models.InterventionResult) error

	// ResolveResult applies the user's outcome to a pending result.
	ResolveResult(ctx context.Context, id string, outcome ResultOutcome) error

	// GetResult returns one result by ID, or ErrNotFound.
	GetResult(ctx context.Context, id string) (*models.InterventionResult, error)

	// ResultsSince returns results shown at or after since, oldest first.
	ResultsSince(ctx context.Context, since time.Time) ([]models.InterventionResult, error)

	// LastResult returns the most recently shown result for an app, or
	// ErrNotFound when none exists.
	LastResult(ctx context.Context, app string) (*models.InterventionResult, error)

	// SaveSession records one completed usage session.
	SaveSession(ctx context.Context, session models.UsageSession) error

	// SessionsSince returns sessions started at or after since, oldest first.
	SessionsSince(ctx context.Context, since time.Time) ([]models.UsageSession, error)

	// SaveExplanation persists one decision explanation.
	SaveExplanation(ctx context.Context, exp models.DecisionExplanation) error

	// GetExplanation returns one explanation by ID, or ErrNotFound.
	GetExplanation(ctx context.Context, id string) (*models.DecisionExplanation, error)

	// RecentExplanations returns up to limit explanations, newest first.
	RecentExplanations(ctx context.Context, limit int) ([]models.DecisionExplanation, error)

	// GetMeta returns a metadata value, or "" when the key is unset.
	GetMeta(ctx context.Context, key string) (string, error)

	// SetMeta stores a metadata value.
	SetMeta(ctx context.Context, key, value string) error

	// Cleanup deletes results, sessions, and explanations older than
	// before. Returns the number of rows removed.
	Cleanup(ctx context.Context, before time.Time) (int64, error)

	Close() error
}
