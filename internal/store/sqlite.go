package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/intently-app/intently/internal/models"
	_ "modernc.org/sqlite" // SQLite driver
)

// timeFormat is how timestamps are stored. RFC3339Nano sorts correctly
// as text for same-offset timestamps, which is all we write.
const timeFormat = time.RFC3339Nano

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (or creates) the database at dataDir/intently.db.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "intently.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveResult(ctx context.Context, result models.InterventionResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO intervention_results (id, app_package, shown_at, resolved, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		result.ID, result.AppPackage, result.ShownAt.UTC().Format(timeFormat),
		boolToInt(result.Resolved), string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert result %s: %w", result.ID, err)
	}
	return nil
}

func (s *SQLiteStore) ResolveResult(ctx context.Context, id string, outcome ResultOutcome) error {
	result, err := s.GetResult(ctx, id)
	if err != nil {
		return err
	}

	applyOutcome(result, outcome)

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE intervention_results SET resolved = 1, payload = ? WHERE id = ?`,
		string(payload), id)
	if err != nil {
		return fmt.Errorf("failed to update result %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) GetResult(ctx context.Context, id string) (*models.InterventionResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM intervention_results WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query result %s: %w", id, err)
	}
	return unmarshalResult(payload)
}

func (s *SQLiteStore) ResultsSince(ctx context.Context, since time.Time) ([]models.InterventionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM intervention_results WHERE shown_at >= ? ORDER BY shown_at ASC`,
		since.UTC().Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.InterventionResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r, err := unmarshalResult(payload)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) LastResult(ctx context.Context, app string) (*models.InterventionResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM intervention_results WHERE app_package = ?
		 ORDER BY shown_at DESC LIMIT 1`, app).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last result for %s: %w", app, err)
	}
	return unmarshalResult(payload)
}

func (s *SQLiteStore) SaveSession(ctx context.Context, session models.UsageSession) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_sessions (app_package, started_at, duration_ns, quick_reopen)
		 VALUES (?, ?, ?, ?)`,
		session.AppPackage, session.StartedAt.UTC().Format(timeFormat),
		int64(session.Duration), boolToInt(session.QuickReopen))
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SessionsSince(ctx context.Context, since time.Time) ([]models.UsageSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT app_package, started_at, duration_ns, quick_reopen
		 FROM usage_sessions WHERE started_at >= ? ORDER BY started_at ASC`,
		since.UTC().Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.UsageSession
	for rows.Next() {
		var (
			sess       models.UsageSession
			startedAt  string
			durationNs int64
			quick      int
		)
		if err := rows.Scan(&sess.AppPackage, &startedAt, &durationNs, &quick); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		t, err := time.Parse(timeFormat, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse session time: %w", err)
		}
		sess.StartedAt = t
		sess.Duration = time.Duration(durationNs)
		sess.QuickReopen = quick != 0
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) SaveExplanation(ctx context.Context, exp models.DecisionExplanation) error {
	payload, err := json.Marshal(exp)
	if err != nil {
		return fmt.Errorf("failed to marshal explanation: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decision_explanations (id, evaluated_at, app_package, decision, reason, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.EvaluatedAt.UTC().Format(timeFormat), exp.AppPackage,
		string(exp.Decision), exp.Reason, string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert explanation %s: %w", exp.ID, err)
	}
	return nil
}

func (s *SQLiteStore) GetExplanation(ctx context.Context, id string) (*models.DecisionExplanation, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM decision_explanations WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query explanation %s: %w", id, err)
	}
	var exp models.DecisionExplanation
	if err := json.Unmarshal([]byte(payload), &exp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal explanation: %w", err)
	}
	return &exp, nil
}

func (s *SQLiteStore) RecentExplanations(ctx context.Context, limit int) ([]models.DecisionExplanation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM decision_explanations ORDER BY evaluated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query explanations: %w", err)
	}
	defer rows.Close()

	var exps []models.DecisionExplanation
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan explanation: %w", err)
		}
		var exp models.DecisionExplanation
		if err := json.Unmarshal([]byte(payload), &exp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal explanation: %w", err)
		}
		exps = append(exps, exp)
	}
	return exps, rows.Err()
}

func (s *SQLiteStore) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query meta %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set meta %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	cutoff := before.UTC().Format(timeFormat)
	var total int64

	for _, q := range []string{
		`DELETE FROM intervention_results WHERE shown_at < ?`,
		`DELETE FROM decision_explanations WHERE evaluated_at < ?`,
		`DELETE FROM usage_sessions WHERE started_at < ?`,
	} {
		res, err := s.db.ExecContext(ctx, q, cutoff)
		if err != nil {
			return total, fmt.Errorf("cleanup failed: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("cleanup failed: %w", err)
		}
		total += n
	}
	return total, nil
}

func unmarshalResult(payload string) (*models.InterventionResult, error) {
	var r models.InterventionResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &r, nil
}

// applyOutcome copies outcome fields onto a pending result.
func applyOutcome(r *models.InterventionResult, outcome ResultOutcome) {
	r.Choice = outcome.Choice
	r.DecisionLatency = outcome.DecisionLatency
	r.Feedback = outcome.Feedback
	r.Snoozed = outcome.Snoozed
	r.SnoozeDuration = outcome.SnoozeDuration
	r.SessionContinued = outcome.SessionContinued
	r.FinalSessionMinutes = outcome.FinalSessionMinutes
	r.ReopenedQuickly = outcome.ReopenedQuickly
	r.ReopenDelay = outcome.ReopenDelay
	r.Resolved = true
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
