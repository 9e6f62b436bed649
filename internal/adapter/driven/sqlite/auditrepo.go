package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
	"github.com/ericfisherdev/hashaudit/internal/domain/port/driven"
)

// timeLayout has fixed-width fractional seconds so stored timestamps sort
// lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Compile-time interface satisfaction checks.
var (
	_ driven.AuditStore = (*AuditRepo)(nil)
	_ driven.ReportSink = (*AuditRepo)(nil)
)

// AuditRepo is the SQLite implementation of the AuditStore port interface.
// It doubles as a ReportSink so a run can be recorded alongside the other
// outputs.
type AuditRepo struct {
	db     *DB
	logger *slog.Logger
	newID  func() string
}

// NewAuditRepo creates a new AuditRepo backed by the given DB.
func NewAuditRepo(db *DB, logger *slog.Logger) *AuditRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditRepo{
		db:     db,
		logger: logger,
		newID:  func() string { return uuid.NewString() },
	}
}

// Name identifies the repo when used as a report sink.
func (r *AuditRepo) Name() string { return "history" }

// Write records the report as a new run.
func (r *AuditRepo) Write(ctx context.Context, report *model.Report) error {
	id, err := r.SaveReport(ctx, report)
	if err != nil {
		return err
	}
	r.logger.Info("audit run recorded", "run_id", id, "db_path", r.db.Path())
	return nil
}

// SaveReport persists the report header, duplicate rows and duplicated
// privileged accounts in a single transaction.
func (r *AuditRepo) SaveReport(ctx context.Context, report *model.Report) (string, error) {
	id := r.newID()

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertRun = `
		INSERT INTO audit_runs (
			id, source, generated_at, include_disabled,
			total, enabled, disabled, computers, blank_passwords, lm_exposures,
			duplicate_hashes, distinct_hashes, malformed_lines, possible_repeated_accounts
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	s := report.Summary
	includeDisabled := 0
	if report.IncludeDisabled {
		includeDisabled = 1
	}
	if _, err := tx.ExecContext(ctx, insertRun,
		id, report.Source, report.GeneratedAt.UTC().Format(timeLayout), includeDisabled,
		s.Total, s.Enabled, s.Disabled, s.Computers, s.BlankPasswords, s.LMExposures,
		s.DuplicateHashes, s.DistinctHashes, s.MalformedLines, s.PossibleRepeatedAccounts,
	); err != nil {
		return "", fmt.Errorf("insert audit run: %w", err)
	}

	const insertRow = `INSERT INTO duplicate_hashes (run_id, position, hash, user_count) VALUES (?, ?, ?, ?)`
	const insertUser = `INSERT INTO duplicate_hash_users (run_id, position, user_index, account) VALUES (?, ?, ?, ?)`
	for pos, row := range report.Rows {
		if _, err := tx.ExecContext(ctx, insertRow, id, pos, row.Hash, row.UserCount); err != nil {
			return "", fmt.Errorf("insert duplicate hash %d: %w", pos, err)
		}
		for i, account := range row.Users {
			if _, err := tx.ExecContext(ctx, insertUser, id, pos, i, account); err != nil {
				return "", fmt.Errorf("insert duplicate hash %d user %d: %w", pos, i, err)
			}
		}
	}

	const insertPrivileged = `INSERT INTO privileged_duplicates (run_id, position, account) VALUES (?, ?, ?)`
	for pos, account := range report.DuplicatedPrivileged {
		if _, err := tx.ExecContext(ctx, insertPrivileged, id, pos, account); err != nil {
			return "", fmt.Errorf("insert privileged duplicate %q: %w", account, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit audit run: %w", err)
	}
	return id, nil
}

// ListRuns returns stored runs, newest first.
func (r *AuditRepo) ListRuns(ctx context.Context, limit int) ([]model.AuditRun, error) {
	query := `
		SELECT id, source, generated_at, include_disabled,
			total, enabled, disabled, computers, blank_passwords, lm_exposures,
			duplicate_hashes, distinct_hashes, malformed_lines, possible_repeated_accounts
		FROM audit_runs
		ORDER BY generated_at DESC, rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit runs: %w", err)
	}
	defer rows.Close()

	result := []model.AuditRun{}
	for rows.Next() {
		var run model.AuditRun
		var generatedAt string
		var includeDisabled int
		s := &run.Summary
		if err := rows.Scan(
			&run.ID, &run.Source, &generatedAt, &includeDisabled,
			&s.Total, &s.Enabled, &s.Disabled, &s.Computers, &s.BlankPasswords, &s.LMExposures,
			&s.DuplicateHashes, &s.DistinctHashes, &s.MalformedLines, &s.PossibleRepeatedAccounts,
		); err != nil {
			return nil, fmt.Errorf("scan audit run: %w", err)
		}
		run.IncludeDisabled = includeDisabled != 0
		run.GeneratedAt, err = parseTime(generatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse generated_at for run %s: %w", run.ID, err)
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit runs: %w", err)
	}
	return result, nil
}

// GetDuplicates returns the duplicate rows of a run in report order.
func (r *AuditRepo) GetDuplicates(ctx context.Context, runID string) ([]model.ReportRow, error) {
	const query = `
		SELECT d.position, d.hash, d.user_count, u.account
		FROM duplicate_hashes d
		JOIN duplicate_hash_users u ON u.run_id = d.run_id AND u.position = d.position
		WHERE d.run_id = ?
		ORDER BY d.position, u.user_index
	`
	rows, err := r.db.Reader.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get duplicates for run %s: %w", runID, err)
	}
	defer rows.Close()

	result := []model.ReportRow{}
	lastPos := -1
	for rows.Next() {
		var pos, userCount int
		var hash, account string
		if err := rows.Scan(&pos, &hash, &userCount, &account); err != nil {
			return nil, fmt.Errorf("scan duplicate row: %w", err)
		}
		if pos != lastPos {
			result = append(result, model.ReportRow{Hash: hash, UserCount: userCount})
			lastPos = pos
		}
		last := &result[len(result)-1]
		last.Users = append(last.Users, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate duplicate rows: %w", err)
	}
	return result, nil
}

// GetDuplicatedPrivileged returns the privileged accounts flagged in a run.
func (r *AuditRepo) GetDuplicatedPrivileged(ctx context.Context, runID string) ([]string, error) {
	const query = `SELECT account FROM privileged_duplicates WHERE run_id = ? ORDER BY position`
	rows, err := r.db.Reader.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get privileged duplicates for run %s: %w", runID, err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, fmt.Errorf("scan privileged duplicate: %w", err)
		}
		result = append(result, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate privileged duplicates: %w", err)
	}
	return result, nil
}

// parseTime accepts the formats SQLite and this package write timestamps in.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
