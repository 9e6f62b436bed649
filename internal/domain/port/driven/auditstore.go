package driven

import (
	"context"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
)

// AuditStore defines the driven port for audit history persistence.
type AuditStore interface {
	// SaveReport persists the summary, duplicate rows and duplicated
	// privileged accounts of a report and returns the new run ID.
	SaveReport(ctx context.Context, report *model.Report) (string, error)

	// ListRuns returns the most recent runs, newest first. A limit <= 0
	// returns every run.
	ListRuns(ctx context.Context, limit int) ([]model.AuditRun, error)

	// GetDuplicates returns the duplicate rows stored for a run in report
	// order. Returns an empty slice for an unknown run ID.
	GetDuplicates(ctx context.Context, runID string) ([]model.ReportRow, error)

	// GetDuplicatedPrivileged returns the privileged accounts flagged in a run.
	GetDuplicatedPrivileged(ctx context.Context, runID string) ([]string, error)
}
