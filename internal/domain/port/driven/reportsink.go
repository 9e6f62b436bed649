package driven

import (
	"context"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
)

// ReportSink defines the driven port for delivering a finished report.
// Sinks only read the report; several may run concurrently on the same value.
type ReportSink interface {
	// Name identifies the sink in logs and errors ("csv", "latex", ...).
	Name() string

	// Write delivers the report. A failure leaves the report untouched.
	Write(ctx context.Context, report *model.Report) error
}
