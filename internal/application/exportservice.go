package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
	"github.com/ericfisherdev/hashaudit/internal/domain/port/driven"
)

// ExportService hands a finished report to every configured sink.
type ExportService struct {
	sinks  []driven.ReportSink
	logger *slog.Logger
}

// NewExportService creates an ExportService over the given sinks.
func NewExportService(logger *slog.Logger, sinks ...driven.ReportSink) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{sinks: sinks, logger: logger}
}

// Export writes the report to all sinks concurrently. Every sink is attempted
// even when another fails; the returned error joins all failures and each
// one matches model.ErrSinkWrite.
func (s *ExportService) Export(ctx context.Context, report *model.Report) error {
	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	for _, sink := range s.sinks {
		g.Go(func() error {
			if err := sink.Write(ctx, report); err != nil {
				s.logger.Error("report sink failed", "sink", sink.Name(), "error", err)
				err = fmt.Errorf("%w: %s: %w", model.ErrSinkWrite, sink.Name(), err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return err
			}
			s.logger.Debug("report sink written", "sink", sink.Name())
			return nil
		})
	}

	// Wait reports only the first failure; the rest are joined from errs.
	if err := g.Wait(); err != nil {
		return errors.Join(errs...)
	}
	return nil
}
