// Package application contains the audit use cases: parsing, streaming
// accumulation, report building and export orchestration.
package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
)

const (
	// maxLineBytes bounds a single dump line; longer lines are skipped as malformed.
	maxLineBytes = 1024 * 1024
	// cancelCheckInterval is how many lines are processed between context checks.
	cancelCheckInterval = 4096
	// repeatFalsePositiveRate is the target false positive rate of the
	// repeated-account filter.
	repeatFalsePositiveRate = 0.001
	defaultExpectedAccounts = 1_000_000
)

// AuditOptions controls a single audit pass.
type AuditOptions struct {
	// IncludeDisabled extends blank-password, domain, LM and duplicate
	// analysis to disabled accounts. Disabled accounts are always counted.
	IncludeDisabled bool
	// ExpectedAccounts sizes the repeated-account filter.
	ExpectedAccounts uint
}

// RunInfo reports what the streaming pass saw besides the aggregate itself.
type RunInfo struct {
	Lines                    int
	MalformedLines           int
	PossibleRepeatedAccounts int
}

// AuditService streams a credential dump through the parser into an
// AuditStats aggregate and builds the report from it.
type AuditService struct {
	opts   AuditOptions
	logger *slog.Logger
	now    func() time.Time
}

// NewAuditService creates an AuditService. A nil logger uses slog.Default().
func NewAuditService(opts AuditOptions, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ExpectedAccounts == 0 {
		opts.ExpectedAccounts = defaultExpectedAccounts
	}
	return &AuditService{
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Run reads src one line at a time and folds every well-formed record into a
// fresh aggregate. Malformed lines are logged and skipped. On context
// cancellation the partial aggregate is dropped and the context error returned.
func (s *AuditService) Run(ctx context.Context, src io.Reader, admins model.AdminSet) (*model.AuditStats, RunInfo, error) {
	stats := model.NewAuditStats()
	seen := bloom.NewWithEstimates(s.opts.ExpectedAccounts, repeatFalsePositiveRate)

	var info RunInfo
	reader := bufio.NewReaderSize(src, maxLineBytes)

	for {
		line, oversized, readErr := readLine(reader)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, info, fmt.Errorf("read credential dump at line %d: %w", info.Lines+1, readErr)
		}
		atEOF := readErr != nil
		if atEOF && line == "" && !oversized {
			break
		}

		info.Lines++
		if info.Lines%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, info, err
			}
		}

		s.consume(line, oversized, admins, stats, seen, &info)

		if atEOF {
			break
		}
	}

	s.logger.Info("credential dump processed",
		"lines", info.Lines,
		"records", stats.Total,
		"malformed", info.MalformedLines,
		"distinct_hashes", stats.DistinctHashes(),
	)
	return stats, info, nil
}

// consume folds one dump line into stats. Blank, oversized and malformed lines
// are logged and skipped.
func (s *AuditService) consume(line string, oversized bool, admins model.AdminSet, stats *model.AuditStats, seen *bloom.BloomFilter, info *RunInfo) {
	if oversized {
		info.MalformedLines++
		err := &ParseError{Line: info.Lines, Reason: ReasonLineTooLong}
		s.logger.Warn("skipping malformed line", "line", info.Lines, "error", err)
		return
	}

	if strings.TrimSpace(line) == "" {
		s.logger.Debug("skipping blank line", "line", info.Lines)
		return
	}

	rec, err := ParseLine(line, admins)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Line = info.Lines
		}
		info.MalformedLines++
		s.logger.Warn("skipping malformed line", "line", info.Lines, "error", err)
		return
	}

	if seen.TestAndAddString(rec.QualifiedName()) {
		info.PossibleRepeatedAccounts++
		s.logger.Debug("account probably seen earlier in dump", "line", info.Lines, "account", rec.QualifiedName())
	}

	stats.Accumulate(rec, s.opts.IncludeDisabled)
}

// readLine returns the next line without its newline. A line that does not
// fit the reader's buffer is drained and reported as oversized. err is io.EOF
// on the last line.
func readLine(r *bufio.Reader) (line string, oversized bool, err error) {
	b, err := r.ReadSlice('\n')
	for errors.Is(err, bufio.ErrBufferFull) {
		oversized = true
		_, err = r.ReadSlice('\n')
	}
	if oversized {
		return "", true, err
	}
	return strings.TrimSuffix(string(b), "\n"), false, err
}

// Audit runs the streaming pass and builds the report once the input is
// exhausted. source labels the report (usually the dump path).
func (s *AuditService) Audit(ctx context.Context, source string, src io.Reader, admins model.AdminSet) (*model.Report, error) {
	stats, info, err := s.Run(ctx, src, admins)
	if err != nil {
		return nil, err
	}

	report := BuildReport(stats)
	report.Source = source
	report.GeneratedAt = s.now().UTC()
	report.IncludeDisabled = s.opts.IncludeDisabled
	report.Summary.MalformedLines = info.MalformedLines
	report.Summary.PossibleRepeatedAccounts = info.PossibleRepeatedAccounts

	if info.PossibleRepeatedAccounts > 0 {
		s.logger.Warn("dump appears to contain repeated accounts",
			"approximate_count", info.PossibleRepeatedAccounts,
		)
	}
	return &report, nil
}
