// Package csvexport writes the raw (unmasked) findings as CSV files.
package csvexport

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
	"github.com/ericfisherdev/hashaudit/internal/domain/port/driven"
)

// Output file names.
const (
	LMHashesFile        = "lm_hashes.csv"
	DuplicateHashesFile = "duplicate_hashes.csv"
)

// userSeparator joins the accounts of a duplicate row in one cell.
const userSeparator = " - "

// Compile-time interface satisfaction check.
var _ driven.ReportSink = (*Sink)(nil)

// Sink writes lm_hashes.csv and duplicate_hashes.csv into a directory.
type Sink struct {
	dir string
}

// NewSink creates a Sink writing into dir. The directory is created on write.
func NewSink(dir string) *Sink {
	return &Sink{dir: dir}
}

// Name identifies the sink.
func (s *Sink) Name() string { return "csv" }

// Write writes both CSV files.
func (s *Sink) Write(_ context.Context, report *model.Report) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create output dir %q: %w", s.dir, err)
	}

	lmRows := make([][]string, 0, len(report.LMExposures))
	for _, e := range report.LMExposures {
		lmRows = append(lmRows, []string{e.Hash, e.Account})
	}
	if err := writeFile(filepath.Join(s.dir, LMHashesFile), []string{"hash", "user"}, lmRows); err != nil {
		return err
	}

	dupRows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		dupRows = append(dupRows, []string{
			strconv.Itoa(row.UserCount),
			row.Hash,
			strings.Join(row.Users, userSeparator),
		})
	}
	return writeFile(filepath.Join(s.dir, DuplicateHashesFile), []string{"Count", "Hash", "Users"}, dupRows)
}

func writeFile(path string, header []string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
