// Package latex renders duplicate hashes as rows of a typeset table and
// splices them into a LaTeX template.
package latex

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
	"github.com/ericfisherdev/hashaudit/internal/domain/port/driven"
)

// Placeholder is the marker replaced by the generated table rows.
const Placeholder = "%%DUPLICATE_HASHES%%"

// OutputFile is the name of the rendered fragment.
const OutputFile = "duplicate_hashes.tex"

// ErrMissingPlaceholder is returned when a template has no Placeholder.
var ErrMissingPlaceholder = errors.New("latex template has no " + Placeholder + " marker")

//go:embed templates/duplicate_hashes.tex
var defaultTemplate string

// Compile-time interface satisfaction check.
var _ driven.ReportSink = (*Sink)(nil)

// Sink writes duplicate_hashes.tex into a directory.
type Sink struct {
	dir          string
	templatePath string
}

// NewSink creates a Sink. An empty templatePath uses the built-in template.
func NewSink(dir, templatePath string) *Sink {
	return &Sink{dir: dir, templatePath: templatePath}
}

// Name identifies the sink.
func (s *Sink) Name() string { return "latex" }

// Write renders the table and writes it to the output directory.
func (s *Sink) Write(_ context.Context, report *model.Report) error {
	tmpl := defaultTemplate
	if s.templatePath != "" {
		b, err := os.ReadFile(s.templatePath)
		if err != nil {
			return fmt.Errorf("read latex template: %w", err)
		}
		tmpl = string(b)
	}

	out, err := Render(tmpl, report.Rows)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create output dir %q: %w", s.dir, err)
	}
	path := filepath.Join(s.dir, OutputFile)
	if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Render replaces Placeholder in tmpl with one "<masked> & <count> \\" line
// per row.
func Render(tmpl string, rows []model.ReportRow) (string, error) {
	if !strings.Contains(tmpl, Placeholder) {
		return "", ErrMissingPlaceholder
	}
	return strings.Replace(tmpl, Placeholder, Rows(rows), 1), nil
}

// Rows returns the table body for rows. Hashes are masked.
func Rows(rows []model.ReportRow) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(model.MaskHash(row.Hash))
		b.WriteString(" & ")
		b.WriteString(strconv.Itoa(row.UserCount))
		b.WriteString(` \\`)
	}
	return b.String()
}
