// Package htmlreport renders the audit report as a standalone HTML page.
// The report is composed as markdown, converted with goldmark and sanitized
// with bluemonday since account names come from untrusted input.
package htmlreport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
	"github.com/ericfisherdev/hashaudit/internal/domain/port/driven"
)

// OutputFile is the name of the generated page.
const OutputFile = "report.html"

const pageTitle = "Credential dump audit"

// Compile-time interface satisfaction check.
var _ driven.ReportSink = (*Sink)(nil)

// Sink writes report.html into a directory.
type Sink struct {
	dir string
}

// NewSink creates a Sink writing into dir.
func NewSink(dir string) *Sink {
	return &Sink{dir: dir}
}

// Name identifies the sink.
func (s *Sink) Name() string { return "html" }

// Write renders and writes the page.
func (s *Sink) Write(ctx context.Context, report *model.Report) (err error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create output dir %q: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, OutputFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	if err := Page(report).Render(ctx, f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

// Page returns the full HTML page component for report.
func Page(report *model.Report) templ.Component {
	return Layout(pageTitle, templ.Raw(RenderMarkdown(Markdown(report))))
}

// Markdown composes the report as GitHub-flavored markdown. Hashes are masked.
func Markdown(report *model.Report) string {
	var b strings.Builder
	s := report.Summary

	fmt.Fprintf(&b, "# %s\n\n", pageTitle)
	if report.Source != "" {
		fmt.Fprintf(&b, "Source: %s  \n", EscapeMarkdown(report.Source))
	}
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s  \n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if report.IncludeDisabled {
		b.WriteString("Disabled accounts included in hash analysis.\n")
	} else {
		b.WriteString("Disabled accounts excluded from hash analysis.\n")
	}

	b.WriteString("\n## Summary\n\n| Metric | Value |\n|---|---:|\n")
	for _, row := range []struct {
		label string
		n     int
	}{
		{"Total accounts", s.Total},
		{"Enabled accounts", s.Enabled},
		{"Disabled accounts", s.Disabled},
		{"Computer accounts", s.Computers},
		{"LM hashes", s.LMExposures},
		{"Blank passwords", s.BlankPasswords},
		{"Duplicated hashes", s.DuplicateHashes},
		{"Malformed lines skipped", s.MalformedLines},
	} {
		fmt.Fprintf(&b, "| %s | %s |\n", row.label, humanize.Comma(int64(row.n)))
	}

	b.WriteString("\n## Privileged accounts sharing a hash\n\n")
	writeList(&b, report.DuplicatedPrivileged)

	b.WriteString("\n## Domains\n\n")
	writeList(&b, report.Domains)

	b.WriteString("\n## Duplicated hashes\n\n")
	if len(report.Rows) == 0 {
		b.WriteString("None.\n")
		return b.String()
	}
	b.WriteString("| Hash | Accounts | Users |\n|---|---:|---|\n")
	for _, row := range report.Rows {
		users := make([]string, len(row.Users))
		for i, u := range row.Users {
			users[i] = EscapeMarkdown(u)
		}
		fmt.Fprintf(&b, "| `%s` | %d | %s |\n", model.MaskHash(row.Hash), row.UserCount, strings.Join(users, ", "))
	}
	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("None.\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", EscapeMarkdown(item))
	}
}
