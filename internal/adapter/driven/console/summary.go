// Package console prints the human-readable audit summary.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
	"github.com/ericfisherdev/hashaudit/internal/domain/port/driven"
)

// Colors used for the summary.
var (
	colorTitle   = lipgloss.Color("#2196F3")
	colorWarning = lipgloss.Color("#FFC107")
	colorDanger  = lipgloss.Color("#e53935")
	colorMuted   = lipgloss.Color("#8a8f98")
)

// Compile-time interface satisfaction check.
var _ driven.ReportSink = (*Printer)(nil)

// Printer writes the summary to w. Colors are dropped automatically when w
// is not a terminal.
type Printer struct {
	w io.Writer

	title   lipgloss.Style
	label   lipgloss.Style
	warning lipgloss.Style
	danger  lipgloss.Style
	muted   lipgloss.Style
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(colorTitle),
		label:   r.NewStyle().Width(36),
		warning: r.NewStyle().Foreground(colorWarning),
		danger:  r.NewStyle().Bold(true).Foreground(colorDanger),
		muted:   r.NewStyle().Foreground(colorMuted),
	}
}

// Name identifies the sink.
func (p *Printer) Name() string { return "console" }

// Write prints the summary.
func (p *Printer) Write(_ context.Context, report *model.Report) error {
	var b strings.Builder
	s := report.Summary

	b.WriteString(p.title.Render("Credential dump audit"))
	b.WriteByte('\n')
	if report.Source != "" {
		b.WriteString(p.muted.Render(report.Source))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	p.line(&b, "Total accounts", s.Total, nil)
	p.line(&b, "Enabled accounts", s.Enabled, nil)
	p.line(&b, "Disabled accounts", s.Disabled, nil)
	p.line(&b, "Computer accounts", s.Computers, nil)
	p.line(&b, "LM hashes", s.LMExposures, &p.danger)
	p.line(&b, "Blank passwords", s.BlankPasswords, &p.danger)
	p.line(&b, "Duplicated hashes", s.DuplicateHashes, &p.warning)
	if s.MalformedLines > 0 {
		p.line(&b, "Malformed lines skipped", s.MalformedLines, &p.warning)
	}
	if s.PossibleRepeatedAccounts > 0 {
		p.line(&b, "Possible repeated accounts", s.PossibleRepeatedAccounts, &p.warning)
	}
	if !report.IncludeDisabled {
		b.WriteString(p.muted.Render("(disabled accounts excluded from hash analysis, use --all to include)"))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(p.label.Render("Privileged accounts sharing a hash"))
	if len(report.DuplicatedPrivileged) == 0 {
		b.WriteString(p.muted.Render("none"))
	} else {
		b.WriteString(p.danger.Render(strings.Join(report.DuplicatedPrivileged, ", ")))
	}
	b.WriteByte('\n')

	b.WriteString(p.label.Render("Domains"))
	if len(report.Domains) == 0 {
		b.WriteString(p.muted.Render("none"))
	} else {
		b.WriteString(strings.Join(report.Domains, ", "))
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(p.w, b.String()); err != nil {
		return fmt.Errorf("write console summary: %w", err)
	}
	return nil
}

// line writes one counter. highlight is applied only to non-zero values.
func (p *Printer) line(b *strings.Builder, label string, n int, highlight *lipgloss.Style) {
	value := humanize.Comma(int64(n))
	if highlight != nil && n > 0 {
		value = highlight.Render(value)
	}
	b.WriteString(p.label.Render(label))
	b.WriteString(value)
	b.WriteByte('\n')
}
