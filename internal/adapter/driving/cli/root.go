// Package cli implements the command-line driving adapter.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/hashaudit/internal/adapter/driven/console"
	"github.com/ericfisherdev/hashaudit/internal/adapter/driven/csvexport"
	"github.com/ericfisherdev/hashaudit/internal/adapter/driven/htmlreport"
	"github.com/ericfisherdev/hashaudit/internal/adapter/driven/latex"
	sqliteadapter "github.com/ericfisherdev/hashaudit/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/hashaudit/internal/application"
	"github.com/ericfisherdev/hashaudit/internal/config"
	"github.com/ericfisherdev/hashaudit/internal/domain/model"
	"github.com/ericfisherdev/hashaudit/internal/domain/port/driven"
)

// auditFlags holds the effective settings for a run: the loaded config with
// command-line overrides applied on top.
type auditFlags struct {
	cfg          config.Config
	all          bool
	historyLimit int
}

// NewRootCommand builds the hashaudit command tree. Flag defaults come from
// cfg; the summary and history listings are written to stdout.
func NewRootCommand(cfg *config.Config, logger *slog.Logger, stdout io.Writer) *cobra.Command {
	flags := &auditFlags{cfg: *cfg}

	root := &cobra.Command{
		Use:   "hashaudit <secretsFile> [adminsFile]",
		Short: "Audit a credential dump for weak and reused password hashes",
		Long: `Reads a secretsdump-style credential dump (DOMAIN\user:rid:lm:nt:::status)
line by line and reports enabled, disabled and computer accounts, LM hashes,
blank passwords, NT hashes shared by several accounts and privileged accounts
among them. Writes lm_hashes.csv, duplicate_hashes.csv and duplicate_hashes.tex.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			adminsPath := ""
			if len(args) > 1 {
				adminsPath = args[1]
			}
			return runAudit(cmd.Context(), flags, args[0], adminsPath, logger, stdout)
		},
	}
	root.SetOut(stdout)

	root.Flags().BoolVar(&flags.all, "all", false, "include disabled accounts in blank password, domain and duplicate analysis")
	root.Flags().StringVarP(&flags.cfg.OutputDir, "out", "o", cfg.OutputDir, "directory for CSV, LaTeX and HTML output")
	root.Flags().StringVar(&flags.cfg.TexTemplatePath, "tex-template", cfg.TexTemplatePath, "LaTeX template containing "+latex.Placeholder)
	root.Flags().BoolVar(&flags.cfg.HTMLReport, "html", cfg.HTMLReport, "also write report.html")
	root.PersistentFlags().StringVar(&flags.cfg.DBPath, "db", cfg.DBPath, "SQLite database recording audit history (empty disables)")

	root.AddCommand(newHistoryCommand(flags, logger, stdout))
	return root
}

func runAudit(ctx context.Context, flags *auditFlags, dumpPath, adminsPath string, logger *slog.Logger, stdout io.Writer) error {
	cfg := &flags.cfg

	dump, err := os.Open(dumpPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", model.ErrMissingInputFile, dumpPath, err)
	}
	defer dump.Close()

	admins, err := application.LoadAdminSetFile(adminsPath)
	if err != nil {
		return err
	}
	logger.Info("admin list loaded", "path", adminsPath, "accounts", admins.Len())

	sinks := []driven.ReportSink{
		console.NewPrinter(stdout),
		csvexport.NewSink(cfg.OutputDir),
		latex.NewSink(cfg.OutputDir, cfg.TexTemplatePath),
	}
	if cfg.HTMLReport {
		sinks = append(sinks, htmlreport.NewSink(cfg.OutputDir))
	}
	if cfg.HistoryEnabled() {
		db, err := openHistory(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		sinks = append(sinks, sqliteadapter.NewAuditRepo(db, logger))
	}

	auditSvc := application.NewAuditService(application.AuditOptions{
		IncludeDisabled:  flags.all,
		ExpectedAccounts: cfg.ExpectedAccounts,
	}, logger)

	report, err := auditSvc.Audit(ctx, dumpPath, dump, admins)
	if err != nil {
		return err
	}

	return application.NewExportService(logger, sinks...).Export(ctx, report)
}

// openHistory opens the history database and applies pending migrations.
func openHistory(ctx context.Context, path string) (*sqliteadapter.DB, error) {
	db, err := sqliteadapter.NewDB(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open history database %q: %w", path, err)
	}
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
