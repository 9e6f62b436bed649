package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/hashaudit/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/hashaudit/internal/domain/model"
	"github.com/ericfisherdev/hashaudit/internal/domain/port/driven"
)

func newHistoryCommand(flags *auditFlags, logger *slog.Logger, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded audit runs, or show the duplicated hashes of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.cfg.HistoryEnabled() {
				return model.ErrHistoryDisabled
			}

			db, err := openHistory(cmd.Context(), flags.cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := db.Close(); closeErr != nil {
					logger.Error("error closing database", "error", closeErr)
				}
			}()
			store := sqliteadapter.NewAuditRepo(db, logger)

			if len(args) == 1 {
				return showRun(cmd.Context(), store, args[0], stdout)
			}
			return listRuns(cmd.Context(), store, flags.historyLimit, stdout)
		},
	}
	cmd.Flags().IntVarP(&flags.historyLimit, "limit", "n", 20, "number of runs to list (0 lists all)")
	return cmd
}

func listRuns(ctx context.Context, store driven.AuditStore, limit int, w io.Writer) error {
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no audit runs recorded")
		return err
	}

	t := table.New().Headers("Run", "When", "Source", "Accounts", "Blank", "LM", "Duplicated", "Scope")
	for _, run := range runs {
		scope := "enabled"
		if run.IncludeDisabled {
			scope = "all"
		}
		t.Row(
			run.ID,
			humanize.Time(run.GeneratedAt),
			run.Source,
			humanize.Comma(int64(run.Summary.Total)),
			strconv.Itoa(run.Summary.BlankPasswords),
			strconv.Itoa(run.Summary.LMExposures),
			strconv.Itoa(run.Summary.DuplicateHashes),
			scope,
		)
	}
	_, err = fmt.Fprintln(w, t.Render())
	return err
}

func showRun(ctx context.Context, store driven.AuditStore, runID string, w io.Writer) error {
	rows, err := store.GetDuplicates(ctx, runID)
	if err != nil {
		return err
	}
	privileged, err := store.GetDuplicatedPrivileged(ctx, runID)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintf(w, "run %s: no duplicated hashes recorded\n", runID)
		return err
	}

	t := table.New().Headers("Hash", "Accounts", "Users")
	for _, row := range rows {
		t.Row(model.MaskHash(row.Hash), strconv.Itoa(row.UserCount), strings.Join(row.Users, ", "))
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	if len(privileged) > 0 {
		if _, err := fmt.Fprintf(w, "privileged accounts sharing a hash: %s\n", strings.Join(privileged, ", ")); err != nil {
			return err
		}
	}
	return nil
}
