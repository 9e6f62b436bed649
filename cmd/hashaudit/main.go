package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ericfisherdev/hashaudit/internal/adapter/driving/cli"
	"github.com/ericfisherdev/hashaudit/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (.env first, then environment).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. Logs go to stderr so stdout carries only the summary.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	slog.Debug("config loaded",
		"output_dir", cfg.OutputDir,
		"db_path", cfg.DBPath,
		"html_report", cfg.HTMLReport,
		"expected_accounts", cfg.ExpectedAccounts,
	)

	// 3. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Parse arguments and run.
	return cli.NewRootCommand(cfg, logger, os.Stdout).ExecuteContext(ctx)
}
