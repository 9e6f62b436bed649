// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	OutputDir        string
	DBPath           string
	TexTemplatePath  string
	HTMLReport       bool
	LogLevel         slog.Level
	ExpectedAccounts uint
}

// HistoryEnabled returns true when a history database path is configured.
func (c *Config) HistoryEnabled() bool {
	return c.DBPath != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// Values from a .env file in the working directory are applied first without
// overriding variables that are already set.
// Optional variables with defaults: HASHAUDIT_OUTPUT_DIR (.), HASHAUDIT_DB_PATH
// (empty, history disabled), HASHAUDIT_TEX_TEMPLATE (empty, built-in template),
// HASHAUDIT_HTML_REPORT (false), HASHAUDIT_LOG_LEVEL (info),
// HASHAUDIT_EXPECTED_ACCOUNTS (1000000).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	outputDir := "."
	if v, ok := os.LookupEnv("HASHAUDIT_OUTPUT_DIR"); ok && v != "" {
		outputDir = v
	}

	htmlReport := false
	if v, ok := os.LookupEnv("HASHAUDIT_HTML_REPORT"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HASHAUDIT_HTML_REPORT has invalid boolean %q: %w", v, err)
		}
		htmlReport = parsed
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("HASHAUDIT_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			return nil, fmt.Errorf("HASHAUDIT_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	expectedAccounts := uint(1_000_000)
	if v, ok := os.LookupEnv("HASHAUDIT_EXPECTED_ACCOUNTS"); ok && v != "" {
		parsed, err := strconv.ParseUint(v, 10, 0)
		if err != nil || parsed == 0 {
			return nil, fmt.Errorf("HASHAUDIT_EXPECTED_ACCOUNTS must be a positive integer, got %q", v)
		}
		expectedAccounts = uint(parsed)
	}

	return &Config{
		OutputDir:        outputDir,
		DBPath:           os.Getenv("HASHAUDIT_DB_PATH"),
		TexTemplatePath:  os.Getenv("HASHAUDIT_TEX_TEMPLATE"),
		HTMLReport:       htmlReport,
		LogLevel:         logLevel,
		ExpectedAccounts: expectedAccounts,
	}, nil
}
