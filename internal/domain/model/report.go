package model

import "time"

// ReportRow is one NT hash shared by two or more accounts.
type ReportRow struct {
	Hash      string
	UserCount int
	Users     []string
}

// Summary holds the headline counters of an audit run.
type Summary struct {
	Total           int
	Enabled         int
	Disabled        int
	Computers       int
	BlankPasswords  int
	LMExposures     int
	DuplicateHashes int
	DistinctHashes  int

	// MalformedLines counts skipped input lines.
	MalformedLines int
	// PossibleRepeatedAccounts is an approximate count of lines whose
	// account was probably already seen earlier in the dump.
	PossibleRepeatedAccounts int
}

// Report is the finished, read-only result of an audit handed to sinks.
type Report struct {
	Source          string
	GeneratedAt     time.Time
	IncludeDisabled bool

	Summary Summary

	// Rows are ordered by UserCount descending, then Hash ascending.
	Rows                 []ReportRow
	DuplicatedPrivileged []string
	LMExposures          []LMHashExposure
	Domains              []string
}

// AuditRun is a persisted report header as listed by the history command.
type AuditRun struct {
	ID              string
	Source          string
	GeneratedAt     time.Time
	IncludeDisabled bool
	Summary         Summary
}
