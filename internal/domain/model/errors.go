package model

import "errors"

var (
	// ErrMalformedLine marks a dump line that failed structural validation.
	// Such lines are skipped, never fatal.
	ErrMalformedLine = errors.New("malformed line")

	// ErrMissingInputFile is returned when the credential dump cannot be opened.
	ErrMissingInputFile = errors.New("credential dump not found or unreadable")

	// ErrSinkWrite wraps any failure to deliver part of the report.
	ErrSinkWrite = errors.New("report sink write failed")

	// ErrHistoryDisabled is returned by history operations when no database
	// path has been configured.
	ErrHistoryDisabled = errors.New("audit history disabled: set HASHAUDIT_DB_PATH or --db")
)
