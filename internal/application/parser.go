package application

import (
	"fmt"
	"strings"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
)

const (
	fieldAccount = 0
	fieldRID     = 1
	fieldLM      = 2
	fieldNT      = 3
	fieldStatus  = 6
	minFields    = 7

	upnSeparator    = `\`
	computerTrailer = "$"
	enabledMarker   = "Enabled"
)

// Parse failure reasons.
const (
	ReasonMissingDelimiter = "missing delimiter"
	ReasonInvalidShape     = "field count or hash length invalid"
	ReasonLineTooLong      = "line exceeds maximum length"
)

// ParseError describes a dump line that could not be parsed.
// It unwraps to model.ErrMalformedLine.
type ParseError struct {
	Line   int
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, model.ErrMalformedLine, e.Reason)
	}
	return fmt.Sprintf("%s: %s", model.ErrMalformedLine, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return model.ErrMalformedLine
}

// ParseLine turns one dump line of the form
//
//	DOMAIN\account:rid:lmhash:nthash:...:...:status
//
// into a CredentialRecord. It has no side effects; line numbers are attached
// by the caller.
func ParseLine(raw string, admins model.AdminSet) (model.CredentialRecord, error) {
	line := strings.TrimRight(raw, "\r\n")
	if !strings.Contains(line, ":") {
		return model.CredentialRecord{}, &ParseError{Reason: ReasonMissingDelimiter, Raw: raw}
	}

	fields := strings.Split(line, ":")
	if len(fields) < minFields || !isHexHash(fields[fieldNT]) {
		return model.CredentialRecord{}, &ParseError{Reason: ReasonInvalidShape, Raw: raw}
	}
	if lm := fields[fieldLM]; lm != "" && !isHexHash(lm) {
		return model.CredentialRecord{}, &ParseError{Reason: ReasonInvalidShape, Raw: raw}
	}

	var domain *string
	account := fields[fieldAccount]
	if d, a, ok := strings.Cut(account, upnSeparator); ok {
		d = strings.ToLower(d)
		domain = &d
		account = a
	}
	account = strings.ToLower(account)
	if account == "" {
		return model.CredentialRecord{}, &ParseError{Reason: ReasonInvalidShape, Raw: raw}
	}

	ntHash := strings.ToLower(fields[fieldNT])

	var lmHash *string
	if lm := strings.ToLower(fields[fieldLM]); lm != "" && lm != model.LMHashAbsent {
		lmHash = &lm
	}

	return model.CredentialRecord{
		Domain:            domain,
		AccountName:       account,
		RID:               fields[fieldRID],
		LMHash:            lmHash,
		NTHash:            ntHash,
		BlankPassword:     ntHash == model.NTHashEmptyPassword,
		Enabled:           strings.Contains(fields[fieldStatus], enabledMarker),
		IsComputerAccount: strings.Contains(account, computerTrailer),
		IsPrivileged:      admins.Contains(account),
	}, nil
}

// isHexHash reports whether s is exactly model.HashLength ASCII hex digits.
// Lower-casing such a string keeps its length.
func isHexHash(s string) bool {
	if len(s) != model.HashLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
