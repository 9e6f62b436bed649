package model

import (
	"fmt"
	"strings"
)

// Sentinel hash values emitted by secretsdump-style tooling.
const (
	// LMHashAbsent is written in the LM column when no LM hash is stored.
	LMHashAbsent = "aad3b435b51404eeaad3b435b51404ee"
	// NTHashEmptyPassword is the NT hash of the empty string.
	NTHashEmptyPassword = "31d6cfe0d16ae931b73c59d7e0c089c0"
)

// HashLength is the length in hex characters of both LM and NT hashes.
const HashLength = 32

const (
	maskKeep = 4
	maskFill = 14
)

// MaskHash hides the middle of a hash for human-facing output. It keeps the
// first and last four characters and puts 14 '*' in between.
// Passing anything other than a 32 character hash is a programming error.
func MaskHash(hash string) string {
	if len(hash) != HashLength {
		panic(fmt.Sprintf("model: MaskHash called with a hash of length %d", len(hash)))
	}
	return hash[:maskKeep] + strings.Repeat("*", maskFill) + hash[HashLength-maskKeep:]
}
