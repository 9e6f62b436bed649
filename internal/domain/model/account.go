package model

// CredentialRecord is one parsed line of a credential dump. Names and hashes
// are lower-cased by the parser so grouping is case-insensitive.
type CredentialRecord struct {
	// Domain is nil when the account field carried no DOMAIN\ prefix.
	Domain      *string
	AccountName string
	RID         string

	// LMHash is nil when the dump marks the LM hash as absent.
	LMHash *string
	NTHash string

	// BlankPassword is set when NTHash is the hash of the empty string.
	BlankPassword     bool
	Enabled           bool
	IsComputerAccount bool
	IsPrivileged      bool
}

// QualifiedName returns "domain\account", or just the account when no domain
// is known.
func (r CredentialRecord) QualifiedName() string {
	if r.Domain == nil {
		return r.AccountName
	}
	return *r.Domain + `\` + r.AccountName
}

// AdminSet holds lower-cased privileged account names. The nil value is an
// empty set.
type AdminSet map[string]struct{}

// Contains reports whether name is a privileged account.
func (s AdminSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of privileged accounts.
func (s AdminSet) Len() int {
	return len(s)
}
