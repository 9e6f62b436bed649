package model

// LMHashExposure records an account that still stores a legacy LM hash.
type LMHashExposure struct {
	Hash    string
	Account string
}

// AuditStats is the running aggregate of a single audit pass. It has exactly
// one writer while the dump is streamed and is read-only afterwards.
// Memory grows with distinct hashes and accounts, never with raw input size.
type AuditStats struct {
	Total          int
	Enabled        int
	Disabled       int
	Computers      int
	BlankPasswords int

	Domains     []string
	LMExposures []LMHashExposure

	domainSet map[string]struct{}

	// ntIndex maps an NT hash to the accounts that use it, in arrival order.
	ntIndex map[string][]string

	privileged      map[string]string
	privilegedOrder []string
}

// NewAuditStats returns an empty aggregate ready for Accumulate.
func NewAuditStats() *AuditStats {
	return &AuditStats{
		Domains:     []string{},
		LMExposures: []LMHashExposure{},
		domainSet:   make(map[string]struct{}),
		ntIndex:     make(map[string][]string),
		privileged:  make(map[string]string),
	}
}

// Accumulate folds one record into the aggregate. Disabled accounts are
// always counted; unless includeDisabled is set they are left out of the
// blank-password, domain, hash index and privileged-hash analysis.
func (s *AuditStats) Accumulate(rec CredentialRecord, includeDisabled bool) {
	s.Total++
	if rec.Enabled {
		s.Enabled++
	} else {
		s.Disabled++
	}

	if rec.IsComputerAccount {
		s.Computers++
	}

	if !includeDisabled && !rec.Enabled {
		return
	}

	if rec.BlankPassword {
		s.BlankPasswords++
	}

	if rec.Domain != nil {
		s.addDomain(*rec.Domain)
	}

	s.ntIndex[rec.NTHash] = append(s.ntIndex[rec.NTHash], rec.AccountName)

	if rec.LMHash != nil {
		s.LMExposures = append(s.LMExposures, LMHashExposure{Hash: *rec.LMHash, Account: rec.AccountName})
	}

	if rec.IsPrivileged {
		s.setPrivileged(rec.AccountName, rec.NTHash)
	}
}

// Merge folds a partial aggregate built from a later chunk of the same input
// into s. Counters add, domains and privileged keys keep first-seen order,
// hash buckets append other's accounts after s's.
func (s *AuditStats) Merge(other *AuditStats) {
	s.Total += other.Total
	s.Enabled += other.Enabled
	s.Disabled += other.Disabled
	s.Computers += other.Computers
	s.BlankPasswords += other.BlankPasswords

	for _, d := range other.Domains {
		s.addDomain(d)
	}
	s.LMExposures = append(s.LMExposures, other.LMExposures...)

	for hash, users := range other.ntIndex {
		s.ntIndex[hash] = append(s.ntIndex[hash], users...)
	}

	for _, account := range other.privilegedOrder {
		s.setPrivileged(account, other.privileged[account])
	}
}

// Accounts returns the accounts that share the given NT hash. The returned
// slice must not be modified.
func (s *AuditStats) Accounts(ntHash string) []string {
	return s.ntIndex[ntHash]
}

// DistinctHashes returns the number of distinct NT hashes indexed.
func (s *AuditStats) DistinctHashes() int {
	return len(s.ntIndex)
}

// EachHash calls fn for every indexed NT hash. Iteration order is unspecified.
func (s *AuditStats) EachHash(fn func(hash string, accounts []string)) {
	for hash, accounts := range s.ntIndex {
		fn(hash, accounts)
	}
}

// EachPrivileged calls fn for every privileged account with its NT hash, in
// the order the accounts were first seen.
func (s *AuditStats) EachPrivileged(fn func(account, ntHash string)) {
	for _, account := range s.privilegedOrder {
		fn(account, s.privileged[account])
	}
}

func (s *AuditStats) addDomain(domain string) {
	if _, ok := s.domainSet[domain]; ok {
		return
	}
	s.domainSet[domain] = struct{}{}
	s.Domains = append(s.Domains, domain)
}

// setPrivileged records the hash for account. A repeated account keeps its
// original position and takes the latest hash.
func (s *AuditStats) setPrivileged(account, ntHash string) {
	if _, ok := s.privileged[account]; !ok {
		s.privilegedOrder = append(s.privilegedOrder, account)
	}
	s.privileged[account] = ntHash
}
