package application

import (
	"cmp"
	"slices"

	"github.com/ericfisherdev/hashaudit/internal/domain/model"
)

// BuildReport derives the duplicate-hash rows and the duplicated privileged
// accounts from a finished aggregate. It only reads stats.
//
// Rows are ordered by number of accounts descending so the most reused
// password comes first; ties are broken by hash ascending.
func BuildReport(stats *model.AuditStats) model.Report {
	rows := make([]model.ReportRow, 0)
	duplicated := make(map[string]struct{})

	stats.EachHash(func(hash string, accounts []string) {
		if len(accounts) < 2 {
			return
		}
		rows = append(rows, model.ReportRow{
			Hash:      hash,
			UserCount: len(accounts),
			Users:     slices.Clone(accounts),
		})
		duplicated[hash] = struct{}{}
	})

	slices.SortFunc(rows, func(a, b model.ReportRow) int {
		if c := cmp.Compare(b.UserCount, a.UserCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Hash, b.Hash)
	})

	privileged := make([]string, 0)
	stats.EachPrivileged(func(account, ntHash string) {
		if _, ok := duplicated[ntHash]; ok {
			privileged = append(privileged, account)
		}
	})

	return model.Report{
		Summary: model.Summary{
			Total:           stats.Total,
			Enabled:         stats.Enabled,
			Disabled:        stats.Disabled,
			Computers:       stats.Computers,
			BlankPasswords:  stats.BlankPasswords,
			LMExposures:     len(stats.LMExposures),
			DuplicateHashes: len(rows),
			DistinctHashes:  stats.DistinctHashes(),
		},
		Rows:                 rows,
		DuplicatedPrivileged: privileged,
		LMExposures:          slices.Clone(stats.LMExposures),
		Domains:              slices.Clone(stats.Domains),
	}
}
