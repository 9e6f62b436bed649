package cli

import (
	"context"

	sqliteadapter "github.com/ericfisherdev/hashaudit/internal/adapter/driven/sqlite"
)

func listRunIDs(db *sqliteadapter.DB) ([]string, error) {
	runs, err := sqliteadapter.NewAuditRepo(db, discardLogger()).ListRuns(context.Background(), 0)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(runs))
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	return ids, nil
}
