// Package sheets defines the ports for exporting ledger entries to an
// external spreadsheet.
package sheets

import (
	"context"

	"budgeteer/internal/core"
)

// LedgerWriter appends a transaction row to the external ledger sheet and
// returns a reference to the written row.
type LedgerWriter interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
