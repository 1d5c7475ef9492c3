package ports

import "github.com/arkade-os/ledgerkit/internal/core/domain"

// TxStore keeps executed transactions and their receipts.
type TxStore interface {
	domain.TransactionRepository
}
