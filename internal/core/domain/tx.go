package domain

import (
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
)

// Transaction is an executed ledger transaction along with its receipts.
type Transaction struct {
	Txid        string
	Tx          ledgerlib.Transaction
	Receipts    []ledgerlib.Receipt
	Status      ledgerlib.TransactionStatus
	BlockHeight uint32
	Timestamp   int64
}
