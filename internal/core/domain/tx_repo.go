package domain

import "context"

type TransactionRepository interface {
	// AddTransaction stores the given tx. It fails if a tx with the same id
	// is already stored.
	AddTransaction(ctx context.Context, tx Transaction) error
	// GetTransaction returns nil if the tx is unknown.
	GetTransaction(ctx context.Context, txid string) (*Transaction, error)
	Close()
}
