package domain

import "context"

type CoinRepository interface {
	// AddCoins stores the given coins. Coins already stored are left untouched.
	AddCoins(ctx context.Context, coins []Coin) error
	// ApplyTransaction marks the spent coins as spent by txid and stores the
	// created ones in a single atomic write.
	ApplyTransaction(ctx context.Context, txid string, spent []string, created []Coin) error
	// RevertTransaction undoes ApplyTransaction: created coins are removed and
	// coins spent by txid are marked unspent again.
	RevertTransaction(ctx context.Context, txid string, spent, created []string) error
	// GetCoins returns the coins with the given ids, skipping unknown ones.
	GetCoins(ctx context.Context, utxoIDs []string) ([]Coin, error)
	// FindUnspentCoins returns the unspent coins matching the filter.
	FindUnspentCoins(ctx context.Context, filter CoinFilter) ([]Coin, error)
	Close()
}
