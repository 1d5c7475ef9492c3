package domain

import (
	"encoding/json"

	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
)

// Coin is the storage representation of a ledger coin. Identifiers are kept in
// their canonical string encoding so that every store can index and sort them
// the same way.
type Coin struct {
	UtxoID       string
	Owner        string
	AssetID      string
	Amount       uint64
	Maturity     uint32
	BlockCreated uint32
	Spent        bool
	SpentBy      string
	CreatedAt    int64
}

func (c Coin) String() string {
	// nolint
	b, _ := json.MarshalIndent(c, "", "  ")
	return string(b)
}

func NewCoin(coin ledgerlib.Coin, createdAt int64) Coin {
	return Coin{
		UtxoID:       coin.UtxoID.String(),
		Owner:        coin.Owner.String(),
		AssetID:      coin.AssetID.String(),
		Amount:       coin.Amount,
		Maturity:     coin.Maturity,
		BlockCreated: coin.BlockCreated,
		Spent:        coin.Status == ledgerlib.CoinStatusSpent,
		CreatedAt:    createdAt,
	}
}

func (c Coin) ToLedgerCoin() (ledgerlib.Coin, error) {
	utxoID, err := ledgerlib.UtxoIDFromString(c.UtxoID)
	if err != nil {
		return ledgerlib.Coin{}, err
	}
	owner, err := ledgerlib.AddressFromString(c.Owner)
	if err != nil {
		return ledgerlib.Coin{}, err
	}
	assetID, err := ledgerlib.AssetIDFromString(c.AssetID)
	if err != nil {
		return ledgerlib.Coin{}, err
	}
	status := ledgerlib.CoinStatusUnspent
	if c.Spent {
		status = ledgerlib.CoinStatusSpent
	}
	return ledgerlib.Coin{
		UtxoID:       utxoID,
		Owner:        owner,
		Amount:       c.Amount,
		AssetID:      assetID,
		Maturity:     c.Maturity,
		BlockCreated: c.BlockCreated,
		Status:       status,
	}, nil
}

// CoinFilter selects the unspent coins of an owner in utxo id order.
// Only one of After and Before is expected to be set.
type CoinFilter struct {
	Owner   string
	AssetID *string
	// After and Before are exclusive bounds on the utxo id.
	After  *string
	Before *string
	// Descending reverses the utxo id order.
	Descending bool
	// Limit is the max number of coins returned, 0 means no limit.
	Limit int
}
