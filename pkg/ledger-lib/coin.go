package ledgerlib

import (
	"fmt"
	"strconv"
	"strings"
)

type CoinStatus uint8

const (
	CoinStatusUnspent CoinStatus = iota
	CoinStatusSpent
)

func (s CoinStatus) String() string {
	switch s {
	case CoinStatusUnspent:
		return "unspent"
	case CoinStatusSpent:
		return "spent"
	default:
		return "unknown"
	}
}

// UtxoID references the output of a transaction that created a coin.
type UtxoID struct {
	TxID        TxID
	OutputIndex uint8
}

func (u UtxoID) String() string {
	return fmt.Sprintf("%s:%d", u.TxID, u.OutputIndex)
}

// UtxoIDFromString parses the <txid>:<index> encoding returned by UtxoID.String.
func UtxoIDFromString(s string) (UtxoID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return UtxoID{}, fmt.Errorf("invalid utxo id string: %s", s)
	}
	txid, err := TxIDFromString(parts[0])
	if err != nil {
		return UtxoID{}, err
	}
	index, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return UtxoID{}, fmt.Errorf("invalid output index string: %s", parts[1])
	}
	return UtxoID{TxID: txid, OutputIndex: uint8(index)}, nil
}

// Coin is an unspent output of value for one asset, owned by one address.
type Coin struct {
	UtxoID
	Owner        Address
	Amount       uint64
	AssetID      AssetID
	Maturity     uint32
	BlockCreated uint32
	Status       CoinStatus
}

// Balance is the sum of the spendable coins of one asset.
type Balance struct {
	AssetID AssetID
	Amount  uint64
}

// SumCoins returns the total amount of the given coins per asset.
func SumCoins(coins []Coin) map[AssetID]uint64 {
	totals := make(map[AssetID]uint64)
	for _, c := range coins {
		totals[c.AssetID] += c.Amount
	}
	return totals
}
