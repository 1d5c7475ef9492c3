package application

import (
	"time"

	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
)

type Page struct {
	// Cursor is the opaque value returned with the previous page, nil to start
	// from the first item.
	Cursor   *string
	Size     int32
	Backward bool
}

type PageResp struct {
	// Cursor is set whenever the page is not empty and points to its last item.
	Cursor      *string
	HasNextPage bool
}

type CoinsResp struct {
	Coins []ledgerlib.Coin
	Page  PageResp
}

type BalancesResp struct {
	Balances []ledgerlib.Balance
	Page     PageResp
}

type SpendQuery struct {
	AssetID ledgerlib.AssetID
	Amount  uint64
}

type ServiceInfo struct {
	NodeID           string
	Version          string
	BlockHeight      uint32
	MaxPageSize      int32
	MaxInputs        uint64
	VerifySignatures bool
}

type Config struct {
	NodeID           string
	Version          string
	MaxPageSize      int32
	MaxInputs        uint64
	VerifySignatures bool
	// GenesisCoins are added to the coin store when the service starts.
	GenesisCoins []ledgerlib.Coin
	// CompactionInterval is how often the coin store is compacted, 0 disables it.
	CompactionInterval time.Duration
}
