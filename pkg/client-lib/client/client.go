package client

import (
	"context"

	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
)

type PageDirection string

const (
	Forward  PageDirection = "forward"
	Backward PageDirection = "backward"
)

// TransportClient is the request/response api exposed by a ledger node.
// Addresses and asset ids are passed in their canonical string encoding.
type TransportClient interface {
	NodeInfo(ctx context.Context) (*NodeInfo, error)
	Submit(ctx context.Context, tx *ledgerlib.Transaction) (ledgerlib.TxID, error)
	Receipts(ctx context.Context, txid string) ([]ledgerlib.Receipt, error)
	Coins(
		ctx context.Context, owner string, assetID *string, page PaginationRequest,
	) (*PaginatedResult[ledgerlib.Coin], error)
	CoinsToSpend(
		ctx context.Context, owner string, queries []SpendQuery,
		excludedIDs []string, maxInputs *uint64,
	) ([]ledgerlib.Coin, error)
	Balance(ctx context.Context, owner string, assetID *string) (uint64, error)
	Balances(
		ctx context.Context, owner string, page PaginationRequest,
	) (*PaginatedResult[ledgerlib.Balance], error)
	// Transaction returns nil if the node does not know the tx.
	Transaction(ctx context.Context, txid string) (*ledgerlib.TransactionResponse, error)
	Close()
}

type PaginationRequest struct {
	// Cursor is the one returned with the previous page, nil to start from the
	// beginning.
	Cursor    *string
	Results   int32
	Direction PageDirection
}

type PaginatedResult[T any] struct {
	Results     []T
	Cursor      *string
	HasNextPage bool
}

type SpendQuery struct {
	AssetID string
	Amount  uint64
}

type NodeInfo struct {
	NodeID           string
	Version          string
	BlockHeight      uint32
	MaxPageSize      int32
	MaxInputs        uint64
	VerifySignatures bool
}
