package ledgersdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/arkade-os/ledgerkit/pkg/client-lib/client"
	grpcclient "github.com/arkade-os/ledgerkit/pkg/client-lib/client/grpc"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
)

const (
	coinsPageSize           = 100
	defaultBalancesPageSize = 9999
)

var ErrTransactionNotFound = errors.New("transaction not found")

// ReceiptsUnknownError is returned by SendTransaction when the node accepted
// the tx but fetching its receipts failed. The tx may already be executed.
type ReceiptsUnknownError struct {
	TxID ledgerlib.TxID
	Err  error
}

func (e *ReceiptsUnknownError) Error() string {
	return fmt.Sprintf("tx %s submitted but failed to get receipts: %s", e.TxID, e.Err)
}

func (e *ReceiptsUnknownError) Unwrap() error {
	return e.Err
}

// Provider resolves pagination and typed results on top of a ledger node
// transport client. It holds no state other than the client, so a single
// instance can be shared by any number of wallets and goroutines.
type Provider struct {
	client           client.TransportClient
	balancesPageSize int32
}

func NewProvider(transportClient client.TransportClient, opts ...ProviderOption) *Provider {
	p := &Provider{
		client:           transportClient,
		balancesPageSize: defaultBalancesPageSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Connect returns a provider bound to the ledger node listening at serverUrl.
func Connect(serverUrl string, opts ...ProviderOption) (*Provider, error) {
	transportClient, err := grpcclient.NewClient(serverUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to setup transport client: %s", err)
	}
	return NewProvider(transportClient, opts...), nil
}

func (p *Provider) Client() client.TransportClient {
	return p.client
}

func (p *Provider) Close() {
	p.client.Close()
}

func (p *Provider) NodeInfo(ctx context.Context) (*client.NodeInfo, error) {
	return p.client.NodeInfo(ctx)
}

// GetCoins returns all the coins owned by the given address. Pages are fetched
// until the node returns an empty one.
func (p *Provider) GetCoins(ctx context.Context, from ledgerlib.Address) ([]ledgerlib.Coin, error) {
	coins := make([]ledgerlib.Coin, 0)
	var cursor *string
	for {
		page, err := p.client.Coins(ctx, from.String(), nil, client.PaginationRequest{
			Cursor:    cursor,
			Results:   coinsPageSize,
			Direction: client.Forward,
		})
		if err != nil {
			return nil, err
		}
		if len(page.Results) <= 0 {
			break
		}
		coins = append(coins, page.Results...)
		cursor = page.Cursor
	}
	return coins, nil
}

// GetSpendableCoins asks the node to select coins of the given asset owned by
// the address and whose sum covers the amount. A zero amount is covered by no
// coin, so the result is empty even when the address owns coins of the asset.
func (p *Provider) GetSpendableCoins(
	ctx context.Context, from ledgerlib.Address, assetID ledgerlib.AssetID, amount uint64,
) ([]ledgerlib.Coin, error) {
	return p.client.CoinsToSpend(
		ctx, from.String(),
		[]client.SpendQuery{{AssetID: assetID.String(), Amount: amount}},
		nil, nil,
	)
}

func (p *Provider) GetAssetBalance(
	ctx context.Context, address ledgerlib.Address, assetID ledgerlib.AssetID,
) (uint64, error) {
	asset := assetID.String()
	return p.client.Balance(ctx, address.String(), &asset)
}

// GetBalances returns the balance of every asset owned by the address with a
// single request. Assets beyond the configured page size are not returned, use
// GetAllBalances to walk every page.
func (p *Provider) GetBalances(
	ctx context.Context, address ledgerlib.Address,
) ([]ledgerlib.Balance, error) {
	page, err := p.client.Balances(ctx, address.String(), client.PaginationRequest{
		Results:   p.balancesPageSize,
		Direction: client.Forward,
	})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (p *Provider) GetAllBalances(
	ctx context.Context, address ledgerlib.Address,
) ([]ledgerlib.Balance, error) {
	balances := make([]ledgerlib.Balance, 0)
	var cursor *string
	for {
		page, err := p.client.Balances(ctx, address.String(), client.PaginationRequest{
			Cursor:    cursor,
			Results:   p.balancesPageSize,
			Direction: client.Forward,
		})
		if err != nil {
			return nil, err
		}
		if len(page.Results) <= 0 {
			break
		}
		balances = append(balances, page.Results...)
		cursor = page.Cursor
	}
	return balances, nil
}

// SendTransaction submits the tx and returns the receipts of its execution.
func (p *Provider) SendTransaction(
	ctx context.Context, tx *ledgerlib.Transaction,
) ([]ledgerlib.Receipt, error) {
	txid, err := p.client.Submit(ctx, tx)
	if err != nil {
		return nil, err
	}
	receipts, err := p.client.Receipts(ctx, txid.String())
	if err != nil {
		return nil, &ReceiptsUnknownError{TxID: txid, Err: err}
	}
	return receipts, nil
}

func (p *Provider) GetTransactionByID(
	ctx context.Context, txid string,
) (*ledgerlib.TransactionResponse, error) {
	tx, err := p.client.Transaction(ctx, txid)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}

// BuildTransferTx returns a tx moving value only through its inputs and
// outputs. The tx has no witnesses, the caller signs it afterwards.
func (p *Provider) BuildTransferTx(
	inputs []ledgerlib.Input, outputs []ledgerlib.Output, params ledgerlib.TxParameters,
) *ledgerlib.Transaction {
	return BuildTransferTx(inputs, outputs, params)
}

func BuildTransferTx(
	inputs []ledgerlib.Input, outputs []ledgerlib.Output, params ledgerlib.TxParameters,
) *ledgerlib.Transaction {
	return &ledgerlib.Transaction{
		TxParameters: params,
		Script:       ledgerlib.NoopScript(),
		ScriptData:   []byte{},
		Inputs:       append([]ledgerlib.Input{}, inputs...),
		Outputs:      append([]ledgerlib.Output{}, outputs...),
		Witnesses:    []ledgerlib.Witness{},
	}
}
