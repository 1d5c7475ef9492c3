package grpcclient

import (
	"context"
	"fmt"

	ledgerv1 "github.com/arkade-os/ledgerkit/api-spec/ledger/v1"
	"github.com/arkade-os/ledgerkit/pkg/client-lib/client"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type grpcClient struct {
	conn    *grpc.ClientConn
	svc     ledgerv1.LedgerServiceClient
	baseUrl string
}

func NewClient(serverUrl string) (client.TransportClient, error) {
	if len(serverUrl) <= 0 {
		return nil, fmt.Errorf("missing server url")
	}

	otelHandler := otelgrpc.NewClientHandler(
		otelgrpc.WithTracerProvider(otel.GetTracerProvider()),
	)
	conn, err := grpc.NewClient(
		serverUrl,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelHandler),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ledger node: %w", err)
	}

	return &grpcClient{
		conn:    conn,
		svc:     ledgerv1.NewLedgerServiceClient(conn),
		baseUrl: serverUrl,
	}, nil
}

func (c *grpcClient) NodeInfo(ctx context.Context) (*client.NodeInfo, error) {
	resp, err := c.svc.GetInfo(ctx, &ledgerv1.GetInfoRequest{})
	if err != nil {
		return nil, err
	}
	return &client.NodeInfo{
		NodeID:           resp.NodeId,
		Version:          resp.Version,
		BlockHeight:      resp.BlockHeight,
		MaxPageSize:      resp.MaxPageSize,
		MaxInputs:        resp.MaxInputs,
		VerifySignatures: resp.VerifySignatures,
	}, nil
}

func (c *grpcClient) Submit(
	ctx context.Context, tx *ledgerlib.Transaction,
) (ledgerlib.TxID, error) {
	resp, err := c.svc.SubmitTransaction(ctx, &ledgerv1.SubmitTransactionRequest{
		Transaction: ledgerv1.FromTransaction(tx),
	})
	if err != nil {
		return ledgerlib.TxID{}, err
	}
	txid, err := ledgerlib.TxIDFromString(resp.Txid)
	if err != nil {
		return ledgerlib.TxID{}, fmt.Errorf("node returned %s", err)
	}
	return txid, nil
}

func (c *grpcClient) Receipts(ctx context.Context, txid string) ([]ledgerlib.Receipt, error) {
	resp, err := c.svc.GetReceipts(ctx, &ledgerv1.GetReceiptsRequest{Txid: txid})
	if err != nil {
		return nil, err
	}
	return ledgerv1.ParseReceipts(resp.Receipts)
}

func (c *grpcClient) Coins(
	ctx context.Context, owner string, assetID *string, page client.PaginationRequest,
) (*client.PaginatedResult[ledgerlib.Coin], error) {
	resp, err := c.svc.GetCoins(ctx, &ledgerv1.GetCoinsRequest{
		Owner:   owner,
		AssetId: assetID,
		Page:    toPageRequest(page),
	})
	if err != nil {
		return nil, err
	}
	coins, err := ledgerv1.ParseCoins(resp.Coins)
	if err != nil {
		return nil, err
	}
	cursor, hasNext := fromPageResponse(resp.Page)
	return &client.PaginatedResult[ledgerlib.Coin]{
		Results:     coins,
		Cursor:      cursor,
		HasNextPage: hasNext,
	}, nil
}

func (c *grpcClient) CoinsToSpend(
	ctx context.Context, owner string, queries []client.SpendQuery,
	excludedIDs []string, maxInputs *uint64,
) ([]ledgerlib.Coin, error) {
	spendQueries := make([]*ledgerv1.SpendQuery, 0, len(queries))
	for _, q := range queries {
		spendQueries = append(spendQueries, &ledgerv1.SpendQuery{
			AssetId: q.AssetID,
			Amount:  q.Amount,
		})
	}
	resp, err := c.svc.GetCoinsToSpend(ctx, &ledgerv1.GetCoinsToSpendRequest{
		Owner:       owner,
		Queries:     spendQueries,
		ExcludedIds: excludedIDs,
		MaxInputs:   maxInputs,
	})
	if err != nil {
		return nil, err
	}
	return ledgerv1.ParseCoins(resp.Coins)
}

func (c *grpcClient) Balance(
	ctx context.Context, owner string, assetID *string,
) (uint64, error) {
	resp, err := c.svc.GetBalance(ctx, &ledgerv1.GetBalanceRequest{
		Owner:   owner,
		AssetId: assetID,
	})
	if err != nil {
		return 0, err
	}
	return resp.Amount, nil
}

func (c *grpcClient) Balances(
	ctx context.Context, owner string, page client.PaginationRequest,
) (*client.PaginatedResult[ledgerlib.Balance], error) {
	resp, err := c.svc.GetBalances(ctx, &ledgerv1.GetBalancesRequest{
		Owner: owner,
		Page:  toPageRequest(page),
	})
	if err != nil {
		return nil, err
	}
	balances, err := ledgerv1.ParseBalances(resp.Balances)
	if err != nil {
		return nil, err
	}
	cursor, hasNext := fromPageResponse(resp.Page)
	return &client.PaginatedResult[ledgerlib.Balance]{
		Results:     balances,
		Cursor:      cursor,
		HasNextPage: hasNext,
	}, nil
}

func (c *grpcClient) Transaction(
	ctx context.Context, txid string,
) (*ledgerlib.TransactionResponse, error) {
	resp, err := c.svc.GetTransaction(ctx, &ledgerv1.GetTransactionRequest{Txid: txid})
	if err != nil {
		return nil, err
	}
	if resp.Transaction == nil {
		return nil, nil
	}
	return resp.Transaction.Parse()
}

func (c *grpcClient) Close() {
	// nolint:errcheck
	c.conn.Close()
}

func toPageRequest(page client.PaginationRequest) *ledgerv1.PageRequest {
	return &ledgerv1.PageRequest{
		Cursor:    page.Cursor,
		Size:      page.Results,
		Direction: string(page.Direction),
	}
}

func fromPageResponse(page *ledgerv1.PageResponse) (*string, bool) {
	if page == nil {
		return nil, false
	}
	return page.Cursor, page.HasNextPage
}
