package ledgersdk_test

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	ledgersdk "github.com/arkade-os/ledgerkit/pkg/client-lib"
	"github.com/arkade-os/ledgerkit/pkg/client-lib/client"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) NodeInfo(ctx context.Context) (*client.NodeInfo, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*client.NodeInfo)
	return res, args.Error(1)
}

func (m *mockTransport) Submit(
	ctx context.Context, tx *ledgerlib.Transaction,
) (ledgerlib.TxID, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(ledgerlib.TxID), args.Error(1)
}

func (m *mockTransport) Receipts(ctx context.Context, txid string) ([]ledgerlib.Receipt, error) {
	args := m.Called(ctx, txid)
	res, _ := args.Get(0).([]ledgerlib.Receipt)
	return res, args.Error(1)
}

func (m *mockTransport) Coins(
	ctx context.Context, owner string, assetID *string, page client.PaginationRequest,
) (*client.PaginatedResult[ledgerlib.Coin], error) {
	args := m.Called(ctx, owner, assetID, page)
	res, _ := args.Get(0).(*client.PaginatedResult[ledgerlib.Coin])
	return res, args.Error(1)
}

func (m *mockTransport) CoinsToSpend(
	ctx context.Context, owner string, queries []client.SpendQuery,
	excludedIDs []string, maxInputs *uint64,
) ([]ledgerlib.Coin, error) {
	args := m.Called(ctx, owner, queries, excludedIDs, maxInputs)
	res, _ := args.Get(0).([]ledgerlib.Coin)
	return res, args.Error(1)
}

func (m *mockTransport) Balance(
	ctx context.Context, owner string, assetID *string,
) (uint64, error) {
	args := m.Called(ctx, owner, assetID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTransport) Balances(
	ctx context.Context, owner string, page client.PaginationRequest,
) (*client.PaginatedResult[ledgerlib.Balance], error) {
	args := m.Called(ctx, owner, page)
	res, _ := args.Get(0).(*client.PaginatedResult[ledgerlib.Balance])
	return res, args.Error(1)
}

func (m *mockTransport) Transaction(
	ctx context.Context, txid string,
) (*ledgerlib.TransactionResponse, error) {
	args := m.Called(ctx, txid)
	res, _ := args.Get(0).(*ledgerlib.TransactionResponse)
	return res, args.Error(1)
}

func (m *mockTransport) Close() {
	m.Called()
}

var (
	ctx        = context.Background()
	owner      = ledgerlib.Address{0x01}
	otherAsset = ledgerlib.AssetID{0x02}
)

func TestGetCoins(t *testing.T) {
	tests := []struct {
		name     string
		numCoins int
		numPages int
	}{
		{name: "no coins", numCoins: 0, numPages: 0},
		{name: "single page", numCoins: 42, numPages: 1},
		{name: "full page", numCoins: 100, numPages: 1},
		{name: "many pages", numCoins: 250, numPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coins := randomCoins(t, tt.numCoins)
			transport := &mockTransport{}
			expectCoinPages(transport, coins)

			got, err := ledgersdk.NewProvider(transport).GetCoins(ctx, owner)
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Equal(t, coins, got)
			// one extra round-trip for the final empty page
			transport.AssertNumberOfCalls(t, "Coins", tt.numPages+1)
		})
	}

	t.Run("fails on page error", func(t *testing.T) {
		cursor := "c0"
		transport := &mockTransport{}
		transport.On("Coins", mock.Anything, owner.String(), (*string)(nil), client.PaginationRequest{
			Results: 100, Direction: client.Forward,
		}).Return(&client.PaginatedResult[ledgerlib.Coin]{
			Results: randomCoins(t, 100), Cursor: &cursor, HasNextPage: true,
		}, nil).Once()

		transportErr := fmt.Errorf("connection reset")
		transport.On("Coins", mock.Anything, owner.String(), (*string)(nil), client.PaginationRequest{
			Cursor: &cursor, Results: 100, Direction: client.Forward,
		}).Return(nil, transportErr).Once()

		got, err := ledgersdk.NewProvider(transport).GetCoins(ctx, owner)
		require.ErrorIs(t, err, transportErr)
		require.Nil(t, got)
		transport.AssertExpectations(t)
	})
}

func TestGetCoinsTermination(t *testing.T) {
	firstPage := client.PaginationRequest{Results: 100, Direction: client.Forward}

	t.Run("empty page with cursor", func(t *testing.T) {
		coins := randomCoins(t, 10)
		cursor, nextCursor := "c0", "c1"
		transport := &mockTransport{}
		transport.On("Coins", mock.Anything, owner.String(), (*string)(nil), firstPage).
			Return(&client.PaginatedResult[ledgerlib.Coin]{
				Results: coins, Cursor: &cursor, HasNextPage: true,
			}, nil).Once()
		transport.On("Coins", mock.Anything, owner.String(), (*string)(nil), client.PaginationRequest{
			Cursor: &cursor, Results: 100, Direction: client.Forward,
		}).Return(&client.PaginatedResult[ledgerlib.Coin]{
			Results: []ledgerlib.Coin{}, Cursor: &nextCursor, HasNextPage: true,
		}, nil).Once()

		got, err := ledgersdk.NewProvider(transport).GetCoins(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, coins, got)
		transport.AssertExpectations(t)
		transport.AssertNumberOfCalls(t, "Coins", 2)
	})

	t.Run("non empty page without cursor", func(t *testing.T) {
		coins := randomCoins(t, 10)
		transport := &mockTransport{}
		transport.On("Coins", mock.Anything, owner.String(), (*string)(nil), firstPage).
			Return(&client.PaginatedResult[ledgerlib.Coin]{Results: coins}, nil).Once()
		transport.On("Coins", mock.Anything, owner.String(), (*string)(nil), firstPage).
			Return(&client.PaginatedResult[ledgerlib.Coin]{Results: []ledgerlib.Coin{}}, nil).Once()

		got, err := ledgersdk.NewProvider(transport).GetCoins(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, coins, got)
		transport.AssertExpectations(t)
		transport.AssertNumberOfCalls(t, "Coins", 2)
	})

	t.Run("has next page is ignored", func(t *testing.T) {
		coins := randomCoins(t, 5)
		cursor := "c0"
		transport := &mockTransport{}
		transport.On("Coins", mock.Anything, owner.String(), (*string)(nil), firstPage).
			Return(&client.PaginatedResult[ledgerlib.Coin]{
				Results: coins, Cursor: &cursor, HasNextPage: false,
			}, nil).Once()
		transport.On("Coins", mock.Anything, owner.String(), (*string)(nil), client.PaginationRequest{
			Cursor: &cursor, Results: 100, Direction: client.Forward,
		}).Return(&client.PaginatedResult[ledgerlib.Coin]{}, nil).Once()

		got, err := ledgersdk.NewProvider(transport).GetCoins(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, coins, got)
		transport.AssertExpectations(t)
	})
}

func TestGetSpendableCoins(t *testing.T) {
	coins := randomCoins(t, 2)
	transport := &mockTransport{}
	transport.On(
		"CoinsToSpend", mock.Anything, owner.String(),
		[]client.SpendQuery{{AssetID: ledgerlib.BaseAssetID.String(), Amount: 150}},
		[]string(nil), (*uint64)(nil),
	).Return(coins, nil).Once()

	got, err := ledgersdk.NewProvider(transport).GetSpendableCoins(
		ctx, owner, ledgerlib.BaseAssetID, 150,
	)
	require.NoError(t, err)
	require.Equal(t, coins, got)
	transport.AssertExpectations(t)

	t.Run("insufficient funds", func(t *testing.T) {
		transport := &mockTransport{}
		nodeErr := fmt.Errorf("INSUFFICIENT_FUNDS")
		transport.On(
			"CoinsToSpend", mock.Anything, owner.String(), mock.Anything, mock.Anything, mock.Anything,
		).Return(nil, nodeErr).Once()

		got, err := ledgersdk.NewProvider(transport).GetSpendableCoins(
			ctx, owner, otherAsset, 1_000,
		)
		require.ErrorIs(t, err, nodeErr)
		require.Nil(t, got)
	})
}

func TestGetBalances(t *testing.T) {
	t.Run("asset balance", func(t *testing.T) {
		asset := otherAsset.String()
		transport := &mockTransport{}
		transport.On("Balance", mock.Anything, owner.String(), &asset).Return(uint64(300), nil).Once()

		balance, err := ledgersdk.NewProvider(transport).GetAssetBalance(ctx, owner, otherAsset)
		require.NoError(t, err)
		require.Equal(t, uint64(300), balance)
		transport.AssertExpectations(t)
	})

	t.Run("single page", func(t *testing.T) {
		balances := []ledgerlib.Balance{
			{AssetID: ledgerlib.BaseAssetID, Amount: 10},
			{AssetID: otherAsset, Amount: 20},
		}
		cursor := "c0"
		transport := &mockTransport{}
		transport.On("Balances", mock.Anything, owner.String(), client.PaginationRequest{
			Results: 9999, Direction: client.Forward,
		}).Return(&client.PaginatedResult[ledgerlib.Balance]{
			Results: balances, Cursor: &cursor,
		}, nil).Once()

		got, err := ledgersdk.NewProvider(transport).GetBalances(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, balances, got)
		transport.AssertNumberOfCalls(t, "Balances", 1)
	})

	t.Run("all pages", func(t *testing.T) {
		first := []ledgerlib.Balance{{AssetID: ledgerlib.BaseAssetID, Amount: 10}}
		second := []ledgerlib.Balance{{AssetID: otherAsset, Amount: 20}}
		c0, c1 := "c0", "c1"

		transport := &mockTransport{}
		transport.On("Balances", mock.Anything, owner.String(), client.PaginationRequest{
			Results: 1, Direction: client.Forward,
		}).Return(&client.PaginatedResult[ledgerlib.Balance]{
			Results: first, Cursor: &c0, HasNextPage: true,
		}, nil).Once()
		transport.On("Balances", mock.Anything, owner.String(), client.PaginationRequest{
			Cursor: &c0, Results: 1, Direction: client.Forward,
		}).Return(&client.PaginatedResult[ledgerlib.Balance]{
			Results: second, Cursor: &c1,
		}, nil).Once()
		transport.On("Balances", mock.Anything, owner.String(), client.PaginationRequest{
			Cursor: &c1, Results: 1, Direction: client.Forward,
		}).Return(&client.PaginatedResult[ledgerlib.Balance]{}, nil).Once()

		provider := ledgersdk.NewProvider(transport, ledgersdk.WithBalancesPageSize(1))
		got, err := provider.GetAllBalances(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, append(first, second...), got)
		transport.AssertExpectations(t)
	})
}

func TestSendTransaction(t *testing.T) {
	tx := ledgersdk.BuildTransferTx(
		[]ledgerlib.Input{ledgerlib.InputFromCoin(randomCoins(t, 1)[0], 0)},
		[]ledgerlib.Output{{Type: ledgerlib.OutputCoin, To: owner, Amount: 1}},
		ledgerlib.DefaultTxParameters(),
	)
	txid := tx.ID()
	receipts := []ledgerlib.Receipt{
		{Type: ledgerlib.ReceiptReturn, Val: 1},
		{Type: ledgerlib.ReceiptScriptResult, GasUsed: 11},
	}

	t.Run("valid", func(t *testing.T) {
		transport := &mockTransport{}
		transport.On("Submit", mock.Anything, tx).Return(txid, nil).Once()
		transport.On("Receipts", mock.Anything, txid.String()).Return(receipts, nil).Once()

		got, err := ledgersdk.NewProvider(transport).SendTransaction(ctx, tx)
		require.NoError(t, err)
		require.Equal(t, receipts, got)
		transport.AssertExpectations(t)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Run("submit fails", func(t *testing.T) {
			submitErr := fmt.Errorf("COIN_ALREADY_SPENT")
			transport := &mockTransport{}
			transport.On("Submit", mock.Anything, tx).Return(ledgerlib.TxID{}, submitErr).Once()

			got, err := ledgersdk.NewProvider(transport).SendTransaction(ctx, tx)
			require.ErrorIs(t, err, submitErr)
			require.Nil(t, got)
			transport.AssertNotCalled(t, "Receipts", mock.Anything, mock.Anything)

			var receiptsErr *ledgersdk.ReceiptsUnknownError
			require.False(t, errors.As(err, &receiptsErr))
		})

		t.Run("receipts fail", func(t *testing.T) {
			transportErr := fmt.Errorf("deadline exceeded")
			transport := &mockTransport{}
			transport.On("Submit", mock.Anything, tx).Return(txid, nil).Once()
			transport.On("Receipts", mock.Anything, txid.String()).Return(nil, transportErr).Once()

			got, err := ledgersdk.NewProvider(transport).SendTransaction(ctx, tx)
			require.Nil(t, got)
			require.ErrorIs(t, err, transportErr)

			var receiptsErr *ledgersdk.ReceiptsUnknownError
			require.ErrorAs(t, err, &receiptsErr)
			require.Equal(t, txid, receiptsErr.TxID)
		})
	})
}

func TestGetTransactionByID(t *testing.T) {
	txid := ledgerlib.TxID{0x0f}.String()

	t.Run("found", func(t *testing.T) {
		resp := &ledgerlib.TransactionResponse{
			ID: ledgerlib.TxID{0x0f}, Status: ledgerlib.TxStatusSuccess, BlockHeight: 3,
		}
		transport := &mockTransport{}
		transport.On("Transaction", mock.Anything, txid).Return(resp, nil).Once()

		got, err := ledgersdk.NewProvider(transport).GetTransactionByID(ctx, txid)
		require.NoError(t, err)
		require.Equal(t, resp, got)
	})

	t.Run("not found", func(t *testing.T) {
		transport := &mockTransport{}
		transport.On("Transaction", mock.Anything, txid).Return(nil, nil).Once()

		got, err := ledgersdk.NewProvider(transport).GetTransactionByID(ctx, txid)
		require.ErrorIs(t, err, ledgersdk.ErrTransactionNotFound)
		require.Nil(t, got)
	})

	t.Run("transport error", func(t *testing.T) {
		transportErr := fmt.Errorf("unavailable")
		transport := &mockTransport{}
		transport.On("Transaction", mock.Anything, txid).Return(nil, transportErr).Once()

		_, err := ledgersdk.NewProvider(transport).GetTransactionByID(ctx, txid)
		require.ErrorIs(t, err, transportErr)
		require.False(t, errors.Is(err, ledgersdk.ErrTransactionNotFound))
	})
}

func TestBuildTransferTx(t *testing.T) {
	coins := randomCoins(t, 2)
	inputs := []ledgerlib.Input{
		ledgerlib.InputFromCoin(coins[0], 0),
		ledgerlib.InputFromCoin(coins[1], 0),
	}
	outputs := []ledgerlib.Output{
		{Type: ledgerlib.OutputCoin, To: ledgerlib.Address{0x02}, Amount: 150},
		{Type: ledgerlib.OutputChange, To: owner},
	}
	params := ledgerlib.TxParameters{GasPrice: 2, GasLimit: 100, BytePrice: 3, Maturity: 4}

	provider := ledgersdk.NewProvider(&mockTransport{})
	tx := provider.BuildTransferTx(inputs, outputs, params)
	require.Equal(t, tx, provider.BuildTransferTx(inputs, outputs, params))
	require.Equal(t, tx.ID(), provider.BuildTransferTx(inputs, outputs, params).ID())

	require.Equal(t, ledgerlib.NoopScript(), tx.Script)
	require.Empty(t, tx.ScriptData)
	require.NotNil(t, tx.Witnesses)
	require.Empty(t, tx.Witnesses)
	require.Equal(t, params, tx.TxParameters)
	require.Equal(t, inputs, tx.Inputs)
	require.Equal(t, outputs, tx.Outputs)

	// the tx does not share the caller's slices
	inputs[0].Amount = 0
	require.Equal(t, coins[0].Amount, tx.Inputs[0].Amount)
}

func expectCoinPages(transport *mockTransport, coins []ledgerlib.Coin) {
	var cursor *string
	for i := 0; i < len(coins); i += 100 {
		end := min(i+100, len(coins))
		next := fmt.Sprintf("c%d", i)
		transport.On("Coins", mock.Anything, owner.String(), (*string)(nil), client.PaginationRequest{
			Cursor: cursor, Results: 100, Direction: client.Forward,
		}).Return(&client.PaginatedResult[ledgerlib.Coin]{
			Results: coins[i:end], Cursor: &next, HasNextPage: end < len(coins),
		}, nil).Once()
		cursor = &next
	}
	transport.On("Coins", mock.Anything, owner.String(), (*string)(nil), client.PaginationRequest{
		Cursor: cursor, Results: 100, Direction: client.Forward,
	}).Return(&client.PaginatedResult[ledgerlib.Coin]{}, nil).Once()
}

func randomCoins(t *testing.T, num int) []ledgerlib.Coin {
	coins := make([]ledgerlib.Coin, 0, num)
	for i := 0; i < num; i++ {
		var txid ledgerlib.TxID
		_, err := rand.Read(txid[:])
		require.NoError(t, err)
		coins = append(coins, ledgerlib.Coin{
			UtxoID:  ledgerlib.UtxoID{TxID: txid},
			Owner:   owner,
			Amount:  100,
			AssetID: ledgerlib.BaseAssetID,
		})
	}
	return coins
}
