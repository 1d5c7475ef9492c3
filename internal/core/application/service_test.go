package application

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arkade-os/ledgerkit/internal/core/domain"
	"github.com/arkade-os/ledgerkit/internal/core/ports"
	"github.com/arkade-os/ledgerkit/internal/infrastructure/db"
	inmemorytxstore "github.com/arkade-os/ledgerkit/internal/infrastructure/tx-store/inmemory"
	"github.com/arkade-os/ledgerkit/pkg/errors"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTelemetry struct {
	mock.Mock
	observed atomic.Int32
}

func (m *mockTelemetry) ObserveEvents(events []domain.Event) {
	m.Called(events)
	m.observed.Add(int32(len(events)))
}

func (m *mockTelemetry) SetBlockHeight(height uint32) {
	m.Called(height)
}

// failingTxStore rejects every new tx while fail is set.
type failingTxStore struct {
	ports.TxStore
	fail atomic.Bool
}

func (s *failingTxStore) AddTransaction(ctx context.Context, tx domain.Transaction) error {
	if s.fail.Load() {
		return fmt.Errorf("tx store unavailable")
	}
	return s.TxStore.AddTransaction(ctx, tx)
}

type testWallet struct {
	key     *btcec.PrivateKey
	address ledgerlib.Address
}

func newTestWallet(t *testing.T) testWallet {
	key, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return testWallet{key, ledgerlib.AddressFromPubKey(key.PubKey())}
}

var assetB = ledgerlib.AssetID{0xbb}

func randomCoin(owner ledgerlib.Address, asset ledgerlib.AssetID, amount uint64) ledgerlib.Coin {
	var txid ledgerlib.TxID
	// nolint:errcheck
	rand.Read(txid[:])
	return ledgerlib.Coin{
		UtxoID:  ledgerlib.UtxoID{TxID: txid},
		Owner:   owner,
		Amount:  amount,
		AssetID: asset,
	}
}

func newTestService(
	t *testing.T, cfg Config, telemetry *mockTelemetry,
) Service {
	return newTestServiceWithTxStore(t, cfg, telemetry, inmemorytxstore.NewTxStore())
}

func newTestServiceWithTxStore(
	t *testing.T, cfg Config, telemetry *mockTelemetry, txStore ports.TxStore,
) Service {
	repoManager, err := db.NewService(db.ServiceConfig{
		EventStoreType:   "watermill",
		DataStoreType:    "badger",
		EventStoreConfig: []interface{}{nil},
		DataStoreConfig:  []interface{}{"", nil},
	})
	require.NoError(t, err)

	if telemetry == nil {
		telemetry = &mockTelemetry{}
	}
	telemetry.On("ObserveEvents", mock.Anything).Maybe()
	telemetry.On("SetBlockHeight", mock.Anything).Maybe()

	svc, err := NewService(cfg, repoManager, txStore, nil, telemetry)
	require.NoError(t, err)
	require.Nil(t, svc.Start())
	t.Cleanup(svc.Stop)
	return svc
}

func signedTransfer(
	t *testing.T, from testWallet, coins []ledgerlib.Coin, outputs []ledgerlib.Output,
) *ledgerlib.Transaction {
	inputs := make([]ledgerlib.Input, 0, len(coins))
	for _, coin := range coins {
		inputs = append(inputs, ledgerlib.InputFromCoin(coin, 0))
	}
	tx := &ledgerlib.Transaction{
		TxParameters: ledgerlib.DefaultTxParameters(),
		Script:       ledgerlib.NoopScript(),
		ScriptData:   []byte{},
		Inputs:       inputs,
		Outputs:      outputs,
	}
	witness, err := ledgerlib.SignWitness(from.key, tx.ID())
	require.NoError(t, err)
	tx.Witnesses = []ledgerlib.Witness{witness}
	return tx
}

func TestGetCoins(t *testing.T) {
	alice := newTestWallet(t)
	bob := newTestWallet(t)

	genesis := make([]ledgerlib.Coin, 0, 30)
	for range 25 {
		genesis = append(genesis, randomCoin(alice.address, ledgerlib.BaseAssetID, 10))
	}
	for range 5 {
		genesis = append(genesis, randomCoin(alice.address, assetB, 3))
	}
	svc := newTestService(t, Config{GenesisCoins: genesis}, nil)
	ctx := context.Background()

	t.Run("all pages", func(t *testing.T) {
		seen := make(map[ledgerlib.UtxoID]struct{})
		var cursor *string
		var lastID string
		for {
			resp, err := svc.GetCoins(ctx, alice.address, nil, &Page{Cursor: cursor, Size: 7})
			require.Nil(t, err)
			if len(resp.Coins) == 0 {
				break
			}
			for _, coin := range resp.Coins {
				require.Greater(t, coin.UtxoID.String(), lastID)
				lastID = coin.UtxoID.String()
				seen[coin.UtxoID] = struct{}{}
			}
			cursor = resp.Page.Cursor
		}
		require.Len(t, seen, len(genesis))
	})

	t.Run("filter by asset", func(t *testing.T) {
		resp, err := svc.GetCoins(ctx, alice.address, &assetB, nil)
		require.Nil(t, err)
		require.Len(t, resp.Coins, 5)
		require.False(t, resp.Page.HasNextPage)
		for _, coin := range resp.Coins {
			require.Equal(t, assetB, coin.AssetID)
			require.Equal(t, ledgerlib.CoinStatusUnspent, coin.Status)
		}
	})

	t.Run("unknown owner", func(t *testing.T) {
		resp, err := svc.GetCoins(ctx, bob.address, nil, nil)
		require.Nil(t, err)
		require.Empty(t, resp.Coins)
		require.Nil(t, resp.Page.Cursor)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		cursor := "bm90LWEtdXR4bw"
		_, err := svc.GetCoins(ctx, alice.address, nil, &Page{Cursor: &cursor})
		require.NotNil(t, err)
		require.True(t, errors.Is(err, errors.INVALID_CURSOR))
	})
}

func TestGetCoinsToSpend(t *testing.T) {
	alice := newTestWallet(t)
	genesis := []ledgerlib.Coin{
		randomCoin(alice.address, ledgerlib.BaseAssetID, 100),
		randomCoin(alice.address, ledgerlib.BaseAssetID, 50),
		randomCoin(alice.address, ledgerlib.BaseAssetID, 20),
		randomCoin(alice.address, assetB, 7),
	}
	svc := newTestService(t, Config{GenesisCoins: genesis}, nil)
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		coins, err := svc.GetCoinsToSpend(ctx, alice.address, []SpendQuery{
			{AssetID: ledgerlib.BaseAssetID, Amount: 120},
			{AssetID: assetB, Amount: 1},
		}, nil, nil)
		require.Nil(t, err)
		require.Len(t, coins, 3)
		sums := ledgerlib.SumCoins(coins)
		require.Equal(t, uint64(150), sums[ledgerlib.BaseAssetID])
		require.Equal(t, uint64(7), sums[assetB])
	})

	t.Run("merges queries", func(t *testing.T) {
		coins, err := svc.GetCoinsToSpend(ctx, alice.address, []SpendQuery{
			{AssetID: ledgerlib.BaseAssetID, Amount: 100},
			{AssetID: ledgerlib.BaseAssetID, Amount: 60},
		}, nil, nil)
		require.Nil(t, err)
		require.Len(t, coins, 3)
	})

	t.Run("excluded", func(t *testing.T) {
		coins, err := svc.GetCoinsToSpend(ctx, alice.address, []SpendQuery{
			{AssetID: ledgerlib.BaseAssetID, Amount: 10},
		}, []ledgerlib.UtxoID{genesis[0].UtxoID}, nil)
		require.Nil(t, err)
		require.Len(t, coins, 1)
		require.Equal(t, genesis[1].UtxoID, coins[0].UtxoID)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := svc.GetCoinsToSpend(ctx, alice.address, []SpendQuery{
			{AssetID: ledgerlib.BaseAssetID, Amount: 171},
		}, nil, nil)
		require.NotNil(t, err)
		require.True(t, errors.Is(err, errors.INSUFFICIENT_FUNDS))
		require.Equal(t, "170", err.Metadata()["available"])

		maxInputs := uint64(1)
		_, err = svc.GetCoinsToSpend(ctx, alice.address, []SpendQuery{
			{AssetID: ledgerlib.BaseAssetID, Amount: 120},
		}, nil, &maxInputs)
		require.NotNil(t, err)
		require.True(t, errors.Is(err, errors.MAX_COINS_REACHED))
	})
}

func TestGetBalances(t *testing.T) {
	alice := newTestWallet(t)
	genesis := []ledgerlib.Coin{
		randomCoin(alice.address, ledgerlib.BaseAssetID, 100),
		randomCoin(alice.address, ledgerlib.BaseAssetID, 50),
		randomCoin(alice.address, assetB, 7),
		randomCoin(alice.address, ledgerlib.AssetID{0xcc}, 1),
	}
	svc := newTestService(t, Config{GenesisCoins: genesis}, nil)
	ctx := context.Background()

	balance, err := svc.GetBalance(ctx, alice.address, ledgerlib.BaseAssetID)
	require.Nil(t, err)
	require.Equal(t, uint64(150), balance)

	balance, err = svc.GetBalance(ctx, alice.address, ledgerlib.AssetID{0xdd})
	require.Nil(t, err)
	require.Zero(t, balance)

	resp, err := svc.GetBalances(ctx, alice.address, &Page{Size: 2})
	require.Nil(t, err)
	require.Equal(t, []ledgerlib.Balance{
		{AssetID: ledgerlib.BaseAssetID, Amount: 150},
		{AssetID: assetB, Amount: 7},
	}, resp.Balances)
	require.True(t, resp.Page.HasNextPage)

	resp, err = svc.GetBalances(ctx, alice.address, &Page{Cursor: resp.Page.Cursor, Size: 2})
	require.Nil(t, err)
	require.Equal(t, []ledgerlib.Balance{
		{AssetID: ledgerlib.AssetID{0xcc}, Amount: 1},
	}, resp.Balances)
	require.False(t, resp.Page.HasNextPage)

	bad := encodeCursor("0x01:0")
	_, err = svc.GetBalances(ctx, alice.address, &Page{Cursor: bad})
	require.NotNil(t, err)
	require.True(t, errors.Is(err, errors.INVALID_CURSOR))
}

func TestSubmitTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		alice := newTestWallet(t)
		bob := newTestWallet(t)
		genesis := []ledgerlib.Coin{
			randomCoin(alice.address, ledgerlib.BaseAssetID, 100),
			randomCoin(alice.address, ledgerlib.BaseAssetID, 50),
		}
		telemetry := &mockTelemetry{}
		telemetry.On("SetBlockHeight", uint32(1)).Once()
		svc := newTestService(t, Config{GenesisCoins: genesis, VerifySignatures: true}, telemetry)

		tx := signedTransfer(t, alice, genesis, []ledgerlib.Output{
			{Type: ledgerlib.OutputCoin, To: bob.address, Amount: 120},
			{Type: ledgerlib.OutputChange, To: alice.address},
		})
		txid, err := svc.SubmitTransaction(ctx, tx)
		require.Nil(t, err)
		require.Equal(t, tx.ID(), txid)

		receipts, err := svc.GetReceipts(ctx, txid)
		require.Nil(t, err)
		require.Len(t, receipts, 2)
		require.Equal(t, ledgerlib.ReceiptReturn, receipts[0].Type)
		require.Equal(t, uint64(1), receipts[0].Val)
		require.Equal(t, ledgerlib.ReceiptScriptResult, receipts[1].Type)
		require.Equal(t, uint64(21), receipts[1].GasUsed)

		balance, err := svc.GetBalance(ctx, bob.address, ledgerlib.BaseAssetID)
		require.Nil(t, err)
		require.Equal(t, uint64(120), balance)
		balance, err = svc.GetBalance(ctx, alice.address, ledgerlib.BaseAssetID)
		require.Nil(t, err)
		require.Equal(t, uint64(30), balance)

		resp, err := svc.GetCoins(ctx, alice.address, nil, nil)
		require.Nil(t, err)
		require.Len(t, resp.Coins, 1)
		require.Equal(t, ledgerlib.UtxoID{TxID: txid, OutputIndex: 1}, resp.Coins[0].UtxoID)
		require.Equal(t, uint32(1), resp.Coins[0].BlockCreated)

		txResp, err := svc.GetTransaction(ctx, txid)
		require.Nil(t, err)
		require.NotNil(t, txResp)
		require.Equal(t, txid, txResp.ID)
		require.Equal(t, ledgerlib.TxStatusSuccess, txResp.Status)
		require.Equal(t, uint32(1), txResp.BlockHeight)
		require.Equal(t, txid, txResp.Transaction.ID())

		info, err := svc.GetInfo(ctx)
		require.Nil(t, err)
		require.Equal(t, uint32(1), info.BlockHeight)

		_, err = svc.SubmitTransaction(ctx, tx)
		require.NotNil(t, err)
		require.True(t, errors.Is(err, errors.TX_ALREADY_EXISTS))

		telemetry.AssertCalled(t, "SetBlockHeight", uint32(1))
		// genesis coins added + tx executed
		require.Eventually(t, func() bool {
			return telemetry.observed.Load() == 2
		}, 2*time.Second, 50*time.Millisecond)
	})

	t.Run("invalid", func(t *testing.T) {
		alice := newTestWallet(t)
		bob := newTestWallet(t)
		genesis := []ledgerlib.Coin{
			randomCoin(alice.address, ledgerlib.BaseAssetID, 100),
			randomCoin(alice.address, ledgerlib.BaseAssetID, 50),
		}
		svc := newTestService(t, Config{GenesisCoins: genesis, VerifySignatures: true}, nil)

		unknown := randomCoin(alice.address, ledgerlib.BaseAssetID, 1)
		tamperedOwner := genesis[1]
		tamperedOwner.Amount = 49

		testCases := []struct {
			name         string
			tx           func() *ledgerlib.Transaction
			expectedCode uint16
		}{
			{
				name:         "nil tx",
				tx:           func() *ledgerlib.Transaction { return nil },
				expectedCode: errors.INVALID_TX.Code,
			},
			{
				name: "no inputs",
				tx: func() *ledgerlib.Transaction {
					return signedTransfer(t, alice, nil, nil)
				},
				expectedCode: errors.INVALID_TX.Code,
			},
			{
				name: "unknown coin",
				tx: func() *ledgerlib.Transaction {
					return signedTransfer(t, alice, []ledgerlib.Coin{unknown}, nil)
				},
				expectedCode: errors.COIN_NOT_FOUND.Code,
			},
			{
				name: "input mismatch",
				tx: func() *ledgerlib.Transaction {
					return signedTransfer(t, alice, []ledgerlib.Coin{tamperedOwner}, nil)
				},
				expectedCode: errors.INVALID_TX.Code,
			},
			{
				name: "wrong signer",
				tx: func() *ledgerlib.Transaction {
					return signedTransfer(t, bob, genesis[:1], []ledgerlib.Output{
						{Type: ledgerlib.OutputCoin, To: bob.address, Amount: 100},
					})
				},
				expectedCode: errors.INVALID_SIGNATURE.Code,
			},
			{
				name: "missing witness",
				tx: func() *ledgerlib.Transaction {
					tx := signedTransfer(t, alice, genesis[:1], nil)
					tx.Witnesses = nil
					return tx
				},
				expectedCode: errors.INVALID_SIGNATURE.Code,
			},
			{
				name: "outputs exceed inputs",
				tx: func() *ledgerlib.Transaction {
					return signedTransfer(t, alice, genesis[:1], []ledgerlib.Output{
						{Type: ledgerlib.OutputCoin, To: bob.address, Amount: 101},
					})
				},
				expectedCode: errors.INVALID_TX.Code,
			},
			{
				name: "output asset without input",
				tx: func() *ledgerlib.Transaction {
					return signedTransfer(t, alice, genesis[:1], []ledgerlib.Output{
						{Type: ledgerlib.OutputCoin, To: bob.address, Amount: 1, AssetID: assetB},
					})
				},
				expectedCode: errors.INVALID_TX.Code,
			},
			{
				name: "gas limit",
				tx: func() *ledgerlib.Transaction {
					tx := signedTransfer(t, alice, genesis[:1], nil)
					tx.GasLimit = 1
					return tx
				},
				expectedCode: errors.INVALID_TX.Code,
			},
			{
				name: "maturity",
				tx: func() *ledgerlib.Transaction {
					tx := signedTransfer(t, alice, genesis[:1], nil)
					tx.Maturity = 10
					return tx
				},
				expectedCode: errors.INVALID_TX.Code,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.SubmitTransaction(ctx, tc.tx())
				require.NotNil(t, err)
				require.Equal(t, tc.expectedCode, err.Code(), err.Error())
			})
		}

		// nothing moved
		balance, err := svc.GetBalance(ctx, alice.address, ledgerlib.BaseAssetID)
		require.Nil(t, err)
		require.Equal(t, uint64(150), balance)
	})

	t.Run("spent coin", func(t *testing.T) {
		alice := newTestWallet(t)
		bob := newTestWallet(t)
		genesis := []ledgerlib.Coin{randomCoin(alice.address, ledgerlib.BaseAssetID, 100)}
		svc := newTestService(t, Config{GenesisCoins: genesis}, nil)

		tx := signedTransfer(t, alice, genesis, []ledgerlib.Output{
			{Type: ledgerlib.OutputCoin, To: bob.address, Amount: 100},
		})
		_, err := svc.SubmitTransaction(ctx, tx)
		require.Nil(t, err)

		double := signedTransfer(t, alice, genesis, []ledgerlib.Output{
			{Type: ledgerlib.OutputCoin, To: alice.address, Amount: 100},
		})
		_, err = svc.SubmitTransaction(ctx, double)
		require.NotNil(t, err)
		require.True(t, errors.Is(err, errors.COIN_ALREADY_SPENT))
	})
}

func TestAmountOverflow(t *testing.T) {
	ctx := context.Background()

	t.Run("outputs wrapping around", func(t *testing.T) {
		alice := newTestWallet(t)
		bob := newTestWallet(t)
		genesis := []ledgerlib.Coin{randomCoin(alice.address, ledgerlib.BaseAssetID, 100)}
		svc := newTestService(t, Config{GenesisCoins: genesis}, nil)

		tx := signedTransfer(t, alice, genesis, []ledgerlib.Output{
			{Type: ledgerlib.OutputCoin, To: bob.address, Amount: 60},
			{Type: ledgerlib.OutputCoin, To: bob.address, Amount: math.MaxUint64 - 49},
		})
		_, err := svc.SubmitTransaction(ctx, tx)
		require.NotNil(t, err)
		require.True(t, errors.Is(err, errors.INVALID_TX))

		balance, err := svc.GetBalance(ctx, bob.address, ledgerlib.BaseAssetID)
		require.Nil(t, err)
		require.Zero(t, balance)
		balance, err = svc.GetBalance(ctx, alice.address, ledgerlib.BaseAssetID)
		require.Nil(t, err)
		require.Equal(t, uint64(100), balance)
	})

	t.Run("inputs wrapping around", func(t *testing.T) {
		alice := newTestWallet(t)
		bob := newTestWallet(t)
		first := randomCoin(alice.address, ledgerlib.BaseAssetID, math.MaxUint64)
		second := randomCoin(alice.address, ledgerlib.BaseAssetID, 2)
		svc := newTestService(t, Config{GenesisCoins: []ledgerlib.Coin{first}}, nil)
		require.Nil(t, svc.AddGenesisCoins(ctx, []ledgerlib.Coin{second}))

		tx := signedTransfer(t, alice, []ledgerlib.Coin{first, second}, []ledgerlib.Output{
			{Type: ledgerlib.OutputCoin, To: bob.address, Amount: 1},
			{Type: ledgerlib.OutputChange, To: alice.address},
		})
		_, err := svc.SubmitTransaction(ctx, tx)
		require.NotNil(t, err)
		require.True(t, errors.Is(err, errors.INVALID_TX))

		_, err = svc.GetBalance(ctx, alice.address, ledgerlib.BaseAssetID)
		require.NotNil(t, err)
		require.True(t, errors.Is(err, errors.INTERNAL_ERROR))
		_, err = svc.GetBalances(ctx, alice.address, nil)
		require.NotNil(t, err)
		require.True(t, errors.Is(err, errors.INTERNAL_ERROR))
	})

	t.Run("genesis amounts", func(t *testing.T) {
		alice := newTestWallet(t)
		svc := newTestService(t, Config{}, nil)

		err := svc.AddGenesisCoins(ctx, []ledgerlib.Coin{
			randomCoin(alice.address, ledgerlib.BaseAssetID, math.MaxUint64),
			randomCoin(alice.address, ledgerlib.BaseAssetID, 1),
		})
		require.NotNil(t, err)
		require.True(t, errors.Is(err, errors.INVALID_ASSET_ID))

		resp, err := svc.GetCoins(ctx, alice.address, nil, nil)
		require.Nil(t, err)
		require.Empty(t, resp.Coins)
	})
}

func TestSubmitTransactionStoreFailure(t *testing.T) {
	ctx := context.Background()
	alice := newTestWallet(t)
	bob := newTestWallet(t)
	genesis := []ledgerlib.Coin{
		randomCoin(alice.address, ledgerlib.BaseAssetID, 100),
		randomCoin(alice.address, assetB, 7),
	}
	txStore := &failingTxStore{TxStore: inmemorytxstore.NewTxStore()}
	svc := newTestServiceWithTxStore(t, Config{GenesisCoins: genesis}, nil, txStore)

	tx := signedTransfer(t, alice, genesis, []ledgerlib.Output{
		{Type: ledgerlib.OutputCoin, To: bob.address, Amount: 40, AssetID: ledgerlib.BaseAssetID},
		{Type: ledgerlib.OutputChange, To: alice.address, AssetID: ledgerlib.BaseAssetID},
		{Type: ledgerlib.OutputChange, To: alice.address, AssetID: assetB},
	})

	txStore.fail.Store(true)
	_, err := svc.SubmitTransaction(ctx, tx)
	require.NotNil(t, err)
	require.True(t, errors.Is(err, errors.INTERNAL_ERROR))

	resp, err := svc.GetCoins(ctx, alice.address, nil, nil)
	require.Nil(t, err)
	require.Len(t, resp.Coins, len(genesis))
	for _, coin := range resp.Coins {
		require.NotEqual(t, tx.ID(), coin.UtxoID.TxID)
	}
	balance, err := svc.GetBalance(ctx, bob.address, ledgerlib.BaseAssetID)
	require.Nil(t, err)
	require.Zero(t, balance)

	txResp, err := svc.GetTransaction(ctx, tx.ID())
	require.Nil(t, err)
	require.Nil(t, txResp)
	info, err := svc.GetInfo(ctx)
	require.Nil(t, err)
	require.Zero(t, info.BlockHeight)

	txStore.fail.Store(false)
	txid, err := svc.SubmitTransaction(ctx, tx)
	require.Nil(t, err)
	require.Equal(t, tx.ID(), txid)

	balance, err = svc.GetBalance(ctx, bob.address, ledgerlib.BaseAssetID)
	require.Nil(t, err)
	require.Equal(t, uint64(40), balance)
	balances, err := svc.GetBalances(ctx, alice.address, nil)
	require.Nil(t, err)
	require.Len(t, balances.Balances, 2)
}

func TestGetTransactionUnknown(t *testing.T) {
	svc := newTestService(t, Config{}, nil)
	ctx := context.Background()

	tx, err := svc.GetTransaction(ctx, ledgerlib.TxID{0x01})
	require.Nil(t, err)
	require.Nil(t, tx)

	_, err = svc.GetReceipts(ctx, ledgerlib.TxID{0x01})
	require.NotNil(t, err)
	require.True(t, errors.Is(err, errors.TX_NOT_FOUND))
}
