package txstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/arkade-os/ledgerkit/internal/core/domain"
	"github.com/arkade-os/ledgerkit/internal/core/ports"
	inmemorytxstore "github.com/arkade-os/ledgerkit/internal/infrastructure/tx-store/inmemory"
	redistxstore "github.com/arkade-os/ledgerkit/internal/infrastructure/tx-store/redis"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestTxStoreImplementations(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	stores := []struct {
		name  string
		store ports.TxStore
	}{
		{"inmemory", inmemorytxstore.NewTxStore()},
		{"redis", redistxstore.NewTxStore(rdb, 5)},
	}

	for _, tt := range stores {
		t.Run(tt.name, func(t *testing.T) {
			runTxStoreTests(t, tt.store)
		})
	}
}

func runTxStoreTests(t *testing.T, store ports.TxStore) {
	ctx := context.Background()
	tx := ledgerlib.Transaction{
		TxParameters: ledgerlib.DefaultTxParameters(),
		Script:       ledgerlib.NoopScript(),
		ScriptData:   []byte{},
		Inputs: []ledgerlib.Input{{
			UtxoID:  ledgerlib.UtxoID{TxID: ledgerlib.TxID{0x01}, OutputIndex: 2},
			Owner:   ledgerlib.Address{0x02},
			Amount:  100,
			AssetID: ledgerlib.BaseAssetID,
		}},
		Outputs: []ledgerlib.Output{{
			Type:   ledgerlib.OutputCoin,
			To:     ledgerlib.Address{0x03},
			Amount: 100,
		}},
		Witnesses: []ledgerlib.Witness{{0x01}},
	}
	record := domain.Transaction{
		Txid: tx.ID().String(),
		Tx:   tx,
		Receipts: []ledgerlib.Receipt{
			{Type: ledgerlib.ReceiptReturn, Val: 1},
			{Type: ledgerlib.ReceiptScriptResult, GasUsed: 11},
		},
		Status:      ledgerlib.TxStatusSuccess,
		BlockHeight: 3,
		Timestamp:   time.Now().Unix(),
	}

	got, err := store.GetTransaction(ctx, record.Txid)
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, store.AddTransaction(ctx, record))
	require.Error(t, store.AddTransaction(ctx, record))

	got, err = store.GetTransaction(ctx, record.Txid)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, record, *got)
	require.Equal(t, tx.ID(), got.Tx.ID())
}
