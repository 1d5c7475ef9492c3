package ledgerv1_test

import (
	"testing"
	"time"

	ledgerv1 "github.com/arkade-os/ledgerkit/api-spec/ledger/v1"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestTransactionOverTheWire(t *testing.T) {
	codec := encoding.GetCodec(ledgerv1.CodecName)
	require.NotNil(t, codec)

	tx := &ledgerlib.Transaction{
		TxParameters: ledgerlib.DefaultTxParameters(),
		Script:       ledgerlib.NoopScript(),
		ScriptData:   []byte{},
		Inputs: []ledgerlib.Input{{
			UtxoID:       ledgerlib.UtxoID{TxID: ledgerlib.TxID{0x01}, OutputIndex: 3},
			Owner:        ledgerlib.Address{0x02},
			Amount:       1 << 62,
			AssetID:      ledgerlib.AssetID{0x05},
			WitnessIndex: 0,
		}},
		Outputs: []ledgerlib.Output{
			{Type: ledgerlib.OutputCoin, To: ledgerlib.Address{0x03}, Amount: 10, AssetID: ledgerlib.AssetID{0x05}},
			{Type: ledgerlib.OutputChange, To: ledgerlib.Address{0x02}, AssetID: ledgerlib.AssetID{0x05}},
		},
		Witnesses: []ledgerlib.Witness{{0xde, 0xad}},
	}

	buf, err := codec.Marshal(&ledgerv1.SubmitTransactionRequest{
		Transaction: ledgerv1.FromTransaction(tx),
	})
	require.NoError(t, err)

	var req ledgerv1.SubmitTransactionRequest
	require.NoError(t, codec.Unmarshal(buf, &req))

	got, err := req.Transaction.Parse()
	require.NoError(t, err)
	require.Equal(t, tx, got)
	require.Equal(t, tx.ID(), got.ID())
}

func TestCoinConversion(t *testing.T) {
	coin := ledgerlib.Coin{
		UtxoID:       ledgerlib.UtxoID{TxID: ledgerlib.TxID{0xab}, OutputIndex: 1},
		Owner:        ledgerlib.Address{0x01},
		Amount:       100,
		AssetID:      ledgerlib.BaseAssetID,
		BlockCreated: 4,
		Status:       ledgerlib.CoinStatusSpent,
	}
	got, err := ledgerv1.FromCoin(coin).Parse()
	require.NoError(t, err)
	require.Equal(t, coin, got)

	_, err = (&ledgerv1.Coin{UtxoId: "nope"}).Parse()
	require.Error(t, err)
}

func TestTransactionInfoConversion(t *testing.T) {
	resp := &ledgerlib.TransactionResponse{
		Transaction: ledgerlib.Transaction{
			TxParameters: ledgerlib.DefaultTxParameters(),
			Script:       ledgerlib.NoopScript(),
			ScriptData:   []byte{},
			Inputs:       []ledgerlib.Input{},
			Outputs:      []ledgerlib.Output{},
			Witnesses:    []ledgerlib.Witness{},
		},
		ID:          ledgerlib.TxID{0x0f},
		Status:      ledgerlib.TxStatusSuccess,
		BlockHeight: 12,
		Time:        time.Unix(1700000000, 0),
	}
	got, err := ledgerv1.FromTransactionResponse(resp).Parse()
	require.NoError(t, err)
	require.Equal(t, resp, got)
}

func TestReceiptsConversion(t *testing.T) {
	receipts := []ledgerlib.Receipt{
		{Type: ledgerlib.ReceiptReturn, Val: 1},
		{Type: ledgerlib.ReceiptTransfer, To: ledgerlib.Address{0x01}, Amount: 5, AssetID: ledgerlib.AssetID{0x02}},
		{Type: ledgerlib.ReceiptScriptResult, Result: 0, GasUsed: 42},
	}
	got, err := ledgerv1.ParseReceipts(ledgerv1.FromReceipts(receipts))
	require.NoError(t, err)
	require.Equal(t, receipts, got)

	_, err = ledgerv1.ParseReceipts([]*ledgerv1.Receipt{{Type: "panic"}})
	require.Error(t, err)
}
