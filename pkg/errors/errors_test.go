package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	grpccodes "google.golang.org/grpc/codes"
)

func generateErrorFixtures() []Error {
	return []Error{
		INTERNAL_ERROR.New("internal server error occurred").
			WithMetadata(map[string]any{
				"component": "database",
				"operation": "query",
			}),
		INVALID_ADDRESS.New("invalid address").
			WithMetadata(AddressMetadata{Address: "0xzz"}),
		INVALID_ASSET_ID.New("invalid asset id").
			WithMetadata(AssetMetadata{AssetID: "0x01"}),
		INVALID_TX.New("missing inputs").
			WithMetadata(TxMetadata{
				Txid: "0x56789012345678901234567890abcdef1234567890abcdef1234567890abcdef",
			}),
		COIN_NOT_FOUND.New("coin not found").
			WithMetadata(CoinMetadata{
				UtxoID: "0x56789012345678901234567890abcdef1234567890abcdef1234567890abcdef:0",
			}),
		COIN_ALREADY_SPENT.New("coin already spent").
			WithMetadata(CoinMetadata{
				UtxoID: "0x6789012345678901234567890abcdef1234567890abcdef1234567890abcdef1:1",
			}),
		INSUFFICIENT_FUNDS.New("not enough coins").
			WithMetadata(InsufficientFundsMetadata{
				AssetID:   "0x0000000000000000000000000000000000000000000000000000000000000000",
				Requested: 1000,
				Available: 10,
			}),
		MAX_COINS_REACHED.New("too many coins").
			WithMetadata(MaxCoinsMetadata{AssetID: "0x00", MaxCoins: 255}),
		TX_NOT_FOUND.New("transaction not found").
			WithMetadata(TxMetadata{Txid: "0x01"}),
		TX_ALREADY_EXISTS.New("transaction already exists").
			WithMetadata(TxMetadata{Txid: "0x01"}),
		INVALID_SIGNATURE.New("invalid signature").
			WithMetadata(InputMetadata{Txid: "0x01", InputIndex: 2}),
		INVALID_CURSOR.New("invalid cursor").
			WithMetadata(CursorMetadata{Cursor: "!!"}),
	}
}

func TestErrors(t *testing.T) {
	fixtures := generateErrorFixtures()

	codes := make(map[uint16]struct{})
	for _, err := range fixtures {
		require.NotNil(t, err)
		require.NotEmpty(t, err.Error())
		require.Contains(t, err.Error(), err.CodeName())
		require.NotNil(t, err.Log())

		_, dup := codes[err.Code()]
		require.False(t, dup, "duplicated code %d", err.Code())
		codes[err.Code()] = struct{}{}

		if err.Code() > 0 {
			require.NotEqual(t, grpccodes.Internal, err.GrpcCode())
		}
	}
}

func TestErrorMetadata(t *testing.T) {
	err := INSUFFICIENT_FUNDS.New("not enough coins").
		WithMetadata(InsufficientFundsMetadata{
			AssetID:   "0x00",
			Requested: 100,
			Available: 5,
		})
	require.Equal(t, map[string]string{
		"asset_id":  "0x00",
		"requested": "100",
		"available": "5",
	}, err.Metadata())

	// large amounts keep their integer form
	err = INSUFFICIENT_FUNDS.New("not enough coins").
		WithMetadata(InsufficientFundsMetadata{Requested: 1_000_000_000})
	require.Equal(t, "1000000000", err.Metadata()["requested"])

	err2 := INTERNAL_ERROR.New("oops")
	require.Empty(t, err2.Metadata())
}

func TestIs(t *testing.T) {
	err := TX_NOT_FOUND.New("tx %s not found", "0x01")
	require.True(t, Is(err, TX_NOT_FOUND))
	require.False(t, Is(err, INVALID_TX))

	wrapped := fmt.Errorf("failed to get receipts: %w", err)
	require.True(t, Is(wrapped, TX_NOT_FOUND))

	require.False(t, Is(fmt.Errorf("plain"), TX_NOT_FOUND))
	require.False(t, Is(nil, TX_NOT_FOUND))
}
