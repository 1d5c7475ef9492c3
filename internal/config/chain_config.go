package config

import (
	"crypto/sha256"
	"fmt"
	"os"

	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	"github.com/tidwall/gjson"
)

// LoadChainConfig reads the genesis coins from the chain config file at path.
func LoadChainConfig(path string) ([]ledgerlib.Coin, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain config: %s", err)
	}
	return ParseChainConfig(buf)
}

// ParseChainConfig parses a chain config of the form:
//
//	{"coins": [{"owner": "0x..", "amount": "100", "asset_id": "0x..", "utxo_id": "0x..:0", "maturity": 0}]}
//
// asset_id defaults to the base asset. Coins without utxo_id get one derived
// from their position in the list.
func ParseChainConfig(buf []byte) ([]ledgerlib.Coin, error) {
	if !gjson.ValidBytes(buf) {
		return nil, fmt.Errorf("invalid chain config: malformed json")
	}

	list := gjson.GetBytes(buf, "coins")
	if !list.Exists() {
		return nil, fmt.Errorf("invalid chain config: missing coins")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("invalid chain config: coins must be a list")
	}

	coins := make([]ledgerlib.Coin, 0)
	var parseErr error
	list.ForEach(func(key, value gjson.Result) bool {
		coin, err := parseGenesisCoin(int(key.Int()), value)
		if err != nil {
			parseErr = fmt.Errorf("invalid chain config: coin %d: %s", key.Int(), err)
			return false
		}
		coins = append(coins, coin)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return coins, nil
}

func parseGenesisCoin(index int, value gjson.Result) (ledgerlib.Coin, error) {
	owner, err := ledgerlib.AddressFromString(value.Get("owner").String())
	if err != nil {
		return ledgerlib.Coin{}, fmt.Errorf("invalid owner: %s", err)
	}

	amount := value.Get("amount")
	if !amount.Exists() || amount.Uint() == 0 {
		return ledgerlib.Coin{}, fmt.Errorf("amount must be greater than 0")
	}

	assetID := ledgerlib.BaseAssetID
	if asset := value.Get("asset_id"); asset.Exists() {
		if assetID, err = ledgerlib.AssetIDFromString(asset.String()); err != nil {
			return ledgerlib.Coin{}, fmt.Errorf("invalid asset id: %s", err)
		}
	}

	utxoID := ledgerlib.UtxoID{
		TxID: sha256.Sum256([]byte(fmt.Sprintf("genesis:%d", index))),
	}
	if id := value.Get("utxo_id"); id.Exists() {
		if utxoID, err = ledgerlib.UtxoIDFromString(id.String()); err != nil {
			return ledgerlib.Coin{}, fmt.Errorf("invalid utxo id: %s", err)
		}
	}

	return ledgerlib.Coin{
		UtxoID:   utxoID,
		Owner:    owner,
		Amount:   amount.Uint(),
		AssetID:  assetID,
		Maturity: uint32(value.Get("maturity").Uint()),
		Status:   ledgerlib.CoinStatusUnspent,
	}, nil
}
