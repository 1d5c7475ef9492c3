package testhelpers

import (
	"crypto/rand"
	"fmt"

	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
)

// SetupCoins returns numCoins unspent coins of the base asset owned by the
// given address, each worth amount and with a random utxo id.
func SetupCoins(owner ledgerlib.Address, numCoins, amount uint64) ([]ledgerlib.Coin, error) {
	coins := make([]ledgerlib.Coin, 0, numCoins)
	for i := uint64(0); i < numCoins; i++ {
		var txid ledgerlib.TxID
		if _, err := rand.Read(txid[:]); err != nil {
			return nil, fmt.Errorf("failed to generate utxo id: %s", err)
		}
		coins = append(coins, ledgerlib.Coin{
			UtxoID:  ledgerlib.UtxoID{TxID: txid},
			Owner:   owner,
			Amount:  amount,
			AssetID: ledgerlib.BaseAssetID,
			Status:  ledgerlib.CoinStatusUnspent,
		})
	}
	return coins, nil
}

// SetupMultipleAssetsCoins returns coinsPerAsset coins for the base asset and
// for numAssets-1 random assets, all owned by the given address.
func SetupMultipleAssetsCoins(
	owner ledgerlib.Address, numAssets, coinsPerAsset, amount uint64,
) ([]ledgerlib.Coin, []ledgerlib.AssetID, error) {
	if numAssets == 0 {
		return nil, nil, fmt.Errorf("number of assets must be greater than 0")
	}

	assetIDs := []ledgerlib.AssetID{ledgerlib.BaseAssetID}
	for i := uint64(1); i < numAssets; i++ {
		var assetID ledgerlib.AssetID
		if _, err := rand.Read(assetID[:]); err != nil {
			return nil, nil, fmt.Errorf("failed to generate asset id: %s", err)
		}
		assetIDs = append(assetIDs, assetID)
	}

	coins := make([]ledgerlib.Coin, 0, numAssets*coinsPerAsset)
	for _, assetID := range assetIDs {
		assetCoins, err := SetupCoins(owner, coinsPerAsset, amount)
		if err != nil {
			return nil, nil, err
		}
		for i := range assetCoins {
			assetCoins[i].AssetID = assetID
		}
		coins = append(coins, assetCoins...)
	}
	return coins, assetIDs, nil
}
