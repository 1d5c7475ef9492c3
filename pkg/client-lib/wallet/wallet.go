package wallet

import (
	"context"
	"fmt"

	ledgersdk "github.com/arkade-os/ledgerkit/pkg/client-lib"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	"github.com/btcsuite/btcd/btcec/v2"
)

var ErrNoProvider = fmt.Errorf("wallet has no provider")

// Wallet is a single-key wallet. Every input it signs points to the same
// witness, the signature of its key over the tx id.
type Wallet struct {
	privkey  *btcec.PrivateKey
	address  ledgerlib.Address
	provider *ledgersdk.Provider
}

func NewWallet(privkey *btcec.PrivateKey, provider *ledgersdk.Provider) *Wallet {
	return &Wallet{
		privkey:  privkey,
		address:  ledgerlib.AddressFromPubKey(privkey.PubKey()),
		provider: provider,
	}
}

// NewRandomWallet returns a wallet with a freshly generated key.
func NewRandomWallet(provider *ledgersdk.Provider) (*Wallet, error) {
	privkey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %s", err)
	}
	return NewWallet(privkey, provider), nil
}

func (w *Wallet) Address() ledgerlib.Address {
	return w.address
}

func (w *Wallet) PubKey() *btcec.PublicKey {
	return w.privkey.PubKey()
}

func (w *Wallet) Provider() *ledgersdk.Provider {
	return w.provider
}

// SetProvider binds the wallet to a provider. Many wallets can share the same
// provider.
func (w *Wallet) SetProvider(provider *ledgersdk.Provider) {
	w.provider = provider
}

func (w *Wallet) GetCoins(ctx context.Context) ([]ledgerlib.Coin, error) {
	if w.provider == nil {
		return nil, ErrNoProvider
	}
	return w.provider.GetCoins(ctx, w.address)
}

func (w *Wallet) GetSpendableCoins(
	ctx context.Context, assetID ledgerlib.AssetID, amount uint64,
) ([]ledgerlib.Coin, error) {
	if w.provider == nil {
		return nil, ErrNoProvider
	}
	return w.provider.GetSpendableCoins(ctx, w.address, assetID, amount)
}

func (w *Wallet) GetAssetBalance(ctx context.Context, assetID ledgerlib.AssetID) (uint64, error) {
	if w.provider == nil {
		return 0, ErrNoProvider
	}
	return w.provider.GetAssetBalance(ctx, w.address, assetID)
}

func (w *Wallet) GetBalances(ctx context.Context) ([]ledgerlib.Balance, error) {
	if w.provider == nil {
		return nil, ErrNoProvider
	}
	return w.provider.GetBalances(ctx, w.address)
}

// SignTransaction signs the tx and stores the witness at the index pointed by
// the inputs owned by the wallet. Witness indexes are part of the tx id, so
// they must be set before any input is signed.
func (w *Wallet) SignTransaction(tx *ledgerlib.Transaction) error {
	index := -1
	for i, in := range tx.Inputs {
		if in.Owner != w.address {
			continue
		}
		if index >= 0 && int(in.WitnessIndex) != index {
			return fmt.Errorf(
				"input %d points to witness %d, other inputs of %s point to %d",
				i, in.WitnessIndex, w.address, index,
			)
		}
		index = int(in.WitnessIndex)
	}
	if index < 0 {
		return fmt.Errorf("tx has no input owned by %s", w.address)
	}

	witness, err := ledgerlib.SignWitness(w.privkey, tx.ID())
	if err != nil {
		return err
	}
	for len(tx.Witnesses) <= index {
		tx.Witnesses = append(tx.Witnesses, nil)
	}
	tx.Witnesses[index] = witness
	return nil
}

// Transfer sends amount of the given asset to the given address. The coins
// to spend are selected by the node and the change goes back to the wallet.
func (w *Wallet) Transfer(
	ctx context.Context, to ledgerlib.Address, amount uint64,
	assetID ledgerlib.AssetID, params ledgerlib.TxParameters,
) (ledgerlib.TxID, []ledgerlib.Receipt, error) {
	if w.provider == nil {
		return ledgerlib.TxID{}, nil, ErrNoProvider
	}

	coins, err := w.provider.GetSpendableCoins(ctx, w.address, assetID, amount)
	if err != nil {
		return ledgerlib.TxID{}, nil, fmt.Errorf("failed to select coins: %w", err)
	}

	inputs := make([]ledgerlib.Input, 0, len(coins))
	for _, coin := range coins {
		inputs = append(inputs, ledgerlib.InputFromCoin(coin, 0))
	}
	outputs := []ledgerlib.Output{
		{Type: ledgerlib.OutputCoin, To: to, Amount: amount, AssetID: assetID},
		{Type: ledgerlib.OutputChange, To: w.address, AssetID: assetID},
	}

	tx := w.provider.BuildTransferTx(inputs, outputs, params)
	if err := w.SignTransaction(tx); err != nil {
		return ledgerlib.TxID{}, nil, err
	}

	receipts, err := w.provider.SendTransaction(ctx, tx)
	if err != nil {
		return ledgerlib.TxID{}, nil, err
	}
	return tx.ID(), receipts, nil
}
