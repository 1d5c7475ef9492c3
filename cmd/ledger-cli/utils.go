package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

type coinView struct {
	UtxoID       string `json:"utxoId"       yaml:"utxo_id"`
	Owner        string `json:"owner"        yaml:"owner"`
	AssetID      string `json:"assetId"      yaml:"asset_id"`
	Amount       string `json:"amount"       yaml:"amount"`
	Maturity     uint32 `json:"maturity"     yaml:"maturity"`
	BlockCreated uint32 `json:"blockCreated" yaml:"block_created"`
}

func newCoinViews(coins []ledgerlib.Coin, decimals uint) []coinView {
	views := make([]coinView, 0, len(coins))
	for _, c := range coins {
		views = append(views, coinView{
			UtxoID:       c.UtxoID.String(),
			Owner:        c.Owner.String(),
			AssetID:      c.AssetID.String(),
			Amount:       formatAmount(c.Amount, decimals),
			Maturity:     c.Maturity,
			BlockCreated: c.BlockCreated,
		})
	}
	return views
}

type balanceView struct {
	AssetID string `json:"assetId" yaml:"asset_id"`
	Amount  string `json:"amount"  yaml:"amount"`
}

func newBalanceViews(balances []ledgerlib.Balance, decimals uint) []balanceView {
	views := make([]balanceView, 0, len(balances))
	for _, b := range balances {
		views = append(views, balanceView{
			AssetID: b.AssetID.String(),
			Amount:  formatAmount(b.Amount, decimals),
		})
	}
	return views
}

type receiptView struct {
	Type    string `json:"type"              yaml:"type"`
	Val     uint64 `json:"val,omitempty"     yaml:"val,omitempty"`
	Result  uint64 `json:"result"            yaml:"result"`
	GasUsed uint64 `json:"gasUsed,omitempty" yaml:"gas_used,omitempty"`
	To      string `json:"to,omitempty"      yaml:"to,omitempty"`
	Amount  string `json:"amount,omitempty"  yaml:"amount,omitempty"`
	AssetID string `json:"assetId,omitempty" yaml:"asset_id,omitempty"`
}

func newReceiptViews(receipts []ledgerlib.Receipt, decimals uint) []receiptView {
	views := make([]receiptView, 0, len(receipts))
	for _, r := range receipts {
		view := receiptView{
			Type:    r.Type.String(),
			Val:     r.Val,
			Result:  r.Result,
			GasUsed: r.GasUsed,
		}
		if r.Type == ledgerlib.ReceiptTransfer {
			view.To = r.To.String()
			view.Amount = formatAmount(r.Amount, decimals)
			view.AssetID = r.AssetID.String()
		}
		views = append(views, view)
	}
	return views
}

type txView struct {
	ID          string       `json:"id"          yaml:"id"`
	Status      string       `json:"status"      yaml:"status"`
	BlockHeight uint32       `json:"blockHeight" yaml:"block_height"`
	Time        string       `json:"time"        yaml:"time"`
	GasPrice    uint64       `json:"gasPrice"    yaml:"gas_price"`
	GasLimit    uint64       `json:"gasLimit"    yaml:"gas_limit"`
	Script      string       `json:"script"      yaml:"script"`
	Inputs      []coinView   `json:"inputs"      yaml:"inputs"`
	Outputs     []outputView `json:"outputs"     yaml:"outputs"`
	Witnesses   int          `json:"witnesses"   yaml:"witnesses"`
}

type outputView struct {
	Type    string `json:"type"    yaml:"type"`
	To      string `json:"to"      yaml:"to"`
	Amount  string `json:"amount"  yaml:"amount"`
	AssetID string `json:"assetId" yaml:"asset_id"`
}

func newTxView(tx *ledgerlib.TransactionResponse, decimals uint) txView {
	inputs := make([]ledgerlib.Coin, 0, len(tx.Transaction.Inputs))
	for _, in := range tx.Transaction.Inputs {
		inputs = append(inputs, ledgerlib.Coin{
			UtxoID:   in.UtxoID,
			Owner:    in.Owner,
			Amount:   in.Amount,
			AssetID:  in.AssetID,
			Maturity: in.Maturity,
		})
	}
	outputs := make([]outputView, 0, len(tx.Transaction.Outputs))
	for _, out := range tx.Transaction.Outputs {
		outputs = append(outputs, outputView{
			Type:    out.Type.String(),
			To:      out.To.String(),
			Amount:  formatAmount(out.Amount, decimals),
			AssetID: out.AssetID.String(),
		})
	}
	return txView{
		ID:          tx.ID.String(),
		Status:      tx.Status.String(),
		BlockHeight: tx.BlockHeight,
		Time:        tx.Time.UTC().Format(time.RFC3339),
		GasPrice:    tx.Transaction.GasPrice,
		GasLimit:    tx.Transaction.GasLimit,
		Script:      hex.EncodeToString(tx.Transaction.Script),
		Inputs:      newCoinViews(inputs, decimals),
		Outputs:     outputs,
		Witnesses:   len(tx.Transaction.Witnesses),
	}
}

func decimals(ctx *cli.Context) uint {
	return ctx.Uint(decimalsFlagName)
}

// formatAmount returns the amount in units of 10^decimals.
func formatAmount(amount uint64, decimals uint) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals)).String()
}

// parseAmount is the inverse of formatAmount. Amounts with more precision than
// decimals are rejected.
func parseAmount(amount string, decimals uint) (uint64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %s", amount)
	}
	d = d.Mul(decimal.New(1, int32(decimals)))
	if d.Sign() <= 0 {
		return 0, fmt.Errorf("amount must be greater than 0")
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimals", amount, decimals)
	}
	units := d.BigInt()
	if !units.IsUint64() {
		return 0, fmt.Errorf("amount %s is too large", amount)
	}
	return units.Uint64(), nil
}

func parseAsset(ctx *cli.Context) (ledgerlib.AssetID, error) {
	assetID, err := parseOptionalAsset(ctx)
	if err != nil {
		return ledgerlib.AssetID{}, err
	}
	if assetID == nil {
		return ledgerlib.BaseAssetID, nil
	}
	return *assetID, nil
}

func parseOptionalAsset(ctx *cli.Context) (*ledgerlib.AssetID, error) {
	asset := ctx.String(assetFlagName)
	if asset == "" {
		return nil, nil
	}
	assetID, err := ledgerlib.AssetIDFromString(asset)
	if err != nil {
		return nil, err
	}
	return &assetID, nil
}

func printResponse(ctx *cli.Context, resp any) error {
	switch format := flagValue(ctx, outputFlagName); format {
	case outputYAML:
		return printYAML(resp)
	case outputJSON, "":
		return printJSON(resp)
	default:
		return fmt.Errorf("unknown output format %s", format)
	}
}

func printJSON(resp any) error {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonBytes))
	return nil
}

func printYAML(resp any) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(resp); err != nil {
		return err
	}
	return enc.Close()
}
