package main

import (
	"fmt"
	"os"

	ledgersdk "github.com/arkade-os/ledgerkit/pkg/client-lib"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	"github.com/urfave/cli/v2"
)

var (
	Version  string
	provider *ledgersdk.Provider
)

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "ledger-cli"
	app.Usage = "query and submit transactions to a ledger node"
	app.Commands = append(
		app.Commands,
		&infoCommand,
		&coinsCommand,
		&spendableCommand,
		&balanceCommand,
		&balancesCommand,
		&txCommand,
		&receiptsCommand,
	)
	app.Flags = []cli.Flag{urlFlag, outputFlag, decimalsFlag}
	app.Before = func(ctx *cli.Context) error {
		p, err := ledgersdk.Connect(flagValue(ctx, urlFlagName))
		if err != nil {
			return fmt.Errorf("error initializing ledger provider: %v", err)
		}
		provider = p
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		if provider != nil {
			provider.Close()
		}
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(fmt.Errorf("error: %v", err))
		os.Exit(1)
	}
}

var (
	infoCommand = cli.Command{
		Name:  "info",
		Usage: "Shows info about the ledger node",
		Action: func(ctx *cli.Context) error {
			info, err := provider.NodeInfo(ctx.Context)
			if err != nil {
				return err
			}
			return printResponse(ctx, info)
		},
	}
	coinsCommand = cli.Command{
		Name:  "coins",
		Usage: "Lists all the coins of an address",
		Flags: []cli.Flag{addressFlag, assetFlag},
		Action: func(ctx *cli.Context) error {
			return listCoins(ctx)
		},
	}
	spendableCommand = cli.Command{
		Name:  "spendable",
		Usage: "Shows the coins selected by the node to cover an amount",
		Flags: []cli.Flag{addressFlag, assetFlag, amountFlag},
		Action: func(ctx *cli.Context) error {
			return spendableCoins(ctx)
		},
	}
	balanceCommand = cli.Command{
		Name:  "balance",
		Usage: "Shows the balance of an address for one asset",
		Flags: []cli.Flag{addressFlag, assetFlag},
		Action: func(ctx *cli.Context) error {
			return balance(ctx)
		},
	}
	balancesCommand = cli.Command{
		Name:  "balances",
		Usage: "Shows the balance of an address for every asset",
		Flags: []cli.Flag{addressFlag, allFlag},
		Action: func(ctx *cli.Context) error {
			return balances(ctx)
		},
	}
	txCommand = cli.Command{
		Name:  "tx",
		Usage: "Shows a transaction",
		Flags: []cli.Flag{txidFlag},
		Action: func(ctx *cli.Context) error {
			tx, err := provider.GetTransactionByID(ctx.Context, ctx.String(txidFlagName))
			if err != nil {
				return err
			}
			return printResponse(ctx, newTxView(tx, decimals(ctx)))
		},
	}
	receiptsCommand = cli.Command{
		Name:  "receipts",
		Usage: "Shows the receipts of an executed transaction",
		Flags: []cli.Flag{txidFlag},
		Action: func(ctx *cli.Context) error {
			receipts, err := provider.Client().Receipts(ctx.Context, ctx.String(txidFlagName))
			if err != nil {
				return err
			}
			return printResponse(ctx, newReceiptViews(receipts, decimals(ctx)))
		},
	}
)

func listCoins(ctx *cli.Context) error {
	address, err := ledgerlib.AddressFromString(ctx.String(addressFlagName))
	if err != nil {
		return err
	}
	assetID, err := parseOptionalAsset(ctx)
	if err != nil {
		return err
	}

	coins, err := provider.GetCoins(ctx.Context, address)
	if err != nil {
		return err
	}
	if assetID != nil {
		filtered := make([]ledgerlib.Coin, 0, len(coins))
		for _, coin := range coins {
			if coin.AssetID == *assetID {
				filtered = append(filtered, coin)
			}
		}
		coins = filtered
	}
	return printResponse(ctx, newCoinViews(coins, decimals(ctx)))
}

func spendableCoins(ctx *cli.Context) error {
	address, err := ledgerlib.AddressFromString(ctx.String(addressFlagName))
	if err != nil {
		return err
	}
	assetID, err := parseAsset(ctx)
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx.String(amountFlagName), decimals(ctx))
	if err != nil {
		return err
	}

	coins, err := provider.GetSpendableCoins(ctx.Context, address, assetID, amount)
	if err != nil {
		return err
	}
	return printResponse(ctx, newCoinViews(coins, decimals(ctx)))
}

func balance(ctx *cli.Context) error {
	address, err := ledgerlib.AddressFromString(ctx.String(addressFlagName))
	if err != nil {
		return err
	}
	assetID, err := parseAsset(ctx)
	if err != nil {
		return err
	}

	amount, err := provider.GetAssetBalance(ctx.Context, address, assetID)
	if err != nil {
		return err
	}
	return printResponse(ctx, balanceView{
		AssetID: assetID.String(),
		Amount:  formatAmount(amount, decimals(ctx)),
	})
}

func balances(ctx *cli.Context) error {
	address, err := ledgerlib.AddressFromString(ctx.String(addressFlagName))
	if err != nil {
		return err
	}

	var list []ledgerlib.Balance
	if ctx.Bool(allFlagName) {
		list, err = provider.GetAllBalances(ctx.Context, address)
	} else {
		list, err = provider.GetBalances(ctx.Context, address)
	}
	if err != nil {
		return err
	}
	return printResponse(ctx, newBalanceViews(list, decimals(ctx)))
}
