package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const (
	urlFlagName      = "url"
	addressFlagName  = "address"
	assetFlagName    = "asset"
	amountFlagName   = "amount"
	txidFlagName     = "txid"
	allFlagName      = "all"
	outputFlagName   = "output"
	decimalsFlagName = "decimals"

	defaultUrl = "127.0.0.1:4000"
	outputJSON = "json"
	outputYAML = "yaml"
)

var (
	urlFlag = &cli.StringFlag{
		Name:  urlFlagName,
		Usage: "the url where to reach the ledger node",
		Value: defaultUrl,
	}
	outputFlag = &cli.StringFlag{
		Name:  outputFlagName,
		Usage: fmt.Sprintf("output format, one of %s, %s", outputJSON, outputYAML),
		Value: outputJSON,
	}
	decimalsFlag = &cli.UintFlag{
		Name:  decimalsFlagName,
		Usage: "number of decimals used to display and parse amounts",
	}
	addressFlag = &cli.StringFlag{
		Name:     addressFlagName,
		Usage:    "the address of the account",
		Required: true,
	}
	assetFlag = &cli.StringFlag{
		Name:  assetFlagName,
		Usage: "the asset id, defaults to the base asset",
	}
	amountFlag = &cli.StringFlag{
		Name:     amountFlagName,
		Usage:    "the amount to cover, scaled by --decimals",
		Required: true,
	}
	txidFlag = &cli.StringFlag{
		Name:     txidFlagName,
		Usage:    "the id of the transaction",
		Required: true,
	}
	allFlag = &cli.BoolFlag{
		Name:  allFlagName,
		Usage: "fetch every page of balances",
	}
)
