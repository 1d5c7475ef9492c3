package main

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

// EnvReplacer replaces `-` to `_`.
// This is used to map flag like `--my-param` to environment variables like `LEDGER_MY_PARAM`.
var envReplacer = strings.NewReplacer("-", "_")

func init() {
	viper.SetEnvPrefix("LEDGER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(envReplacer)

	viper.SetDefault(urlFlagName, defaultUrl)
	viper.SetDefault(outputFlagName, outputJSON)
}

// flagValue returns the value of the flag if set on the command line, or the
// one from the environment otherwise.
func flagValue(ctx *cli.Context, name string) string {
	if ctx.IsSet(name) {
		return ctx.String(name)
	}
	return viper.GetString(name)
}
