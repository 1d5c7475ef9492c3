package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAmounts(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fixtures := []struct {
			amount    uint64
			decimals  uint
			formatted string
		}{
			{1, 0, "1"},
			{1500, 3, "1.5"},
			{100_000_000, 8, "1"},
			{1, 8, "0.00000001"},
			{18446744073709551615, 0, "18446744073709551615"},
		}
		for _, f := range fixtures {
			require.Equal(t, f.formatted, formatAmount(f.amount, f.decimals))

			amount, err := parseAmount(f.formatted, f.decimals)
			require.NoError(t, err)
			require.Equal(t, f.amount, amount)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		fixtures := []struct {
			amount   string
			decimals uint
		}{
			{"", 0},
			{"abc", 0},
			{"0", 0},
			{"-1", 0},
			{"1.5", 0},
			{"0.000000001", 8},
			{"18446744073709551616", 0},
		}
		for _, f := range fixtures {
			_, err := parseAmount(f.amount, f.decimals)
			require.Error(t, err, f.amount)
		}
	})
}
