package testhelpers

const (
	DefaultNumWallets     = 10
	DefaultCoinsPerWallet = 1
	DefaultCoinAmount     = 1_000_000_000
)

type WalletsConfig struct {
	NumWallets     uint64
	CoinsPerWallet uint64
	CoinAmount     uint64
}

// NewWalletsConfig returns the config for the given number of wallets, coins
// and amount per coin. Nil values fall back to the defaults.
func NewWalletsConfig(numWallets, coinsPerWallet, coinAmount *uint64) WalletsConfig {
	return WalletsConfig{
		NumWallets:     valueOrDefault(numWallets, DefaultNumWallets),
		CoinsPerWallet: valueOrDefault(coinsPerWallet, DefaultCoinsPerWallet),
		CoinAmount:     valueOrDefault(coinAmount, DefaultCoinAmount),
	}
}

func NewSingleWalletConfig(coinsPerWallet, coinAmount *uint64) WalletsConfig {
	one := uint64(1)
	return NewWalletsConfig(&one, coinsPerWallet, coinAmount)
}

func DefaultWalletsConfig() WalletsConfig {
	return NewWalletsConfig(nil, nil, nil)
}

func valueOrDefault(v *uint64, def uint64) uint64 {
	if v == nil {
		return def
	}
	return *v
}
