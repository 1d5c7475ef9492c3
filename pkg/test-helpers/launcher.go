package testhelpers

import (
	"context"
	"fmt"
	"testing"

	"github.com/arkade-os/ledgerkit/internal/config"
	ledgersdk "github.com/arkade-os/ledgerkit/pkg/client-lib"
	"github.com/arkade-os/ledgerkit/pkg/client-lib/wallet"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
)

// Launcher provisions wallets funded with synthetic coins against a node
// launched with its config.
type Launcher struct {
	nodeConfig *config.Config
}

func FromConfig(nodeConfig *config.Config) *Launcher {
	return &Launcher{nodeConfig: nodeConfig}
}

// DefaultLauncher launches nodes that keep everything in memory and listen on
// a random local port.
func DefaultLauncher() *Launcher {
	return FromConfig(config.LocalConfig())
}

// TestNetwork owns the node launched for a set of wallets. All the wallets
// share the same provider and none of them can be used once the network is
// closed.
type TestNetwork struct {
	Provider *ledgersdk.Provider
	Wallets  []*wallet.Wallet

	node *Node
}

func (n *TestNetwork) Addr() string {
	return n.node.Addr()
}

func (n *TestNetwork) Close() {
	n.Provider.Close()
	n.node.Stop()
}

func (l *Launcher) LaunchProviderAndGetWallets(
	_ context.Context, cfg WalletsConfig,
) (*TestNetwork, error) {
	wallets := make([]*wallet.Wallet, 0, cfg.NumWallets)
	allCoins := make([]ledgerlib.Coin, 0, cfg.NumWallets*cfg.CoinsPerWallet)
	for i := uint64(0); i < cfg.NumWallets; i++ {
		w, err := wallet.NewRandomWallet(nil)
		if err != nil {
			return nil, err
		}
		coins, err := SetupCoins(w.Address(), cfg.CoinsPerWallet, cfg.CoinAmount)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
		allCoins = append(allCoins, coins...)
	}

	provider, node, err := SetupTestProvider(allCoins, l.nodeConfig)
	if err != nil {
		return nil, err
	}
	for _, w := range wallets {
		w.SetProvider(provider)
	}

	return &TestNetwork{
		Provider: provider,
		Wallets:  wallets,
		node:     node,
	}, nil
}

func (l *Launcher) LaunchProviderAndGetSingleWallet(
	ctx context.Context,
) (*TestNetwork, *wallet.Wallet, error) {
	network, err := l.LaunchProviderAndGetWallets(ctx, NewSingleWalletConfig(nil, nil))
	if err != nil {
		return nil, nil, err
	}
	return network, network.Wallets[0], nil
}

// LaunchForTest is like LaunchProviderAndGetWallets but fails the test on
// error and closes the network when the test ends.
func (l *Launcher) LaunchForTest(t testing.TB, cfg WalletsConfig) *TestNetwork {
	t.Helper()

	network, err := l.LaunchProviderAndGetWallets(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to launch test network: %s", err)
	}
	t.Cleanup(network.Close)
	return network
}

// SetupTestProvider launches a node seeded with the given coins and returns a
// provider connected to it. The coins are spendable as soon as this returns.
func SetupTestProvider(
	coins []ledgerlib.Coin, nodeConfig *config.Config,
) (*ledgersdk.Provider, *Node, error) {
	node, err := LaunchNode(coins, nodeConfig)
	if err != nil {
		return nil, nil, err
	}
	provider, err := ledgersdk.Connect(node.Addr())
	if err != nil {
		node.Stop()
		return nil, nil, fmt.Errorf("failed to connect to test node: %s", err)
	}
	return provider, node, nil
}
