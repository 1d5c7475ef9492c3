package testhelpers

import (
	"fmt"
	"sync"

	"github.com/arkade-os/ledgerkit/internal/config"
	interfaces "github.com/arkade-os/ledgerkit/internal/interface"
	grpcservice "github.com/arkade-os/ledgerkit/internal/interface/grpc"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	log "github.com/sirupsen/logrus"
)

// Node is a ledger node running in the current process. It must be stopped
// once not needed anymore.
type Node struct {
	svc  interfaces.Service
	stop sync.Once
}

// LaunchNode starts a node seeded with the given coins in addition to the
// genesis coins of the config. The node accepts requests as soon as this
// returns.
func LaunchNode(coins []ledgerlib.Coin, nodeConfig *config.Config) (*Node, error) {
	if nodeConfig == nil {
		nodeConfig = config.LocalConfig()
	}
	cfg := nodeConfig.Copy()
	cfg.GenesisCoins = append(cfg.GenesisCoins, coins...)

	svc, err := grpcservice.NewService(grpcservice.Config{
		Port:        cfg.Port,
		MetricsPort: cfg.MetricsPort,
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup node: %s", err)
	}
	if err := svc.Start(); err != nil {
		svc.Stop()
		return nil, fmt.Errorf("failed to start node: %s", err)
	}

	log.WithFields(log.Fields{
		"addr":  svc.Addr(),
		"coins": len(cfg.GenesisCoins),
	}).Debug("launched test node")
	return &Node{svc: svc}, nil
}

func (n *Node) Addr() string {
	return n.svc.Addr()
}

// Stop shuts the node down. It's safe to call it more than once.
func (n *Node) Stop() {
	n.stop.Do(n.svc.Stop)
}
