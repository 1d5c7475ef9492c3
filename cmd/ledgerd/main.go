package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arkade-os/ledgerkit/internal/config"
	grpcservice "github.com/arkade-os/ledgerkit/internal/interface/grpc"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Version will be set during build time
var Version string

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "ledgerd"
	app.Usage = "development ledger node"
	app.Flags = config.Flags
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadConfig(c)
	if err != nil {
		return fmt.Errorf("invalid config: %s", err)
	}
	cfg.Version = Version

	log.SetLevel(log.Level(cfg.LogLevel))

	svcConfig := grpcservice.Config{
		Port:        cfg.Port,
		MetricsPort: cfg.MetricsPort,
	}
	svc, err := grpcservice.NewService(svcConfig, cfg)
	if err != nil {
		return err
	}

	log.Infof("ledgerd config: %s", cfg)

	log.Info("starting service...")
	if err := svc.Start(); err != nil {
		return err
	}

	log.RegisterExitHandler(svc.Stop)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	<-sigChan

	log.Info("shutting down service...")
	log.Exit(0)
	return nil
}
