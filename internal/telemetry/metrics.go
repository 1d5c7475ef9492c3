package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/arkade-os/ledgerkit/internal/core/domain"
	"github.com/arkade-os/ledgerkit/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const namespace = "ledgerd"

// Metrics is the prometheus backed implementation of ports.Telemetry.
// Every instance owns its registry so that more than one node can live in the
// same process.
type Metrics struct {
	registry *prometheus.Registry

	txsExecuted  prometheus.Counter
	inputsSpent  prometheus.Counter
	coinsCreated *prometheus.CounterVec
	volume       *prometheus.CounterVec
	gasUsed      prometheus.Counter
	blockHeight  prometheus.Gauge

	server   *http.Server
	listener net.Listener
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		txsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_executed_total",
			Help:      "Number of transactions executed by the node",
		}),
		inputsSpent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_spent_total",
			Help:      "Number of coins spent by executed transactions",
		}),
		coinsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_created_total",
			Help:      "Number of coins created, by origin",
		}, []string{"origin"}),
		volume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_volume_total",
			Help:      "Amount moved per asset",
		}, []string{"asset_id"}),
		gasUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gas_used_total",
			Help:      "Gas consumed by executed transactions",
		}),
		blockHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "block_height",
			Help:      "Current block height of the node",
		}),
	}

	m.registry.MustRegister(
		m.txsExecuted, m.inputsSpent, m.coinsCreated, m.volume, m.gasUsed, m.blockHeight,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveEvents(events []domain.Event) {
	for _, event := range events {
		switch e := event.(type) {
		case domain.GenesisCoinsAdded:
			m.coinsCreated.WithLabelValues("genesis").Add(float64(e.NumCoins))
			for asset, amount := range e.Amounts {
				m.volume.WithLabelValues(asset).Add(float64(amount))
			}
		case domain.TransactionExecuted:
			m.txsExecuted.Inc()
			m.inputsSpent.Add(float64(e.NumInputs))
			m.coinsCreated.WithLabelValues("transaction").Add(float64(e.NumOutputs))
			m.gasUsed.Add(float64(e.GasUsed))
			for asset, amount := range e.Amounts {
				m.volume.WithLabelValues(asset).Add(float64(amount))
			}
		default:
			log.Debugf("telemetry: ignoring event of type %d", event.GetType())
		}
	}
}

func (m *Metrics) SetBlockHeight(height uint32) {
	m.blockHeight.Set(float64(height))
}

// Serve exposes the registry on /metrics at the given address. A zero port
// binds an ephemeral one, see Addr.
func (m *Metrics) Serve(addr string) error {
	if m.server != nil {
		return fmt.Errorf("metrics server already started")
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %s", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	m.listener = lis

	go func() {
		if err := m.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped unexpectedly")
		}
	}()
	log.Infof("serving metrics at %s/metrics", lis.Addr())
	return nil
}

func (m *Metrics) Addr() string {
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	err := m.server.Shutdown(ctx)
	m.server = nil
	m.listener = nil
	return err
}

var _ ports.Telemetry = (*Metrics)(nil)
