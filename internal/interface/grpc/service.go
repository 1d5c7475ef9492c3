package grpcservice

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	ledgerv1 "github.com/arkade-os/ledgerkit/api-spec/ledger/v1"
	"github.com/arkade-os/ledgerkit/internal/config"
	interfaces "github.com/arkade-os/ledgerkit/internal/interface"
	"github.com/arkade-os/ledgerkit/internal/interface/grpc/handlers"
	"github.com/arkade-os/ledgerkit/internal/interface/grpc/interceptors"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	grpchealth "google.golang.org/grpc/health/grpc_health_v1"
)

const metricsShutdownTimeout = 5 * time.Second

type service struct {
	config        Config
	appConfig     *config.Config
	grpcServer    *grpc.Server
	healthSvc     *health.Server
	readinessSvc  *interceptors.ReadinessService
	listener      net.Listener
	appSvcStarted atomic.Bool
	appSvcClosed  atomic.Bool
}

func NewService(svcConfig Config, appConfig *config.Config) (interfaces.Service, error) {
	if err := svcConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service config: %s", err)
	}
	if err := appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %s", err)
	}

	return &service{
		config:    svcConfig,
		appConfig: appConfig,
	}, nil
}

func (s *service) Start() error {
	if err := s.start(); err != nil {
		s.stop()
		return err
	}
	log.Infof("started listening at %s", s.listener.Addr())

	if s.config.hasMetricsPort() {
		if err := s.appConfig.Metrics().Serve(s.config.metricsAddress()); err != nil {
			s.stop()
			return err
		}
	}

	if err := s.startAppServices(); err != nil {
		s.stop()
		return err
	}
	return nil
}

func (s *service) Stop() {
	s.stop()
	log.Info("shutdown service")
}

func (s *service) Addr() string {
	if s.listener == nil {
		return ""
	}
	return dialAddress(s.listener)
}

func (s *service) start() error {
	if err := s.newServer(); err != nil {
		return err
	}

	lis, err := net.Listen("tcp", s.config.address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %s", s.config.address(), err)
	}
	s.listener = lis

	go func() {
		if err := s.grpcServer.Serve(lis); err != nil &&
			err != grpc.ErrServerStopped {
			log.WithError(err).Error("grpc server stopped unexpectedly")
		}
	}()
	return nil
}

func (s *service) stop() {
	if s.appSvcStarted.CompareAndSwap(true, false) {
		if s.readinessSvc != nil {
			s.readinessSvc.MarkAppServiceStopped()
		}
		if s.healthSvc != nil {
			s.healthSvc.Shutdown()
		}
	}

	// the stores are opened with the app config, so they are closed even if
	// the app service never started
	if s.appSvcClosed.CompareAndSwap(false, true) {
		appSvc, err := s.appConfig.AppService()
		if err != nil {
			log.WithError(err).Warn("failed to get app service to stop")
		} else {
			appSvc.Stop()
		}
	}

	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}

	if metrics := s.appConfig.Metrics(); metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := metrics.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("failed to shutdown metrics server")
		}
	}
}

func (s *service) startAppServices() error {
	if !s.appSvcStarted.CompareAndSwap(false, true) {
		// app already started, skip
		return nil
	}

	appSvc, err := s.appConfig.AppService()
	if err != nil {
		s.appSvcStarted.Store(false)
		return fmt.Errorf("failed to create app service: %w", err)
	}
	if err := appSvc.Start(); err != nil {
		s.appSvcStarted.Store(false)
		return fmt.Errorf("failed to start app service: %w", err)
	}
	log.Info("started app service")

	s.readinessSvc.MarkAppServiceStarted()
	s.healthSvc.SetServingStatus(ledgerv1.ServiceName, grpchealth.HealthCheckResponse_SERVING)

	log.Info("ledger service is now ready")
	return nil
}

func (s *service) newServer() error {
	otelHandler := otelgrpc.NewServerHandler(
		otelgrpc.WithTracerProvider(otel.GetTracerProvider()),
	)

	s.readinessSvc = interceptors.NewReadinessService()

	grpcConfig := []grpc.ServerOption{
		interceptors.UnaryInterceptor(s.readinessSvc),
		grpc.StatsHandler(otelHandler),
		grpc.Creds(insecure.NewCredentials()),
	}

	grpcServer := grpc.NewServer(grpcConfig...)

	appSvc, err := s.appConfig.AppService()
	if err != nil {
		return fmt.Errorf("failed to create app service: %w", err)
	}
	ledgerHandler := handlers.NewLedgerHandler(appSvc)
	ledgerv1.RegisterLedgerServiceServer(grpcServer, ledgerHandler)

	healthSvc := health.NewServer()
	healthSvc.SetServingStatus(ledgerv1.ServiceName, grpchealth.HealthCheckResponse_NOT_SERVING)
	grpchealth.RegisterHealthServer(grpcServer, healthSvc)

	s.grpcServer = grpcServer
	s.healthSvc = healthSvc
	return nil
}
