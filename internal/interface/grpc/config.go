package grpcservice

import (
	"fmt"
	"net"
)

type Config struct {
	// Port to listen on, 0 binds a random one.
	Port uint32
	// MetricsPort of the prometheus endpoint, 0 disables it.
	MetricsPort uint32
}

func (c Config) Validate() error {
	if c.Port > 0 && c.Port == c.MetricsPort {
		return fmt.Errorf("metrics port must be different from service port")
	}
	return nil
}

func (c Config) address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) metricsAddress() string {
	return fmt.Sprintf(":%d", c.MetricsPort)
}

func (c Config) hasMetricsPort() bool {
	return c.MetricsPort > 0
}

// dialAddress returns a local address to reach the given listener.
func dialAddress(lis net.Listener) string {
	if addr, ok := lis.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("127.0.0.1:%d", addr.Port)
	}
	return lis.Addr().String()
}
