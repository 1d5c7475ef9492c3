package interceptors

import (
	middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	"google.golang.org/grpc"
)

// UnaryInterceptor returns the chain of unary interceptors of the server.
func UnaryInterceptor(readiness *ReadinessService) grpc.ServerOption {
	return grpc.UnaryInterceptor(
		middleware.ChainUnaryServer(
			unaryLogger,
			errorConverter,
			unaryPanicRecoveryInterceptor(),
			unaryReadinessHandler(readiness),
		),
	)
}
