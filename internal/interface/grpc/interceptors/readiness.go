package interceptors

import (
	"context"
	"strings"
	"sync/atomic"

	ledgerv1 "github.com/arkade-os/ledgerkit/api-spec/ledger/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ledgerServiceNotReadyMsg = "ledger service not ready: node is starting or shutting down"

var ledgerServiceMethodPrefix = "/" + ledgerv1.ServiceName + "/"

type ReadinessService struct {
	appStarted atomic.Bool
}

func NewReadinessService() *ReadinessService {
	return &ReadinessService{}
}

func (r *ReadinessService) MarkAppServiceStarted() {
	r.appStarted.Store(true)
}

func (r *ReadinessService) MarkAppServiceStopped() {
	r.appStarted.Store(false)
}

func (r *ReadinessService) Check(_ context.Context, fullMethod string) error {
	if r == nil || !isProtectedServiceMethod(fullMethod) {
		return nil
	}
	if !r.appStarted.Load() {
		return status.Error(codes.Unavailable, ledgerServiceNotReadyMsg)
	}
	return nil
}

func isProtectedServiceMethod(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, ledgerServiceMethodPrefix)
}

func unaryReadinessHandler(readiness *ReadinessService) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context, req any,
		info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
	) (any, error) {
		if err := readiness.Check(ctx, info.FullMethod); err != nil {
			return nil, err
		}

		return handler(ctx, req)
	}
}
