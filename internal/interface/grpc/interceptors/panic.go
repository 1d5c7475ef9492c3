package interceptors

import (
	"context"
	"runtime/debug"

	"github.com/arkade-os/ledgerkit/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

var somethingWentWrong = errors.INTERNAL_ERROR.New("something went wrong")

// unaryPanicRecoveryInterceptor turns a panic in a handler into an
// INTERNAL_ERROR.
func unaryPanicRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context, req any,
		info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
	) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"method": info.FullMethod,
					"panic":  r,
				}).Errorf("recovered from panic, stack trace:\n%s", debug.Stack())
				resp, err = nil, somethingWentWrong
			}
		}()

		return handler(ctx, req)
	}
}
