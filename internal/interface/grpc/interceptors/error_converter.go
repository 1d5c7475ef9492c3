package interceptors

import (
	"context"
	"errors"
	"strconv"

	ledgererrors "github.com/arkade-os/ledgerkit/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	ErrorNameKey     = "x-error-name"
	ErrorCodeKey     = "x-error-code"
	errorMetadataKey = "x-error-md-"
)

// gRPCError is a wrapper implementing GRPCStatus method for errors.Error
// the grpc server uses it to return the status error with the associated code.
type gRPCError struct {
	err ledgererrors.Error
}

func (e gRPCError) Error() string {
	return e.err.Error()
}

func (e gRPCError) Unwrap() error {
	return e.err
}

func (e gRPCError) GRPCStatus() *status.Status {
	return status.New(e.err.GrpcCode(), e.err.Error())
}

// errorConverter turns structured errors into status errors. Name, code and
// metadata of the error travel in the response trailer.
func errorConverter(
	ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		var structuredErr ledgererrors.Error
		if errors.As(err, &structuredErr) {
			trailer := metadata.Pairs(
				ErrorNameKey, structuredErr.CodeName(),
				ErrorCodeKey, strconv.Itoa(int(structuredErr.Code())),
			)
			for k, v := range structuredErr.Metadata() {
				trailer.Append(errorMetadataKey+k, v)
			}
			if err := grpc.SetTrailer(ctx, trailer); err != nil {
				log.WithError(err).Debugf("failed to set error trailer for %s", info.FullMethod)
			}
			return nil, gRPCError{structuredErr}
		}
	}
	return resp, err
}
