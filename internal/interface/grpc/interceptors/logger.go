package interceptors

import (
	"context"
	"errors"
	"time"

	ledgererrors "github.com/arkade-os/ledgerkit/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

func unaryLogger(
	ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	entry := log.WithFields(log.Fields{
		"method":  info.FullMethod,
		"elapsed": time.Since(start),
	})
	if err == nil {
		entry.Trace("request served")
		return resp, nil
	}

	var structuredErr ledgererrors.Error
	if !errors.As(err, &structuredErr) {
		entry.WithError(err).Debug("request failed")
		return resp, err
	}
	if structuredErr.Code() == ledgererrors.INTERNAL_ERROR.Code {
		structuredErr.Log().WithContext(ctx).WithFields(entry.Data).Error(structuredErr.Error())
		return resp, err
	}
	entry.WithField("error", structuredErr.CodeName()).Debug(structuredErr.Error())
	return resp, err
}
