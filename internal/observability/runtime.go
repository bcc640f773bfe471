package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stylecloset/wardrobe-service/internal/config"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type Runtime struct {
	MeterProvider  *sdkmetric.MeterProvider
	LoggerProvider *sdklog.LoggerProvider
}

// InitRuntime initializes logging first so metric setup failures are already
// reported through the final logger.
func InitRuntime(ctx context.Context, cfg *config.Config) (*slog.Logger, *Runtime, error) {
	logger, loggerProvider, err := InitLogging(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	mp, err := InitMetrics(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return logger, &Runtime{MeterProvider: mp, LoggerProvider: loggerProvider}, nil
}

func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.MeterProvider != nil {
		if err := r.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if r.LoggerProvider != nil {
		if err := r.LoggerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
