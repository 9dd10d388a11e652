package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/brindes/backend/internal/infrastructure/config"
	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

func startProfiler(cfg config.TelemetryConfig, version string, logger *zap.Logger) (*pyroscope.Profiler, error) {
	tags := map[string]string{"version": version}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.ProfilerAddress,
		Logger:          logger.Named("pyroscope").Sugar(),
		Tags:            tags,
		ProfileTypes:    profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("start profiler: %w", err)
	}
	logger.Info("Profiler started",
		zap.String("server_address", cfg.ProfilerAddress),
		zap.String("application_name", cfg.ServiceName),
	)
	return profiler, nil
}

// linkProfiles tags goroutines running inside a span with its span ID so
// flame graphs can be opened from a trace
func linkProfiles(tp trace.TracerProvider) trace.TracerProvider {
	return otelpyroscope.NewTracerProvider(tp)
}

// WithProfileLabels runs fn with pprof labels attached to its samples.
// Pairs are key, value; a trailing odd key is ignored.
func WithProfileLabels(ctx context.Context, fn func(context.Context), pairs ...string) {
	if len(pairs) < 2 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs[:len(pairs)&^1]...), fn)
}
