package asset

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/milk9111/helmet/asset"

type loadMetrics struct {
	duration metric.Float64Histogram
	failures metric.Int64Counter
}

func newLoadMetrics(mp metric.MeterProvider) *loadMetrics {
	meter := mp.Meter(meterName)
	fallback := noop.NewMeterProvider().Meter(meterName)

	duration, err := meter.Float64Histogram("asset.load.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Time spent in an asset loader."))
	if err != nil {
		duration, _ = fallback.Float64Histogram("asset.load.duration")
	}
	failures, err := meter.Int64Counter("asset.load.failures",
		metric.WithDescription("Asset loads that returned an error."))
	if err != nil {
		failures, _ = fallback.Int64Counter("asset.load.failures")
	}
	return &loadMetrics{duration: duration, failures: failures}
}

func (m *loadMetrics) record(path string, reload bool, elapsed time.Duration, failed bool) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("asset.path", path),
		attribute.Bool("asset.reload", reload),
	)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	if failed {
		m.failures.Add(ctx, 1, attrs)
	}
}
