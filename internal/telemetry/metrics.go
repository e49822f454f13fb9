// Package telemetry provides OpenTelemetry metrics and tracing for
// simulation runs.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName identifies this module's meter and tracer.
const InstrumentationName = "github.com/example/prisoners"

// Metrics records simulation instruments.
type Metrics struct {
	trials      metric.Int64Counter
	runs        metric.Int64Counter
	runDuration metric.Float64Histogram
}

// NewMetrics creates instruments on the given meter provider. A nil provider
// uses the global one, which is a no-op unless an SDK has been installed.
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(InstrumentationName)

	m := &Metrics{}
	var err error

	m.trials, err = meter.Int64Counter(
		"prisoners.trials",
		metric.WithDescription("Number of trials run, by strategy and outcome"),
		metric.WithUnit("{trial}"),
	)
	if err != nil {
		return nil, err
	}

	m.runs, err = meter.Int64Counter(
		"prisoners.runs",
		metric.WithDescription("Number of completed simulation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	m.runDuration, err = meter.Float64Histogram(
		"prisoners.run.duration",
		metric.WithDescription("Wall-clock duration of a simulation run"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRun records the tally of a finished run.
func (m *Metrics) RecordRun(ctx context.Context, strategy string, passes, failures int, d time.Duration) {
	if m == nil {
		return
	}
	strategyAttr := attribute.String("strategy", strategy)

	m.trials.Add(ctx, int64(passes), metric.WithAttributes(strategyAttr, attribute.String("outcome", "pass")))
	m.trials.Add(ctx, int64(failures), metric.WithAttributes(strategyAttr, attribute.String("outcome", "fail")))
	m.runs.Add(ctx, 1, metric.WithAttributes(strategyAttr))
	m.runDuration.Record(ctx, float64(d.Microseconds())/1000, metric.WithAttributes(strategyAttr))
}
