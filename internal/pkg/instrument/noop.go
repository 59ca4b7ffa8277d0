package instrument

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type noop struct {
	tp trace.TracerProvider
	mp metric.MeterProvider
}

// NewNoop returns instrumentation that records nothing. Tests use it.
func NewNoop() Instrumentation {
	return &noop{tp: tracenoop.NewTracerProvider(), mp: metricnoop.NewMeterProvider()}
}

func (n *noop) Tracer(name string) trace.Tracer { return n.tp.Tracer(name) }

func (n *noop) Meter(name string) metric.Meter { return n.mp.Meter(name) }

func (n *noop) Shutdown(context.Context) error { return nil }
