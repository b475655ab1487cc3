package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "laundry-service-backend"

// Metrics holds the service counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	transitions   metric.Int64Counter
	rejected      metric.Int64Counter
	codeAttempts  metric.Int64Histogram
	pushDelivered metric.Int64Counter
	reminders     metric.Int64Counter
}

// NewMetrics registers the counters on the global MeterProvider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	transitions, err := meter.Int64Counter("laundry.order.transitions",
		metric.WithDescription("Committed order status transitions"),
	)
	if err != nil {
		return nil, err
	}

	rejected, err := meter.Int64Counter("laundry.order.transitions.rejected",
		metric.WithDescription("Transitions rejected by validation, version checks or storage"),
	)
	if err != nil {
		return nil, err
	}

	codeAttempts, err := meter.Int64Histogram("laundry.codegen.attempts",
		metric.WithDescription("Candidates consumed per generated code"),
	)
	if err != nil {
		return nil, err
	}

	pushDelivered, err := meter.Int64Counter("laundry.push.deliveries",
		metric.WithDescription("Web push delivery attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	reminders, err := meter.Int64Counter("laundry.reminders.created",
		metric.WithDescription("Pickup reminder notifications created"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		transitions:   transitions,
		rejected:      rejected,
		codeAttempts:  codeAttempts,
		pushDelivered: pushDelivered,
		reminders:     reminders,
	}, nil
}

func (m *Metrics) Transition(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

func (m *Metrics) TransitionRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// CodeAttempts matches codegen.AttemptObserver.
func (m *Metrics) CodeAttempts(ctx context.Context, prefix string, attempts int, ok bool) {
	if m == nil {
		return
	}
	m.codeAttempts.Record(ctx, int64(attempts), metric.WithAttributes(
		attribute.String("prefix", prefix),
		attribute.Bool("ok", ok),
	))
}

func (m *Metrics) PushDelivery(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.pushDelivered.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RemindersCreated(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.reminders.Add(ctx, int64(n))
}
