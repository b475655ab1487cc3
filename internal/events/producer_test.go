package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	otel.SetTracerProvider(sdktrace.NewTracerProvider())
	otel.SetTextMapPropagator(propagation.TraceContext{})

	w := &captureWriter{}
	p := NewProducerWithWriter(w, "order.status_changed")

	machineID := uint(3)
	ev := StatusChanged{
		EventID:    "evt-1",
		OrderID:    "ORDAAAA0001",
		CustomerID: "CUS000001",
		From:       "pending",
		To:         "in-progress",
		MachineID:  &machineID,
		Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), ev.OrderID, ev))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "ORDAAAA0001", string(msg.Key))

	var decoded StatusChanged
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "in-progress", decoded.To)
	require.NotNil(t, decoded.MachineID)
	assert.Equal(t, uint(3), *decoded.MachineID)

	assert.NotEmpty(t, NewMessageCarrier(&msg).Get("traceparent"))
}

func TestProducer_PublishError(t *testing.T) {
	w := &captureWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, "order.status_changed")

	err := p.Publish(context.Background(), "ORDAAAA0001", StatusChanged{})
	assert.EqualError(t, err, "broker down")
}

func TestMessageCarrier_SetOverwrites(t *testing.T) {
	msg := kafka.Message{}
	c := NewMessageCarrier(&msg)
	c.Set("k", "v1")
	c.Set("k", "v2")
	assert.Equal(t, "v2", c.Get("k"))
	assert.Equal(t, []string{"k"}, c.Keys())
}
