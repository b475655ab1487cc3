package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ExposedOnPrometheusHandler(t *testing.T) {
	handler, shutdown, err := InitMeterProvider("laundry-test", "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	m, err := NewMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.Transition(ctx, "pending", "in-progress")
	m.CodeAttempts(ctx, "ORD", 2, true)
	m.PushDelivery(ctx, "sent")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "laundry_order_transitions")
	assert.Contains(t, string(body), "laundry_push_deliveries")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Transition(context.Background(), "a", "b")
		m.TransitionRejected(context.Background(), "stale")
		m.CodeAttempts(context.Background(), "ORD", 1, true)
		m.PushDelivery(context.Background(), "sent")
		m.RemindersCreated(context.Background(), 3)
	})
}
