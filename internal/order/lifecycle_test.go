package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
)

var allStatuses = []model.OrderStatus{
	model.OrderPending, model.OrderInProgress, model.OrderWashing, model.OrderDrying,
	model.OrderReady, model.OrderCompleted, model.OrderCancelled,
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]model.OrderStatus]bool{
		{model.OrderPending, model.OrderInProgress}: true,
		{model.OrderInProgress, model.OrderWashing}: true,
		{model.OrderWashing, model.OrderDrying}:     true,
		{model.OrderDrying, model.OrderReady}:       true,
		{model.OrderReady, model.OrderCompleted}:    true,

		{model.OrderPending, model.OrderCancelled}:    true,
		{model.OrderInProgress, model.OrderCancelled}: true,
		{model.OrderWashing, model.OrderCancelled}:    true,
		{model.OrderDrying, model.OrderCancelled}:     true,
		{model.OrderReady, model.OrderCancelled}:      true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			assert.Equal(t, allowed[[2]model.OrderStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_NeverBackToPending(t *testing.T) {
	for _, from := range allStatuses {
		assert.False(t, CanTransition(from, model.OrderPending))
	}
}

func TestTerminalStatusesHaveNoEdges(t *testing.T) {
	for _, from := range allStatuses {
		if !from.Terminal() {
			continue
		}
		for _, to := range allStatuses {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.True(t, model.OrderCompleted.Terminal())
	assert.True(t, model.OrderCancelled.Terminal())
	assert.False(t, model.OrderReady.Terminal())
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("ready-for-pickup")
	require.NoError(t, err)
	assert.Equal(t, model.OrderReady, got)

	got, err = ParseStatus(" Washing ")
	require.NoError(t, err)
	assert.Equal(t, model.OrderWashing, got)

	_, err = ParseStatus("folded")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCycleDuration(t *testing.T) {
	assert.Equal(t, 30*time.Minute, CycleDuration("Quick"))
	assert.Equal(t, 90*time.Minute, CycleDuration("heavy"))
	assert.Equal(t, 60*time.Minute, CycleDuration("Normal"))
	assert.Equal(t, 60*time.Minute, CycleDuration("Eco"))
}
