// Package order owns the order lifecycle: creation, status transitions and
// their side effects on machines, the audit log and notifications.
package order

import (
	"strings"
	"time"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
)

// readyAlias is accepted on input and stored as model.OrderReady.
const readyAlias = "ready-for-pickup"

var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderPending:    {model.OrderInProgress, model.OrderCancelled},
	model.OrderInProgress: {model.OrderWashing, model.OrderCancelled},
	model.OrderWashing:    {model.OrderDrying, model.OrderCancelled},
	model.OrderDrying:     {model.OrderReady, model.OrderCancelled},
	model.OrderReady:      {model.OrderCompleted, model.OrderCancelled},
}

var cycleDurations = map[string]time.Duration{
	"quick":    30 * time.Minute,
	"normal":   60 * time.Minute,
	"heavy":    90 * time.Minute,
	"delicate": 45 * time.Minute,
}

const defaultCycleDuration = 60 * time.Minute

// CanTransition reports whether from -> to is an edge of the pipeline.
// Terminal statuses have no outgoing edges.
func CanTransition(from, to model.OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus normalises raw into a known status.
func ParseStatus(raw string) (model.OrderStatus, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == readyAlias {
		return model.OrderReady, nil
	}

	status := model.OrderStatus(s)
	switch status {
	case model.OrderPending, model.OrderInProgress, model.OrderWashing, model.OrderDrying,
		model.OrderReady, model.OrderCompleted, model.OrderCancelled:
		return status, nil
	case "":
		return "", errs.NewValidationError("status", "status is required")
	}
	return "", errs.NewValidationError("status", "Invalid status: "+raw)
}

// CycleDuration is the expected run time of a wash cycle.
func CycleDuration(cycleType string) time.Duration {
	if d, ok := cycleDurations[strings.ToLower(cycleType)]; ok {
		return d
	}
	return defaultCycleDuration
}
