// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"time"
)

// StatusChanged is emitted after an order transition commits.
type StatusChanged struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	MachineID  *uint     `json:"machine_id,omitempty"`
	EmployeeID string    `json:"employee_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher sends events keyed by order code.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// Noop discards every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close() error                               { return nil }
