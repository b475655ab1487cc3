// Package stats computes the role-scoped dashboard counters.
package stats

import (
	"context"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/store"
)

var (
	staffActive    = []model.OrderStatus{model.OrderInProgress, model.OrderWashing, model.OrderDrying}
	customerActive = []model.OrderStatus{model.OrderPending, model.OrderInProgress, model.OrderWashing, model.OrderDrying}
)

// Aggregator re-queries the store on every call; nothing is cached.
type Aggregator struct {
	store store.Store
}

func NewAggregator(s store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// Compute returns the counters for role. customerID is required for the
// customer role.
func (a *Aggregator) Compute(ctx context.Context, role, customerID string) (map[string]any, error) {
	switch model.Role(role) {
	case model.RoleAdmin:
		return a.admin(ctx)
	case model.RoleCustomer:
		if customerID == "" {
			return nil, errs.NewValidationError("customer_id", "customer_id is required")
		}
		return a.customer(ctx, customerID)
	case model.RoleEmployee:
		return a.employee(ctx)
	default:
		return nil, errs.NewValidationError("role", "Invalid role")
	}
}

func (a *Aggregator) admin(ctx context.Context) (map[string]any, error) {
	machines, err := a.store.CountMachines(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := a.store.CountUsers(ctx, model.RoleCustomer)
	if err != nil {
		return nil, err
	}
	employees, err := a.store.CountUsers(ctx, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	total, err := a.store.CountOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}
	pending, err := a.countStatus(ctx, "", model.OrderPending)
	if err != nil {
		return nil, err
	}
	active, err := a.countStatus(ctx, "", staffActive...)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"machines":      machines,
		"customers":     customers,
		"employees":     employees,
		"totalOrders":   total,
		"pendingOrders": pending,
		"activeOrders":  active,
	}, nil
}

func (a *Aggregator) customer(ctx context.Context, customerID string) (map[string]any, error) {
	total, err := a.store.CountOrders(ctx, store.OrderFilter{CustomerID: customerID})
	if err != nil {
		return nil, err
	}
	active, err := a.countStatus(ctx, customerID, customerActive...)
	if err != nil {
		return nil, err
	}
	completed, err := a.countStatus(ctx, customerID, model.OrderCompleted)
	if err != nil {
		return nil, err
	}
	weight, err := a.store.SumOrderWeight(ctx, store.OrderFilter{CustomerID: customerID})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"totalOrders":     total,
		"activeOrders":    active,
		"completedOrders": completed,
		"totalWeight":     weight,
	}, nil
}

func (a *Aggregator) employee(ctx context.Context) (map[string]any, error) {
	pending, err := a.countStatus(ctx, "", model.OrderPending)
	if err != nil {
		return nil, err
	}
	active, err := a.countStatus(ctx, "", staffActive...)
	if err != nil {
		return nil, err
	}
	ready, err := a.countStatus(ctx, "", model.OrderReady)
	if err != nil {
		return nil, err
	}
	available, err := a.store.CountMachines(ctx, model.MachineAvailable)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"pendingOrders":     pending,
		"activeOrders":      active,
		"readyOrders":       ready,
		"availableMachines": available,
	}, nil
}

func (a *Aggregator) countStatus(ctx context.Context, customerID string, statuses ...model.OrderStatus) (int64, error) {
	return a.store.CountOrders(ctx, store.OrderFilter{CustomerID: customerID, Statuses: statuses})
}
