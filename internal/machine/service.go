// Package machine manages washers and dryers outside the order flow.
package machine

import (
	"context"
	"strings"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/store"
)

type CreateRequest struct {
	Name       string            `json:"machine_name"`
	Type       model.MachineType `json:"machine_type"`
	CapacityKg float64           `json:"capacity_kg"`
	Location   string            `json:"location"`
}

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// List returns every machine ordered by name.
func (s *Service) List(ctx context.Context) ([]model.Machine, error) {
	return s.store.ListMachines(ctx)
}

// Create registers an available machine.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Machine, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errs.NewValidationError("machine_name", "machine_name is required")
	}
	if !req.Type.Valid() {
		return nil, errs.NewValidationError("machine_type", "machine_type must be washer or dryer")
	}
	if req.CapacityKg < 0 {
		return nil, errs.NewValidationError("capacity_kg", "capacity_kg must not be negative")
	}

	m := &model.Machine{
		Name:       strings.TrimSpace(req.Name),
		Type:       req.Type,
		Status:     model.MachineAvailable,
		CapacityKg: req.CapacityKg,
		Location:   req.Location,
	}
	if err := s.store.CreateMachine(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// SetStatus overrides a machine's status directly, e.g. for maintenance.
func (s *Service) SetStatus(ctx context.Context, id uint, status model.MachineStatus) (*model.Machine, error) {
	if !status.Valid() {
		return nil, errs.NewValidationError("status", "Invalid machine status")
	}
	if err := s.store.UpdateMachineStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.store.GetMachine(ctx, id)
}
