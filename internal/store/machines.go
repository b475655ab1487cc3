package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
)

func (s *gormStore) CreateMachine(ctx context.Context, machine *model.Machine) error {
	return translate("create machine", s.db.WithContext(ctx).Create(machine).Error)
}

func (s *gormStore) GetMachine(ctx context.Context, id uint) (*model.Machine, error) {
	var machine model.Machine
	err := s.db.WithContext(ctx).First(&machine, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFoundErrorWithCause("Machine", id, err)
	}
	if err != nil {
		return nil, translate("get machine", err)
	}
	return &machine, nil
}

func (s *gormStore) ListMachines(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	if err := s.db.WithContext(ctx).Order("machine_name ASC").Order("id ASC").Find(&machines).Error; err != nil {
		return nil, translate("list machines", err)
	}
	return machines, nil
}

func (s *gormStore) UpdateMachineStatus(ctx context.Context, id uint, status model.MachineStatus) error {
	res := s.db.WithContext(ctx).Model(&model.Machine{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate("update machine status", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFoundError("Machine", id)
	}
	return nil
}

func (s *gormStore) CountMachines(ctx context.Context, statuses ...model.MachineStatus) (int64, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&model.Machine{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, translate("count machines", err)
	}
	return count, nil
}
