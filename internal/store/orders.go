package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
)

func (s *gormStore) CreateOrder(ctx context.Context, order *model.Order) error {
	if order.Version == 0 {
		order.Version = 1
	}
	return translate("create order", s.db.WithContext(ctx).Omit("Machine").Create(order).Error)
}

func (s *gormStore) GetOrder(ctx context.Context, code string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("Machine").Where("order_id = ?", code).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFoundErrorWithCause("Order", code, err)
	}
	if err != nil {
		return nil, translate("get order", err)
	}
	return &order, nil
}

func (s *gormStore) ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	var orders []model.Order
	q := s.orderQuery(ctx, filter).Preload("Machine").Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, translate("list orders", err)
	}
	return orders, nil
}

func (s *gormStore) CountOrders(ctx context.Context, filter OrderFilter) (int64, error) {
	var count int64
	if err := s.orderQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, translate("count orders", err)
	}
	return count, nil
}

func (s *gormStore) SumOrderWeight(ctx context.Context, filter OrderFilter) (float64, error) {
	var total float64
	if err := s.orderQuery(ctx, filter).Select("COALESCE(SUM(weight_kg), 0)").Scan(&total).Error; err != nil {
		return 0, translate("sum order weight", err)
	}
	return total, nil
}

func (s *gormStore) OrderCodeExists(ctx context.Context, code string) (bool, error) {
	found, err := s.exists(ctx, &model.Order{}, "order_id = ?", code)
	if err != nil {
		return false, translate("check order code", err)
	}
	return found, nil
}

// UpdateOrderStatus writes a transition only if the row still carries
// version. A lost race returns errs.ErrStaleOrder.
func (s *gormStore) UpdateOrderStatus(ctx context.Context, code string, version int, update StatusUpdate) error {
	values := map[string]any{
		"status":     update.Status,
		"version":    gorm.Expr("version + 1"),
		"updated_at": update.At,
	}
	if update.MachineID != nil {
		values["machine_id"] = *update.MachineID
	}
	if update.EstimatedCompletion != nil {
		values["estimated_completion"] = *update.EstimatedCompletion
	}
	if update.ActualCompletion != nil {
		values["actual_completion"] = *update.ActualCompletion
	}

	res := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ? AND version = ?", code, version).
		Updates(values)
	if res.Error != nil {
		return translate("update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s at version %d: %w", code, version, errs.ErrStaleOrder)
	}
	return nil
}

func (s *gormStore) orderQuery(ctx context.Context, filter OrderFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.Order{})
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Code != "" {
		q = q.Where("order_id = ?", filter.Code)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.UpdatedBefore != nil {
		q = q.Where("updated_at < ?", *filter.UpdatedBefore)
	}
	return q
}
