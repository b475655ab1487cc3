package store

import (
	"context"

	"laundry-service-backend/internal/model"
)

func (s *gormStore) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	return translate("create feedback", s.db.WithContext(ctx).Create(fb).Error)
}

func (s *gormStore) ListFeedback(ctx context.Context, filter FeedbackFilter) ([]model.Feedback, error) {
	var feedback []model.Feedback
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.OrderID != "" {
		q = q.Where("order_id = ?", filter.OrderID)
	}
	if err := q.Find(&feedback).Error; err != nil {
		return nil, translate("list feedback", err)
	}
	return feedback, nil
}

func (s *gormStore) FeedbackExists(ctx context.Context, customerID, orderCode string) (bool, error) {
	found, err := s.exists(ctx, &model.Feedback{}, "customer_id = ? AND order_id = ?", customerID, orderCode)
	if err != nil {
		return false, translate("check feedback", err)
	}
	return found, nil
}
