package store

import (
	"context"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
)

func (s *gormStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	return translate("create notification", s.db.WithContext(ctx).Create(n).Error)
}

func (s *gormStore) ListNotifications(ctx context.Context, userID uint, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&notifications).Error; err != nil {
		return nil, translate("list notifications", err)
	}
	return notifications, nil
}

// MarkNotificationRead only ever touches is_read.
func (s *gormStore) MarkNotificationRead(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&model.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return translate("mark notification read", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFoundError("Notification", id)
	}
	return nil
}

func (s *gormStore) NotificationExists(ctx context.Context, orderCode string, typ model.NotificationType) (bool, error) {
	found, err := s.exists(ctx, &model.Notification{}, "order_id = ? AND type = ?", orderCode, typ)
	if err != nil {
		return false, translate("check notification", err)
	}
	return found, nil
}
