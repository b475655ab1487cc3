package store

import (
	"context"

	"laundry-service-backend/internal/model"
)

// The store exposes no update or delete for laundry logs.

func (s *gormStore) AppendLog(ctx context.Context, entry *model.LaundryLog) error {
	return translate("append log", s.db.WithContext(ctx).Create(entry).Error)
}

func (s *gormStore) ListLogs(ctx context.Context, orderCode string, newestFirst bool) ([]model.LaundryLog, error) {
	var logs []model.LaundryLog
	q := s.db.WithContext(ctx).Where("order_id = ?", orderCode)
	if newestFirst {
		q = q.Order("created_at DESC").Order("id DESC")
	} else {
		q = q.Order("created_at ASC").Order("id ASC")
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, translate("list logs", err)
	}
	return logs, nil
}

func (s *gormStore) CountLogs(ctx context.Context, orderCode string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.LaundryLog{}).Where("order_id = ?", orderCode).Count(&count).Error; err != nil {
		return 0, translate("count logs", err)
	}
	return count, nil
}
