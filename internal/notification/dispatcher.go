// Package notification stores user notifications, delivers them as web
// pushes and schedules pickup reminders.
package notification

import (
	"context"
	"strings"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/store"
)

// ListLimit caps List results.
const ListLimit = 20

// Dispatcher inserts notification records.
type Dispatcher struct {
	store store.Store
}

func NewDispatcher(s store.Store) *Dispatcher {
	return &Dispatcher{store: s}
}

// Notify stores a notification for userID. An empty type defaults to alert.
func (d *Dispatcher) Notify(ctx context.Context, userID uint, orderID, message string, typ model.NotificationType) (*model.Notification, error) {
	if userID == 0 {
		return nil, errs.NewValidationError("user_id", "user_id is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, errs.NewValidationError("message", "message is required")
	}
	if typ == "" {
		typ = model.NotificationAlert
	}
	if !typ.Valid() {
		return nil, errs.NewValidationError("type", "Invalid notification type")
	}

	n := &model.Notification{
		UserID:  userID,
		OrderID: orderID,
		Message: message,
		Type:    typ,
	}
	if err := d.store.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns the latest notifications of userID.
func (d *Dispatcher) List(ctx context.Context, userID uint) ([]model.Notification, error) {
	if userID == 0 {
		return nil, errs.NewValidationError("user_id", "user_id is required")
	}
	return d.store.ListNotifications(ctx, userID, ListLimit)
}

// MarkRead flags a notification as read.
func (d *Dispatcher) MarkRead(ctx context.Context, id uint) error {
	if id == 0 {
		return errs.NewValidationError("notification_id", "notification_id is required")
	}
	return d.store.MarkNotificationRead(ctx, id)
}
