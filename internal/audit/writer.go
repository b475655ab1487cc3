// Package audit records employee actions against orders. Entries are only
// ever appended.
package audit

import (
	"context"
	"strings"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/store"
)

type Writer struct {
	store store.Store
}

func NewWriter(s store.Store) *Writer {
	return &Writer{store: s}
}

// Record appends an entry. employeeID and notes may be empty.
func (w *Writer) Record(ctx context.Context, orderID, employeeID, action, notes string) (*model.LaundryLog, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, errs.NewValidationError("order_id", "order_id is required")
	}
	if strings.TrimSpace(action) == "" {
		return nil, errs.NewValidationError("action", "action is required")
	}

	entry := &model.LaundryLog{
		OrderID:    orderID,
		EmployeeID: employeeID,
		Action:     action,
		Notes:      notes,
	}
	if err := w.store.AppendLog(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (w *Writer) List(ctx context.Context, orderID string, newestFirst bool) ([]model.LaundryLog, error) {
	return w.store.ListLogs(ctx, orderID, newestFirst)
}
