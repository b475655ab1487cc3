package notification

import "laundry-service-backend/internal/model"

const (
	fallbackMessage = "Order status updated"
	reminderMessage = "Reminder: your laundry is waiting for pickup"
)

var statusMessages = map[model.OrderStatus]string{
	model.OrderPending:    "Your order has been received",
	model.OrderInProgress: "Your laundry is being processed",
	model.OrderWashing:    "Your laundry is currently being washed",
	model.OrderDrying:     "Your laundry is now in the dryer",
	model.OrderReady:      "Your laundry is ready for pickup!",
	model.OrderCompleted:  "Your order has been completed",
}

// MessageFor returns the customer-facing text for an order entering status.
func MessageFor(status model.OrderStatus) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return fallbackMessage
}

// TypeFor returns complete for ready orders and alert otherwise.
func TypeFor(status model.OrderStatus) model.NotificationType {
	if status == model.OrderReady {
		return model.NotificationComplete
	}
	return model.NotificationAlert
}
