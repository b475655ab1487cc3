package model

import "time"

// NotificationType classifies a notification for display.
type NotificationType string

const (
	NotificationInfo     NotificationType = "info"
	NotificationAlert    NotificationType = "alert"
	NotificationComplete NotificationType = "complete"
	NotificationReminder NotificationType = "reminder"
	NotificationError    NotificationType = "error"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationAlert, NotificationComplete, NotificationReminder, NotificationError:
		return true
	}
	return false
}

// Notification is a message for a user. Only IsRead changes after insert.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"index;not null" json:"user_id"`
	OrderID   string           `gorm:"index;size:16" json:"order_id,omitempty"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Type      NotificationType `gorm:"size:16;not null;default:alert" json:"type"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
}
