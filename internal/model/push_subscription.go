package model

import "time"

// PushSubscription holds the information for a browser push subscription
// owned by a user.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&Machine{},
		&User{},
		&Order{},
		&LaundryLog{},
		&Notification{},
		&Feedback{},
		&PushSubscription{},
	}
}
