package model

import "time"

// LaundryLog is an append-only audit entry recorded against an order.
// It has no UpdatedAt; rows are never modified.
type LaundryLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    string    `gorm:"index;size:16;not null" json:"order_id"`
	EmployeeID string    `gorm:"size:16" json:"employee_id,omitempty"`
	Action     string    `gorm:"size:255;not null" json:"action"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
