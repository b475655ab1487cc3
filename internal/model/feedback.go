package model

import "time"

// FeedbackCategory groups feedback by topic.
type FeedbackCategory string

const (
	FeedbackService  FeedbackCategory = "service"
	FeedbackMachine  FeedbackCategory = "machine"
	FeedbackEmployee FeedbackCategory = "employee"
	FeedbackGeneral  FeedbackCategory = "general"
)

// Valid reports whether c is a known category.
func (c FeedbackCategory) Valid() bool {
	switch c {
	case FeedbackService, FeedbackMachine, FeedbackEmployee, FeedbackGeneral:
		return true
	}
	return false
}

// Feedback is a customer rating, optionally tied to an order.
// (customer_id, order_id) is unique when order_id is set.
type Feedback struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	CustomerID string           `gorm:"size:16;not null;uniqueIndex:idx_feedback_customer_order,where:order_id IS NOT NULL" json:"customer_id"`
	OrderID    *string          `gorm:"size:16;uniqueIndex:idx_feedback_customer_order,where:order_id IS NOT NULL" json:"order_id"`
	Rating     int              `gorm:"not null" json:"rating"`
	Comment    string           `gorm:"type:text" json:"comment"`
	Category   FeedbackCategory `gorm:"size:16;not null;default:general" json:"category"`
	CreatedAt  time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
