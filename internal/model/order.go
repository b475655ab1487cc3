package model

import "time"

// OrderStatus is a position in the order pipeline.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in-progress"
	OrderWashing    OrderStatus = "washing"
	OrderDrying     OrderStatus = "drying"
	OrderReady      OrderStatus = "ready"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Order defaults applied at creation.
const (
	DefaultCycleType   = "Normal"
	DefaultTempSetting = "Warm"
	DefaultSpinSpeed   = 1200
)

// Order is a single customer wash/dry request.
type Order struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	Code                string      `gorm:"column:order_id;uniqueIndex;size:16;not null" json:"order_id"`
	CustomerID          string      `gorm:"index;size:16;not null" json:"customer_id"`
	MachineID           *uint       `gorm:"index" json:"machine_id"`
	WeightKg            float64     `gorm:"not null;default:0" json:"weight_kg"`
	CycleType           string      `gorm:"size:32;not null" json:"cycle_type"`
	TempSetting         string      `gorm:"size:32;not null" json:"temp_setting"`
	SpinSpeed           int         `gorm:"not null" json:"spin_speed"`
	Status              OrderStatus `gorm:"size:16;not null;index" json:"status"`
	Notes               string      `gorm:"type:text" json:"notes"`
	Version             int         `gorm:"not null;default:1" json:"version"`
	EstimatedCompletion *time.Time  `json:"estimated_completion,omitempty"`
	ActualCompletion    *time.Time  `json:"actual_completion,omitempty"`
	CreatedAt           time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`

	// Associations
	Machine *Machine `gorm:"constraint:OnDelete:SET NULL" json:"machine,omitempty"`
}
