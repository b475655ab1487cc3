package model

import "time"

// MachineType distinguishes washers from dryers.
type MachineType string

const (
	MachineWasher MachineType = "washer"
	MachineDryer  MachineType = "dryer"
)

// Valid reports whether t is a known machine type.
func (t MachineType) Valid() bool {
	return t == MachineWasher || t == MachineDryer
}

// MachineStatus is the availability of a machine.
type MachineStatus string

const (
	MachineAvailable   MachineStatus = "available"
	MachineInUse       MachineStatus = "in-use"
	MachineMaintenance MachineStatus = "maintenance"
)

// Valid reports whether s is a known machine status.
func (s MachineStatus) Valid() bool {
	switch s {
	case MachineAvailable, MachineInUse, MachineMaintenance:
		return true
	}
	return false
}

// Machine represents a washer or dryer on the shop floor.
type Machine struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	Name       string        `gorm:"column:machine_name;size:128;not null" json:"machine_name"`
	Type       MachineType   `gorm:"column:machine_type;size:16;not null" json:"machine_type"`
	Status     MachineStatus `gorm:"size:16;not null;default:available;index" json:"status"`
	CapacityKg float64       `json:"capacity_kg"`
	Location   string        `gorm:"size:128" json:"location"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
