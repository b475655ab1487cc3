package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"laundry-service-backend/internal/model"
)

// SeedUser inserts a user with the given role and code.
func SeedUser(t *testing.T, gormDB *gorm.DB, role model.Role, code string) *model.User {
	t.Helper()
	u := &model.User{
		Email:        code + "@example.com",
		PasswordHash: "x",
		FullName:     "Test " + code,
		Role:         role,
	}
	if code != "" {
		c := code
		u.Code = &c
	}
	require.NoError(t, gormDB.Create(u).Error)
	return u
}

// SeedMachine inserts a washer with the given status.
func SeedMachine(t *testing.T, gormDB *gorm.DB, name string, status model.MachineStatus) *model.Machine {
	t.Helper()
	m := &model.Machine{Name: name, Type: model.MachineWasher, Status: status, CapacityKg: 8}
	require.NoError(t, gormDB.Create(m).Error)
	return m
}

// SeedOrder inserts an order for customerID in the given status.
func SeedOrder(t *testing.T, gormDB *gorm.DB, code, customerID string, status model.OrderStatus) *model.Order {
	t.Helper()
	o := &model.Order{
		Code:        code,
		CustomerID:  customerID,
		WeightKg:    5,
		CycleType:   model.DefaultCycleType,
		TempSetting: model.DefaultTempSetting,
		SpinSpeed:   model.DefaultSpinSpeed,
		Status:      status,
		Version:     1,
	}
	require.NoError(t, gormDB.Omit("Machine").Create(o).Error)
	return o
}
