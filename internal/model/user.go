package model

import "time"

// Role is the account role of a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleEmployee:
		return true
	}
	return false
}

// User is an account. Code is the generated customer or employee code;
// admins have none.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         *string   `gorm:"column:customer_id;uniqueIndex;size:16" json:"customer_id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Role         Role      `gorm:"size:16;not null;index" json:"role"`
	Phone        string    `gorm:"size:32" json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CodeString returns the user's code or the empty string.
func (u *User) CodeString() string {
	if u.Code == nil {
		return ""
	}
	return *u.Code
}
