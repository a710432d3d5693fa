package models

import "time"

// UserRole represents the account types recognised by the booking system.
// The values mirror what the frontend stores in its session state.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleHOD     UserRole = "hod"
	RoleFaculty UserRole = "faculty"
	RoleStaff   UserRole = "staff"
	RoleStudent UserRole = "student"
)

// Valid reports whether the role is one of the recognised account types.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleHOD, RoleFaculty, RoleStaff, RoleStudent:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	UserType     UserRole  `db:"user_type" json:"userType"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	UserType *UserRole
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
