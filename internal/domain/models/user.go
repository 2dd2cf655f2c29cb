package models

import "time"

// Role is the coarse access role of an account.
type Role string

const (
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// User is the authenticated-user collaborator consumed by the core.
// Accounts are managed outside this service; the core only reads them.
type User struct {
	ID          int64     `json:"-" db:"id"`
	PublicID    string    `json:"public_id" db:"public_id"`
	Email       string    `json:"email" db:"email"`
	Name        string    `json:"name" db:"name"`
	Role        Role      `json:"role" db:"role"`
	Departments []string  `json:"departments" db:"departments"`
	Enabled     bool      `json:"enabled" db:"enabled"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// IsAdmin reports whether the user holds the elevated role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasDepartment reports whether the user is assigned to the given department.
func (u *User) HasDepartment(department string) bool {
	for _, d := range u.Departments {
		if d == department {
			return true
		}
	}
	return false
}
