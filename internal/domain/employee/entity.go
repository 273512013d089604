package employee

import (
	"time"
)

type Employee struct {
	ID        string
	CompanyID string
	FullName  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role string

const (
	RoleEmployee Role = "employee" // May only act on own records
	RoleAdmin    Role = "admin"    // May act on behalf of any employee
)

// IsAdmin checks if the employee may act on behalf of others
func (e Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}
