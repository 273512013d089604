package employee

import "context"

// EmployeeRepository is the employee directory consulted by the access policy.
type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when the id does not resolve.
	GetByID(ctx context.Context, id string) (Employee, error)
}
