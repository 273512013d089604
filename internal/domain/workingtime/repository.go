package workingtime

import (
	"context"
	"time"
)

// WorkingTimeRepository defines data access methods for working time records.
type WorkingTimeRepository interface {
	// Create inserts the record and returns it with its assigned ID
	Create(ctx context.Context, workingTime WorkingTime) (WorkingTime, error)

	// GetByID returns ErrWorkingTimeNotFound when no record has the ID
	GetByID(ctx context.Context, id string) (WorkingTime, error)

	// Update overwrites date, start, end and type. Owner fields are never written.
	Update(ctx context.Context, workingTime WorkingTime) (WorkingTime, error)

	Delete(ctx context.Context, id string) error

	// ListByEmployee returns the employee's records dated within [from, to]
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]WorkingTime, error)

	// GetMostRecent returns the newest record (date, then start, descending) accepted by
	// window.Includes. It returns nil when there is none.
	GetMostRecent(ctx context.Context, employeeID string, window RecencyWindow) (*WorkingTime, error)
}

// EmployeeLocker serializes read-then-write sequences for one employee.
type EmployeeLocker interface {
	WithEmployeeLock(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error
}
