package workingtime

import (
	"context"
)

// WorkingTimeService defines business logic for working time records.
// actorID is the employee the request is authenticated as.
type WorkingTimeService interface {
	// List returns the target employee's records in the requested date range,
	// defaulting to the current month
	List(ctx context.Context, actorID string, filter ListWorkingTimeFilter) ([]WorkingTimeResponse, error)

	// Create records a working time for the actor or, for admins, any employee
	Create(ctx context.Context, actorID string, req CreateWorkingTimeRequest) (WorkingTimeResponse, error)

	GetByID(ctx context.Context, actorID string, id string) (WorkingTimeResponse, error)

	// Update overwrites date, start, end and type; end must not precede start
	Update(ctx context.Context, actorID string, req UpdateWorkingTimeRequest) (WorkingTimeResponse, error)

	Delete(ctx context.Context, actorID string, id string) error

	// GetCurrent returns the actor's most recent relevant record, or nil when there is none
	GetCurrent(ctx context.Context, actorID string) (*WorkingTimeResponse, error)

	// Checkin opens a record for today starting now
	Checkin(ctx context.Context, actorID string, req CheckinRequest) (WorkingTimeResponse, error)

	// Checkout closes the open record at the current time
	Checkout(ctx context.Context, actorID string) (WorkingTimeResponse, error)
}
