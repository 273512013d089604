package workingtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/workingtime"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/validator"
)

type WorkingTimeServiceImpl struct {
	workingtime.WorkingTimeRepository
	employee.EmployeeRepository
	locker  workingtime.EmployeeLocker
	clock   clock.Clock
	recency workingtime.RecencyPolicy
}

// List implements workingtime.WorkingTimeService.
func (s *WorkingTimeServiceImpl) List(ctx context.Context, actorID string, filter workingtime.ListWorkingTimeFilter) ([]workingtime.WorkingTimeResponse, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	target, err := s.resolveTarget(ctx, actor, filter.EmployeeID)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, target, workingtime.ActionList); err != nil {
		return nil, err
	}

	monthStart, monthEnd := clock.MonthBounds(s.clock.Now())
	from, to, err := filter.Range(monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	records, err := s.WorkingTimeRepository.ListByEmployee(ctx, target.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list working times: %w", err)
	}

	responses := make([]workingtime.WorkingTimeResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapWorkingTimeToResponse(record))
	}

	return responses, nil
}

// Create implements workingtime.WorkingTimeService.
// The payload is parsed only after the access check. Unlike Update it does not
// reject an end before the start.
func (s *WorkingTimeServiceImpl) Create(ctx context.Context, actorID string, req workingtime.CreateWorkingTimeRequest) (workingtime.WorkingTimeResponse, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	target, err := s.resolveTarget(ctx, actor, req.EmployeeID)
	if err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	if err := authorize(actor, target, workingtime.ActionCreate); err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	entry, err := req.Entry()
	if err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	created, err := s.WorkingTimeRepository.Create(ctx, workingtime.WorkingTime{
		EmployeeID: target.ID,
		CompanyID:  target.CompanyID,
		Date:       entry.Date,
		Start:      entry.Start,
		End:        entry.End,
		Type:       entry.Type,
	})
	if err != nil {
		return workingtime.WorkingTimeResponse{}, fmt.Errorf("failed to create working time: %w", err)
	}

	return mapWorkingTimeToResponse(created), nil
}

// GetByID implements workingtime.WorkingTimeService.
func (s *WorkingTimeServiceImpl) GetByID(ctx context.Context, actorID string, id string) (workingtime.WorkingTimeResponse, error) {
	record, err := s.loadAuthorized(ctx, actorID, id, workingtime.ActionRead)
	if err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	return mapWorkingTimeToResponse(record), nil
}

// Update implements workingtime.WorkingTimeService.
// Lookup and access check come before the payload is parsed.
func (s *WorkingTimeServiceImpl) Update(ctx context.Context, actorID string, req workingtime.UpdateWorkingTimeRequest) (workingtime.WorkingTimeResponse, error) {
	record, err := s.loadAuthorized(ctx, actorID, req.ID, workingtime.ActionUpdate)
	if err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	entry, err := req.Entry()
	if err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	if entry.End != nil && entry.End.Before(entry.Start) {
		return workingtime.WorkingTimeResponse{}, workingtime.ErrEndBeforeStart
	}

	record.Date = entry.Date
	record.Start = entry.Start
	record.End = entry.End
	record.Type = entry.Type

	updated, err := s.WorkingTimeRepository.Update(ctx, record)
	if err != nil {
		return workingtime.WorkingTimeResponse{}, fmt.Errorf("failed to update working time: %w", err)
	}

	return mapWorkingTimeToResponse(updated), nil
}

// Delete implements workingtime.WorkingTimeService.
func (s *WorkingTimeServiceImpl) Delete(ctx context.Context, actorID string, id string) error {
	record, err := s.loadAuthorized(ctx, actorID, id, workingtime.ActionDelete)
	if err != nil {
		return err
	}

	if err := s.WorkingTimeRepository.Delete(ctx, record.ID); err != nil {
		if errors.Is(err, workingtime.ErrWorkingTimeNotFound) {
			return workingtime.ErrWorkingTimeNotFound
		}
		return fmt.Errorf("failed to delete working time: %w", err)
	}

	return nil
}

// GetCurrent implements workingtime.WorkingTimeService.
func (s *WorkingTimeServiceImpl) GetCurrent(ctx context.Context, actorID string) (*workingtime.WorkingTimeResponse, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	current, err := s.mostRecent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	response := mapWorkingTimeToResponse(*current)
	return &response, nil
}

// Checkin implements workingtime.WorkingTimeService.
func (s *WorkingTimeServiceImpl) Checkin(ctx context.Context, actorID string, req workingtime.CheckinRequest) (workingtime.WorkingTimeResponse, error) {
	if err := req.Validate(); err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	var created workingtime.WorkingTime
	err = s.locker.WithEmployeeLock(ctx, actor.ID, func(ctx context.Context) error {
		current, err := s.mostRecent(ctx, actor.ID)
		if err != nil {
			return err
		}
		if current != nil && current.IsOpen() {
			return workingtime.ErrAlreadyCheckedIn
		}

		now := s.clock.Now()
		created, err = s.WorkingTimeRepository.Create(ctx, workingtime.WorkingTime{
			EmployeeID: actor.ID,
			CompanyID:  actor.CompanyID,
			Date:       clock.Today(now),
			Start:      workingtime.TimeOfDayOf(now),
			Type:       workingtime.Type(strings.TrimSpace(req.Type)),
		})
		if err != nil {
			return fmt.Errorf("failed to create working time: %w", err)
		}
		return nil
	})
	if err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	slog.InfoContext(ctx, "Employee checked in", "employee_id", actor.ID, "working_time_id", created.ID)
	return mapWorkingTimeToResponse(created), nil
}

// Checkout implements workingtime.WorkingTimeService.
func (s *WorkingTimeServiceImpl) Checkout(ctx context.Context, actorID string) (workingtime.WorkingTimeResponse, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	var updated workingtime.WorkingTime
	err = s.locker.WithEmployeeLock(ctx, actor.ID, func(ctx context.Context) error {
		current, err := s.mostRecent(ctx, actor.ID)
		if err != nil {
			return err
		}
		if current == nil || !current.IsOpen() {
			return workingtime.ErrNotCheckedIn
		}

		end := workingtime.TimeOfDayOf(s.clock.Now())
		current.End = &end

		updated, err = s.WorkingTimeRepository.Update(ctx, *current)
		if err != nil {
			return fmt.Errorf("failed to update working time: %w", err)
		}
		return nil
	})
	if err != nil {
		return workingtime.WorkingTimeResponse{}, err
	}

	slog.InfoContext(ctx, "Employee checked out", "employee_id", actor.ID, "working_time_id", updated.ID)
	return mapWorkingTimeToResponse(updated), nil
}

// mostRecent applies the recency policy relative to the server's today.
func (s *WorkingTimeServiceImpl) mostRecent(ctx context.Context, employeeID string) (*workingtime.WorkingTime, error) {
	today := clock.Today(s.clock.Now())

	record, err := s.WorkingTimeRepository.GetMostRecent(ctx, employeeID, s.recency.Window(today))
	if err != nil {
		return nil, fmt.Errorf("failed to get most recent working time: %w", err)
	}
	return record, nil
}

func (s *WorkingTimeServiceImpl) resolveActor(ctx context.Context, actorID string) (employee.Employee, error) {
	return s.lookupEmployee(ctx, actorID)
}

// resolveTarget falls back to the actor when no employee is named.
func (s *WorkingTimeServiceImpl) resolveTarget(ctx context.Context, actor employee.Employee, employeeID *string) (employee.Employee, error) {
	if employeeID == nil || validator.IsEmpty(*employeeID) || *employeeID == actor.ID {
		return actor, nil
	}
	return s.lookupEmployee(ctx, *employeeID)
}

func (s *WorkingTimeServiceImpl) lookupEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// loadAuthorized fetches a record and its owner, then applies the access policy.
func (s *WorkingTimeServiceImpl) loadAuthorized(ctx context.Context, actorID string, id string, action workingtime.Action) (workingtime.WorkingTime, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return workingtime.WorkingTime{}, err
	}

	if !validator.IsValidUUID(id) {
		return workingtime.WorkingTime{}, workingtime.ErrWorkingTimeNotFound
	}

	record, err := s.WorkingTimeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, workingtime.ErrWorkingTimeNotFound) {
			return workingtime.WorkingTime{}, workingtime.ErrWorkingTimeNotFound
		}
		return workingtime.WorkingTime{}, fmt.Errorf("failed to get working time: %w", err)
	}

	owner, err := s.resolveTarget(ctx, actor, &record.EmployeeID)
	if err != nil {
		return workingtime.WorkingTime{}, err
	}

	if err := authorize(actor, owner, action); err != nil {
		return workingtime.WorkingTime{}, err
	}

	return record, nil
}

// authorize permits an action on own records, or on anyone's for admins.
func authorize(actor, target employee.Employee, action workingtime.Action) error {
	if actor.ID == target.ID || actor.IsAdmin() {
		return nil
	}
	return &workingtime.AccessDeniedError{Action: action}
}

// mapWorkingTimeToResponse converts a WorkingTime entity to WorkingTimeResponse
func mapWorkingTimeToResponse(w workingtime.WorkingTime) workingtime.WorkingTimeResponse {
	var end *string
	if w.End != nil {
		formatted := w.End.String()
		end = &formatted
	}

	return workingtime.WorkingTimeResponse{
		ID:         w.ID,
		EmployeeID: w.EmployeeID,
		CompanyID:  w.CompanyID,
		Date:       w.Date.Format("2006-01-02"),
		Start:      w.Start.String(),
		End:        end,
		Type:       string(w.Type),
	}
}

func NewWorkingTimeService(
	workingTimeRepo workingtime.WorkingTimeRepository,
	employeeRepo employee.EmployeeRepository,
	locker workingtime.EmployeeLocker,
	clk clock.Clock,
	recency workingtime.RecencyPolicy,
) workingtime.WorkingTimeService {
	return &WorkingTimeServiceImpl{
		WorkingTimeRepository: workingTimeRepo,
		EmployeeRepository:    employeeRepo,
		locker:                locker,
		clock:                 clk,
		recency:               recency,
	}
}
