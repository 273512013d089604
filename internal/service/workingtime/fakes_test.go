package workingtime

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/workingtime"
	"github.com/google/uuid"
)

type fakeEmployeeRepository struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
}

func newFakeEmployeeRepository(employees ...employee.Employee) *fakeEmployeeRepository {
	repo := &fakeEmployeeRepository{employees: make(map[string]employee.Employee)}
	for _, emp := range employees {
		repo.employees[emp.ID] = emp
	}
	return repo
}

func (f *fakeEmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepository) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.employees, id)
}

type fakeWorkingTimeRepository struct {
	mu      sync.Mutex
	records map[string]workingtime.WorkingTime
}

func newFakeWorkingTimeRepository() *fakeWorkingTimeRepository {
	return &fakeWorkingTimeRepository{records: make(map[string]workingtime.WorkingTime)}
}

func (f *fakeWorkingTimeRepository) Create(ctx context.Context, w workingtime.WorkingTime) (workingtime.WorkingTime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = uuid.Must(uuid.NewV7()).String()
	f.records[w.ID] = w
	return w, nil
}

func (f *fakeWorkingTimeRepository) GetByID(ctx context.Context, id string) (workingtime.WorkingTime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.records[id]
	if !ok {
		return workingtime.WorkingTime{}, workingtime.ErrWorkingTimeNotFound
	}
	return w, nil
}

func (f *fakeWorkingTimeRepository) Update(ctx context.Context, w workingtime.WorkingTime) (workingtime.WorkingTime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.records[w.ID]
	if !ok {
		return workingtime.WorkingTime{}, workingtime.ErrWorkingTimeNotFound
	}
	existing.Date = w.Date
	existing.Start = w.Start
	existing.End = w.End
	existing.Type = w.Type
	f.records[w.ID] = existing
	return existing, nil
}

func (f *fakeWorkingTimeRepository) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return workingtime.ErrWorkingTimeNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeWorkingTimeRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]workingtime.WorkingTime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []workingtime.WorkingTime
	for _, w := range f.records {
		if w.EmployeeID == employeeID && !w.Date.Before(from) && !w.Date.After(to) {
			result = append(result, w)
		}
	}
	return result, nil
}

func (f *fakeWorkingTimeRepository) GetMostRecent(ctx context.Context, employeeID string, window workingtime.RecencyWindow) (*workingtime.WorkingTime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var candidates []workingtime.WorkingTime
	for _, w := range f.records {
		if w.EmployeeID == employeeID && window.Includes(w) {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].Date.Equal(candidates[j].Date) {
			return candidates[i].Date.After(candidates[j].Date)
		}
		return candidates[i].Start > candidates[j].Start
	})
	found := candidates[0]
	return &found, nil
}

func (f *fakeWorkingTimeRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// keyedLocker serializes callbacks per employee within the process.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedLocker) WithEmployeeLock(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error {
	k.mu.Lock()
	l, ok := k.locks[employeeID]
	if !ok {
		l = &sync.Mutex{}
		k.locks[employeeID] = l
	}
	k.mu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn(ctx)
}

type stubClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stubClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
