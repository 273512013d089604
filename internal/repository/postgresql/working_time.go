package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/workingtime"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const workingTimeColumns = `id::text, employee_id, company_id, date, start_time, end_time, type, created_at, updated_at`

type workingTimeRepositoryImpl struct {
	db *database.DB
}

func NewWorkingTimeRepository(db *database.DB) workingtime.WorkingTimeRepository {
	return &workingTimeRepositoryImpl{db: db}
}

// Create implements workingtime.WorkingTimeRepository.
func (r *workingTimeRepositoryImpl) Create(ctx context.Context, w workingtime.WorkingTime) (workingtime.WorkingTime, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return workingtime.WorkingTime{}, fmt.Errorf("failed to generate working time id: %w", err)
	}

	query := `
		INSERT INTO working_times (id, employee_id, company_id, date, start_time, end_time, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + workingTimeColumns

	created, err := scanWorkingTime(q.QueryRow(ctx, query,
		id.String(), w.EmployeeID, w.CompanyID, w.Date,
		toPgTime(&w.Start), toPgTime(w.End), w.Type,
	))
	if err != nil {
		return workingtime.WorkingTime{}, fmt.Errorf("failed to insert working time: %w", err)
	}

	return created, nil
}

// GetByID implements workingtime.WorkingTimeRepository.
func (r *workingTimeRepositoryImpl) GetByID(ctx context.Context, id string) (workingtime.WorkingTime, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workingTimeColumns + ` FROM working_times WHERE id = $1`

	w, err := scanWorkingTime(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workingtime.WorkingTime{}, workingtime.ErrWorkingTimeNotFound
		}
		return workingtime.WorkingTime{}, fmt.Errorf("failed to get working time with id %s: %w", id, err)
	}

	return w, nil
}

// Update implements workingtime.WorkingTimeRepository.
func (r *workingTimeRepositoryImpl) Update(ctx context.Context, w workingtime.WorkingTime) (workingtime.WorkingTime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE working_times
		SET date = $1, start_time = $2, end_time = $3, type = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + workingTimeColumns

	updated, err := scanWorkingTime(q.QueryRow(ctx, query,
		w.Date, toPgTime(&w.Start), toPgTime(w.End), w.Type, w.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workingtime.WorkingTime{}, workingtime.ErrWorkingTimeNotFound
		}
		return workingtime.WorkingTime{}, fmt.Errorf("failed to update working time with id %s: %w", w.ID, err)
	}

	return updated, nil
}

// Delete implements workingtime.WorkingTimeRepository.
func (r *workingTimeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM working_times WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete working time with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return workingtime.ErrWorkingTimeNotFound
	}

	return nil
}

// ListByEmployee implements workingtime.WorkingTimeRepository.
func (r *workingTimeRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]workingtime.WorkingTime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workingTimeColumns + `
		FROM working_times
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC, start_time ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query working times: %w", err)
	}
	defer rows.Close()

	var records []workingtime.WorkingTime
	for rows.Next() {
		w, err := scanWorkingTime(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan working time: %w", err)
		}
		records = append(records, w)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// GetMostRecent implements workingtime.WorkingTimeRepository.
func (r *workingTimeRepositoryImpl) GetMostRecent(ctx context.Context, employeeID string, window workingtime.RecencyWindow) (*workingtime.WorkingTime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workingTimeColumns + `
		FROM working_times
		WHERE employee_id = $1
		  AND (end_time IS NULL OR date BETWEEN $2 AND $3)
		ORDER BY date DESC, start_time DESC
		LIMIT 1
	`

	w, err := scanWorkingTime(q.QueryRow(ctx, query, employeeID, window.Since, window.Until))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get most recent working time: %w", err)
	}

	return &w, nil
}

func scanWorkingTime(row pgx.Row) (workingtime.WorkingTime, error) {
	var (
		w     workingtime.WorkingTime
		start pgtype.Time
		end   pgtype.Time
	)
	err := row.Scan(
		&w.ID, &w.EmployeeID, &w.CompanyID, &w.Date, &start, &end, &w.Type, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return workingtime.WorkingTime{}, err
	}

	w.Date = time.Date(w.Date.Year(), w.Date.Month(), w.Date.Day(), 0, 0, 0, 0, time.UTC)
	w.Start = fromPgTime(start)
	if end.Valid {
		e := fromPgTime(end)
		w.End = &e
	}

	return w, nil
}

// toPgTime encodes nil as SQL NULL.
func toPgTime(t *workingtime.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) workingtime.TimeOfDay {
	return workingtime.TimeOfDay(time.Duration(t.Microseconds) * time.Microsecond)
}
