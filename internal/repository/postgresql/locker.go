package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/workingtime"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type advisoryLocker struct {
	db *database.DB
}

// NewEmployeeLocker serializes per-employee work across every API instance sharing the database.
func NewEmployeeLocker(db *database.DB) workingtime.EmployeeLocker {
	return &advisoryLocker{db: db}
}

// WithEmployeeLock implements workingtime.EmployeeLocker.
// The lock is transaction scoped, so fn runs inside that transaction and it is released on commit or rollback.
func (l *advisoryLocker) WithEmployeeLock(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, l.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, employeeID); err != nil {
			return fmt.Errorf("failed to acquire employee lock: %w", err)
		}
		return fn(ContextWithTx(ctx, tx))
	})
}
