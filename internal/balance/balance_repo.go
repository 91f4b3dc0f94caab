package balance

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	FindByEmployee(ctx context.Context, employeeID string) (*LeaveBalance, error)
	FindByEmployeeForUpdate(ctx context.Context, employeeID string) (*LeaveBalance, error)
	UpdateCounters(ctx context.Context, b *LeaveBalance) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		First(&b, "employee_id = ?", employeeID).Error
	return &b, err
}

// FindByEmployeeForUpdate loads the balance row with a row lock through the
// attached transaction. The row is shared by every request of one employee,
// so concurrent commits and reversals must serialize on it before the
// counters are recomputed.
func (r *repository) FindByEmployeeForUpdate(ctx context.Context, employeeID string) (*LeaveBalance, error) {
	const query = `
SELECT id, employee_id,
	annual_allowed, annual_used,
	emergency_allowed, emergency_used,
	permission_allowed, permission_used,
	unpaid_used, work_from_home_used,
	permission_monthly_cap
FROM leave_balances
WHERE employee_id = $1
FOR UPDATE
`

	q, err := r.queryer()
	if err != nil {
		return nil, err
	}
	var b LeaveBalance
	err = q.QueryRowContext(ctx, query, employeeID).Scan(
		&b.ID, &b.EmployeeID,
		&b.AnnualAllowed, &b.AnnualUsed,
		&b.EmergencyAllowed, &b.EmergencyUsed,
		&b.PermissionAllowed, &b.PermissionUsed,
		&b.UnpaidUsed, &b.WorkFromHomeUsed,
		&b.PermissionMonthlyCap,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateCounters writes the consumption counters. It runs through the
// caller's transaction when one is attached, so a balance change and the
// request status that caused it always land atomically.
func (r *repository) UpdateCounters(ctx context.Context, b *LeaveBalance) error {
	const query = `
UPDATE leave_balances
SET
	annual_used = $2,
	emergency_used = $3,
	permission_used = $4,
	unpaid_used = $5,
	work_from_home_used = $6,
	updated_at = NOW()
WHERE employee_id = $1
`

	exec, err := r.execer()
	if err != nil {
		return err
	}
	_, err = exec.ExecContext(
		ctx, query,
		b.EmployeeID, b.AnnualUsed, b.EmergencyUsed,
		b.PermissionUsed, b.UnpaidUsed, b.WorkFromHomeUsed,
	)
	return err
}

func (r *repository) execer() (interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, error) {
	if r.tx != nil {
		return r.tx, nil
	}
	return r.db.DB()
}

func (r *repository) queryer() (interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, error) {
	if r.tx != nil {
		return r.tx, nil
	}
	return r.db.DB()
}
