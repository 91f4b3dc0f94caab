package leave

import (
	"context"
	"database/sql"
	"time"

	leaveerrors "go-timeoff/internal/leave/errors"

	"go-timeoff/internal/domain"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindAllByDepartment(ctx context.Context, departmentID string) ([]LeaveRequest, error)
	UpdateVersioned(ctx context.Context, l *LeaveRequest) error
	DeleteVersioned(ctx context.Context, l *LeaveRequest) error
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) ([]Window, error)
	CountApprovedInMonth(ctx context.Context, employeeID, category string, ref time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAllByDepartment(ctx context.Context, departmentID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

// UpdateVersioned writes every mutable field, guarded by the optimistic
// concurrency token. Zero rows affected means a concurrent writer won and
// the caller must reload. Runs through the attached transaction so the
// status write and any balance write land atomically.
func (r *repository) UpdateVersioned(ctx context.Context, l *LeaveRequest) error {
	const query = `
UPDATE leave_requests
SET
	category = $2,
	start_date = $3,
	end_date = $4,
	start_time = $5,
	end_time = $6,
	total_days = $7,
	reason = $8,
	manager_status = $9,
	hr_status = $10,
	manager_comment = $11,
	manager_rejection_reason = $12,
	manager_decided_by = $13,
	manager_decided_at = $14,
	hr_comment = $15,
	hr_rejection_reason = $16,
	hr_decided_by = $17,
	hr_decided_at = $18,
	balance_committed = $19,
	version = version + 1,
	updated_at = NOW()
WHERE id = $1 AND version = $20 AND deleted_at IS NULL
`

	exec, err := r.execer()
	if err != nil {
		return err
	}
	res, err := exec.ExecContext(
		ctx, query,
		l.ID, l.Category, l.StartDate, l.EndDate, l.StartTime, l.EndTime,
		l.TotalDays, l.Reason, l.ManagerStatus, l.HRStatus,
		l.ManagerComment, l.ManagerRejectionReason, l.ManagerDecidedBy, l.ManagerDecidedAt,
		l.HRComment, l.HRRejectionReason, l.HRDecidedBy, l.HRDecidedAt,
		l.BalanceCommitted, l.Version,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return leaveerrors.ErrConcurrencyConflict
	}
	l.Version++
	return nil
}

// DeleteVersioned soft-deletes under the same token check as updates, so a
// delete racing a decision fails explicitly instead of dropping the row.
func (r *repository) DeleteVersioned(ctx context.Context, l *LeaveRequest) error {
	const query = `
UPDATE leave_requests
SET deleted_at = NOW(), version = version + 1, updated_at = NOW()
WHERE id = $1 AND version = $2 AND deleted_at IS NULL
`

	exec, err := r.execer()
	if err != nil {
		return err
	}
	res, err := exec.ExecContext(ctx, query, l.ID, l.Version)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return leaveerrors.ErrConcurrencyConflict
	}
	return nil
}

// FindOverlapping pre-filters by employee and rough date overlap (inclusive
// bounds); the conflict detector applies the category and status rules. Runs
// through the attached transaction so submit and edit validate against the
// same snapshot they write into.
func (r *repository) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) ([]Window, error) {
	query := `
SELECT start_date, end_date, category, manager_status, hr_status
FROM leave_requests
WHERE employee_id = $1
	AND NOT (end_date < $2 OR start_date > $3)
	AND deleted_at IS NULL
`
	args := []any{employeeID, start, end}
	if excludeID != nil && *excludeID != "" {
		query += "	AND id <> $4\n"
		args = append(args, *excludeID)
	}

	q, err := r.queryer()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []Window
	for rows.Next() {
		var w Window
		if err := rows.Scan(&w.Start, &w.End, &w.Category, &w.ManagerStatus, &w.HRStatus); err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func (r *repository) CountApprovedInMonth(ctx context.Context, employeeID, category string, ref time.Time) (int64, error) {
	const query = `
SELECT COUNT(*)
FROM leave_requests
WHERE employee_id = $1
	AND category = $2
	AND manager_status = $3
	AND hr_status = $4
	AND start_date >= $5 AND start_date < $6
	AND deleted_at IS NULL
`

	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	q, err := r.queryer()
	if err != nil {
		return 0, err
	}
	var count int64
	err = q.QueryRowContext(ctx, query,
		employeeID, category, domain.StatusApproved, domain.StatusApproved,
		monthStart, nextMonth,
	).Scan(&count)
	return count, err
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
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, error) {
	if r.tx != nil {
		return r.tx, nil
	}
	return r.db.DB()
}
