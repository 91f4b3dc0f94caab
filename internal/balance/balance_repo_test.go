package balance_test

import (
	"context"
	"testing"

	"go-timeoff/internal/balance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func txBalanceRepo(t *testing.T) (balance.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	// No gorm handle attached: a statement that bypasses the tx fails loudly.
	return balance.NewRepository(nil).WithTx(tx), mock
}

func TestBalanceRepository_FindByEmployeeForUpdate(t *testing.T) {
	employeeID := uuid.New()

	t.Run("success locks the row inside the tx", func(t *testing.T) {
		repo, mock := txBalanceRepo(t)

		rows := sqlmock.NewRows([]string{
			"id", "employee_id",
			"annual_allowed", "annual_used",
			"emergency_allowed", "emergency_used",
			"permission_allowed", "permission_used",
			"unpaid_used", "work_from_home_used",
			"permission_monthly_cap",
		}).AddRow(uuid.NewString(), employeeID.String(), 21, 6, 7, 0, 3, 1, 0, 0, 3)

		mock.ExpectQuery(`(?s)SELECT.+FROM leave_balances.+FOR UPDATE`).
			WithArgs(employeeID.String()).
			WillReturnRows(rows)

		b, err := repo.FindByEmployeeForUpdate(context.Background(), employeeID.String())
		assert.NoError(t, err)
		assert.Equal(t, employeeID, b.EmployeeID)
		assert.Equal(t, 21, b.AnnualAllowed)
		assert.Equal(t, 6, b.AnnualUsed)
		assert.Equal(t, 3, b.PermissionMonthlyCap)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative missing row", func(t *testing.T) {
		repo, mock := txBalanceRepo(t)

		mock.ExpectQuery(`(?s)SELECT.+FROM leave_balances.+FOR UPDATE`).
			WithArgs(employeeID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByEmployeeForUpdate(context.Background(), employeeID.String())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestBalanceRepository_UpdateCounters_UsesTx(t *testing.T) {
	repo, mock := txBalanceRepo(t)

	b := &balance.LeaveBalance{EmployeeID: uuid.New(), AnnualUsed: 9}
	mock.ExpectExec(`UPDATE leave_balances`).
		WithArgs(b.EmployeeID, 9, 0, 0, 0, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateCounters(context.Background(), b))
	assert.NoError(t, mock.ExpectationsWereMet())
}
