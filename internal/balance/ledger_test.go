package balance_test

import (
	"errors"
	"testing"

	"go-timeoff/internal/balance"
	balanceerrors "go-timeoff/internal/balance/errors"
	"go-timeoff/internal/domain"
	"go-timeoff/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func seededBalance() *balance.LeaveBalance {
	return &balance.LeaveBalance{
		AnnualAllowed:        12,
		AnnualUsed:           4,
		EmergencyAllowed:     3,
		EmergencyUsed:        0,
		PermissionAllowed:    6,
		PermissionUsed:       2,
		UnpaidUsed:           7,
		WorkFromHomeUsed:     1,
		PermissionMonthlyCap: 3,
	}
}

func TestWouldExceed(t *testing.T) {
	t.Run("within remaining allocation", func(t *testing.T) {
		b := seededBalance()
		assert.False(t, balance.WouldExceed(b, domain.CategoryAnnual, 8))
	})

	t.Run("over remaining allocation", func(t *testing.T) {
		b := seededBalance()
		assert.True(t, balance.WouldExceed(b, domain.CategoryAnnual, 9))
	})

	t.Run("uncapped categories never exceed", func(t *testing.T) {
		b := seededBalance()
		assert.False(t, balance.WouldExceed(b, domain.CategoryUnpaid, 1000))
		assert.False(t, balance.WouldExceed(b, domain.CategoryWorkFromHome, 1000))
		assert.False(t, balance.WouldExceed(b, domain.CategoryExternalAssignment, 1000))
	})
}

func TestRemaining(t *testing.T) {
	b := seededBalance()

	assert.Equal(t, 8, balance.Remaining(b, domain.CategoryAnnual))
	assert.Equal(t, 3, balance.Remaining(b, domain.CategoryEmergency))
	assert.Equal(t, 4, balance.Remaining(b, domain.CategoryPermission))
	assert.Equal(t, 0, balance.Remaining(b, domain.CategoryUnpaid))
	assert.Equal(t, 0, balance.Remaining(b, domain.CategoryExternalAssignment))
}

func TestCommit(t *testing.T) {
	t.Run("success consumes from the category", func(t *testing.T) {
		b := seededBalance()
		err := balance.Commit(b, domain.CategoryAnnual, 5)
		assert.NoError(t, err)
		assert.Equal(t, 9, b.AnnualUsed)
		assert.Equal(t, 12, b.AnnualAllowed)
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		b := seededBalance()
		b.AnnualUsed = 8
		err := balance.Commit(b, domain.CategoryAnnual, 5)
		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		details, ok := appErr.Details.(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, 4, details["remaining"])
		assert.Equal(t, 8, b.AnnualUsed)
	})

	t.Run("usage-only category always commits", func(t *testing.T) {
		b := seededBalance()
		err := balance.Commit(b, domain.CategoryUnpaid, 30)
		assert.NoError(t, err)
		assert.Equal(t, 37, b.UnpaidUsed)
	})

	t.Run("external assignment is a no-op", func(t *testing.T) {
		b := seededBalance()
		before := *b
		err := balance.Commit(b, domain.CategoryExternalAssignment, 10)
		assert.NoError(t, err)
		assert.Equal(t, before, *b)
	})

	t.Run("negative unknown category", func(t *testing.T) {
		b := seededBalance()
		err := balance.Commit(b, "SABBATICAL", 1)
		assert.ErrorIs(t, err, balanceerrors.ErrUnknownCategory)
	})
}

func TestReverse(t *testing.T) {
	t.Run("gives days back", func(t *testing.T) {
		b := seededBalance()
		balance.Reverse(b, domain.CategoryAnnual, 3)
		assert.Equal(t, 1, b.AnnualUsed)
	})

	t.Run("floors used at zero", func(t *testing.T) {
		b := seededBalance()
		balance.Reverse(b, domain.CategoryPermission, 9)
		assert.Equal(t, 0, b.PermissionUsed)
	})

	t.Run("external assignment is a no-op", func(t *testing.T) {
		b := seededBalance()
		before := *b
		balance.Reverse(b, domain.CategoryExternalAssignment, 5)
		assert.Equal(t, before, *b)
	})
}

func TestCommitThenReverseRoundTrip(t *testing.T) {
	b := seededBalance()
	assert.NoError(t, balance.Commit(b, domain.CategoryEmergency, 2))
	assert.Equal(t, 2, b.EmergencyUsed)
	balance.Reverse(b, domain.CategoryEmergency, 2)
	assert.Equal(t, 0, b.EmergencyUsed)
}
