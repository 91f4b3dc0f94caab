package balance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-timeoff/internal/balance"
	balanceerrors "go-timeoff/internal/balance/errors"
	"go-timeoff/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type balanceEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type fakeBalanceService struct {
	createDefaultFn func(ctx context.Context, employeeID string) (balance.BalanceSummaryResponse, error)
	summaryFn       func(ctx context.Context, employeeID string) (balance.BalanceSummaryResponse, error)
}

func (f *fakeBalanceService) CreateDefault(ctx context.Context, employeeID string) (balance.BalanceSummaryResponse, error) {
	return f.createDefaultFn(ctx, employeeID)
}

func (f *fakeBalanceService) Summary(ctx context.Context, employeeID string) (balance.BalanceSummaryResponse, error) {
	return f.summaryFn(ctx, employeeID)
}

func TestBalanceHandler_GetMe(t *testing.T) {
	t.Run("success uses the employee claim", func(t *testing.T) {
		employeeID := uuid.NewString()
		svc := &fakeBalanceService{
			summaryFn: func(ctx context.Context, got string) (balance.BalanceSummaryResponse, error) {
				assert.Equal(t, employeeID, got)
				return balance.BalanceSummaryResponse{
					EmployeeID:           got,
					PermissionMonthlyCap: 3,
					Categories: []balance.CategoryBalance{
						{Category: domain.CategoryAnnual, Allocated: 21, Used: 3, Remaining: 18, Capped: true},
					},
				}, nil
			},
		}
		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", employeeID)
		c.Request = httptest.NewRequest(http.MethodGet, "/balances/me", nil)

		h.GetMe(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var env balanceEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		var got balance.BalanceSummaryResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, employeeID, got.EmployeeID)
		assert.Equal(t, 18, got.Categories[0].Remaining)
	})

	t.Run("negative missing identity", func(t *testing.T) {
		h := balance.NewHandler(&fakeBalanceService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/balances/me", nil)

		h.GetMe(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBalanceHandler_GetByEmployee(t *testing.T) {
	t.Run("negative unknown employee", func(t *testing.T) {
		svc := &fakeBalanceService{
			summaryFn: func(ctx context.Context, employeeID string) (balance.BalanceSummaryResponse, error) {
				return balance.BalanceSummaryResponse{}, balanceerrors.ErrBalanceNotFound
			},
		}
		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		id := uuid.NewString()
		c.Request = httptest.NewRequest(http.MethodGet, "/balances/"+id, nil)
		c.Params = gin.Params{{Key: "employee_id", Value: id}}

		h.GetByEmployee(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		var env balanceEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.False(t, env.Ok)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}
