package department_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-timeoff/internal/department"
	departmenterrors "go-timeoff/internal/department/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type departmentEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type fakeDepartmentService struct {
	createFn  func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	getAllFn  func(ctx context.Context) ([]department.DepartmentResponse, error)
	getByIDFn func(ctx context.Context, id string) (department.DepartmentResponse, error)
	updateFn  func(ctx context.Context, id string, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (f *fakeDepartmentService) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	return f.createFn(ctx, req)
}

func (f *fakeDepartmentService) GetAll(ctx context.Context) ([]department.DepartmentResponse, error) {
	return f.getAllFn(ctx)
}

func (f *fakeDepartmentService) GetByID(ctx context.Context, id string) (department.DepartmentResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeDepartmentService) Update(ctx context.Context, id string, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	return f.updateFn(ctx, id, req)
}

func (f *fakeDepartmentService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func TestDepartmentHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeDepartmentService{
			createFn: func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
				assert.Equal(t, "Engineering", req.Name)
				return department.DepartmentResponse{ID: uuid.NewString(), Name: req.Name}, nil
			},
		}
		h := department.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"name":"Engineering"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var env departmentEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
	})

	t.Run("negative missing name", func(t *testing.T) {
		h := department.NewHandler(&fakeDepartmentService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var env departmentEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative duplicate maps to conflict", func(t *testing.T) {
		svc := &fakeDepartmentService{
			createFn: func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
				return department.DepartmentResponse{}, departmenterrors.ErrDepartmentAlreadyExists
			},
		}
		h := department.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"name":"Engineering"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestDepartmentHandler_GetByID(t *testing.T) {
	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeDepartmentService{
			getByIDFn: func(ctx context.Context, id string) (department.DepartmentResponse, error) {
				return department.DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
			},
		}
		h := department.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		id := uuid.NewString()
		c.Request = httptest.NewRequest(http.MethodGet, "/departments/"+id, nil)
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		var env departmentEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		svc := &fakeDepartmentService{
			getByIDFn: func(ctx context.Context, got string) (department.DepartmentResponse, error) {
				assert.Equal(t, id, got)
				return department.DepartmentResponse{ID: id, Name: "People"}, nil
			},
		}
		h := department.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/departments/"+id, nil)
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var env departmentEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		var got department.DepartmentResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "People", got.Name)
	})
}
