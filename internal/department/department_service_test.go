package department_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-timeoff/internal/department"
	departmenterrors "go-timeoff/internal/department/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeDepartmentRepository struct {
	createFn   func(ctx context.Context, dept *department.Department) error
	findAllFn  func(ctx context.Context) ([]department.Department, error)
	findByIDFn func(ctx context.Context, id string) (*department.Department, error)
	updateFn   func(ctx context.Context, dept *department.Department) error
	deleteFn   func(ctx context.Context, id string) error
}

func (f *fakeDepartmentRepository) WithTx(tx *sql.Tx) department.Repository { return f }

func (f *fakeDepartmentRepository) Create(ctx context.Context, dept *department.Department) error {
	return f.createFn(ctx, dept)
}

func (f *fakeDepartmentRepository) FindAll(ctx context.Context) ([]department.Department, error) {
	return f.findAllFn(ctx)
}

func (f *fakeDepartmentRepository) FindByID(ctx context.Context, id string) (*department.Department, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeDepartmentRepository) Update(ctx context.Context, dept *department.Department) error {
	return f.updateFn(ctx, dept)
}

func (f *fakeDepartmentRepository) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

type departmentServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakeDepartmentRepository
	service department.Service
}

func setupDepartmentServiceTest(t *testing.T) departmentServiceDeps {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakeDepartmentRepository{}
	svc := department.NewService(db, repo)

	return departmentServiceDeps{db: db, sqlMock: mock, repo: repo, service: svc}
}

func expectTx(deps departmentServiceDeps, commit bool) {
	deps.sqlMock.ExpectBegin()
	if commit {
		deps.sqlMock.ExpectCommit()
	} else {
		deps.sqlMock.ExpectRollback()
	}
}

func TestDepartmentService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		expectTx(deps, true)

		deps.repo.createFn = func(ctx context.Context, dept *department.Department) error {
			assert.Equal(t, "Engineering", dept.Name)
			assert.NotEqual(t, uuid.Nil, dept.ID)
			return nil
		}

		resp, err := deps.service.Create(context.Background(), department.CreateDepartmentRequest{
			Name:        "Engineering",
			Description: "Product engineering",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Engineering", resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate name", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		expectTx(deps, false)

		deps.repo.createFn = func(ctx context.Context, dept *department.Department) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_department_name"}
		}

		_, err := deps.service.Create(context.Background(), department.CreateDepartmentRequest{Name: "Engineering"})
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate name via message fallback", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		expectTx(deps, false)

		deps.repo.createFn = func(ctx context.Context, dept *department.Department) error {
			return errors.New(`pq: duplicate key value violates unique constraint "uq_department_name"`)
		}

		_, err := deps.service.Create(context.Background(), department.CreateDepartmentRequest{Name: "Engineering"})
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentAlreadyExists)
	})
}

func TestDepartmentService_GetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, got string) (*department.Department, error) {
			assert.Equal(t, id.String(), got)
			return &department.Department{ID: id, Name: "People"}, nil
		}

		resp, err := deps.service.GetByID(context.Background(), id.String())
		assert.NoError(t, err)
		assert.Equal(t, "People", resp.Name)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)

		_, err := deps.service.GetByID(context.Background(), "nope")
		assert.ErrorIs(t, err, departmenterrors.ErrInvalidDepartmentID)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*department.Department, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByID(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
	})
}

func TestDepartmentService_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		expectTx(deps, true)

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, got string) (*department.Department, error) {
			return &department.Department{ID: id, Name: "People"}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, dept *department.Department) error {
			assert.Equal(t, "People Operations", dept.Name)
			return nil
		}

		resp, err := deps.service.Update(context.Background(), id.String(), department.UpdateDepartmentRequest{
			Name: "People Operations",
		})
		assert.NoError(t, err)
		assert.Equal(t, "People Operations", resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		expectTx(deps, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*department.Department, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Update(context.Background(), uuid.NewString(), department.UpdateDepartmentRequest{Name: "X"})
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
	})
}

func TestDepartmentService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		expectTx(deps, true)

		deps.repo.deleteFn = func(ctx context.Context, id string) error { return nil }

		err := deps.service.Delete(context.Background(), uuid.NewString())
		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		expectTx(deps, false)

		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			return gorm.ErrRecordNotFound
		}

		err := deps.service.Delete(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
	})
}

func TestDepartmentService_GetAll(t *testing.T) {
	deps := setupDepartmentServiceTest(t)

	deps.repo.findAllFn = func(ctx context.Context) ([]department.Department, error) {
		return []department.Department{
			{ID: uuid.New(), Name: "Engineering"},
			{ID: uuid.New(), Name: "People"},
		}, nil
	}

	resp, err := deps.service.GetAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, "Engineering", resp[0].Name)
}
