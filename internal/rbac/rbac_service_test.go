package rbac_test

import (
	"testing"

	"go-timeoff/internal/domain"
	"go-timeoff/internal/rbac"
	"go-timeoff/internal/rbac/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRBACRepository struct {
	employeeRoles   []rbac.EmployeeRoleRow
	rolePermissions []rbac.RolePermissionRow
	roles           []rbac.RoleRow
	permissions     []rbac.PermissionRow
	rolePermsByID   map[string][]rbac.PermissionRow

	createdRole *rbac.RoleRow
	updatedIDs  []string
}

func (f *fakeRBACRepository) GetEmployeeRoles() ([]rbac.EmployeeRoleRow, error) {
	return f.employeeRoles, nil
}

func (f *fakeRBACRepository) GetRolePermissions() ([]rbac.RolePermissionRow, error) {
	return f.rolePermissions, nil
}

func (f *fakeRBACRepository) ListRoles() ([]rbac.RoleRow, error) { return f.roles, nil }

func (f *fakeRBACRepository) GetRoleByID(id string) (*rbac.RoleRow, error) {
	for i := range f.roles {
		if f.roles[i].ID == id {
			return &f.roles[i], nil
		}
	}
	return nil, assert.AnError
}

func (f *fakeRBACRepository) GetRoleByName(name string) (*rbac.RoleRow, error) {
	for i := range f.roles {
		if f.roles[i].Name == name {
			return &f.roles[i], nil
		}
	}
	return nil, assert.AnError
}

func (f *fakeRBACRepository) CreateRole(role *rbac.RoleRow) error {
	role.ID = uuid.NewString()
	f.createdRole = role
	f.roles = append(f.roles, *role)
	return nil
}

func (f *fakeRBACRepository) UpdateRole(role *rbac.RoleRow) error { return nil }

func (f *fakeRBACRepository) DeleteRole(id string) error { return nil }

func (f *fakeRBACRepository) ListPermissions() ([]rbac.PermissionRow, error) {
	return f.permissions, nil
}

func (f *fakeRBACRepository) GetPermissionsByRoleID(roleID string) ([]rbac.PermissionRow, error) {
	return f.rolePermsByID[roleID], nil
}

func (f *fakeRBACRepository) UpdateRolePermissions(roleID string, permIDs []string) error {
	f.updatedIDs = permIDs
	return nil
}

func newTestService(t *testing.T, repo rbac.Repository) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer("infra/model.conf")
	assert.NoError(t, err)
	return rbac.NewService(repo, enforcer)
}

func TestRBACService_Enforce(t *testing.T) {
	employeeID := uuid.NewString()
	roleID := uuid.NewString()

	repo := &fakeRBACRepository{
		employeeRoles: []rbac.EmployeeRoleRow{
			{EmployeeID: employeeID, RoleID: roleID},
		},
		rolePermissions: []rbac.RolePermissionRow{
			{RoleID: roleID, Resource: "leave", Action: "decide"},
			{RoleID: roleID, Resource: "leave", Action: "read"},
		},
	}
	svc := newTestService(t, repo)

	t.Run("granted through role membership", func(t *testing.T) {
		allowed, err := svc.Enforce(domain.EnforceRequest{
			EmployeeID: employeeID,
			Resource:   "leave",
			Action:     "decide",
		})
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("denied for an action the role lacks", func(t *testing.T) {
		allowed, err := svc.Enforce(domain.EnforceRequest{
			EmployeeID: employeeID,
			Resource:   "leave",
			Action:     "delete",
		})
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("denied for an unknown employee", func(t *testing.T) {
		allowed, err := svc.Enforce(domain.EnforceRequest{
			EmployeeID: uuid.NewString(),
			Resource:   "leave",
			Action:     "read",
		})
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("policy edits apply without a restart", func(t *testing.T) {
		repo.rolePermissions = append(repo.rolePermissions, rbac.RolePermissionRow{
			RoleID: roleID, Resource: "leave", Action: "delete",
		})

		allowed, err := svc.Enforce(domain.EnforceRequest{
			EmployeeID: employeeID,
			Resource:   "leave",
			Action:     "delete",
		})
		assert.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRBACService_Roles(t *testing.T) {
	roleID := uuid.NewString()

	t.Run("list roles resolves permission names", func(t *testing.T) {
		repo := &fakeRBACRepository{
			roles: []rbac.RoleRow{{ID: roleID, Name: "approver"}},
			rolePermsByID: map[string][]rbac.PermissionRow{
				roleID: {
					{ID: uuid.NewString(), Resource: "leave", Action: "decide"},
				},
			},
		}
		svc := newTestService(t, repo)

		roles, err := svc.ListRoles()
		assert.NoError(t, err)
		assert.Len(t, roles, 1)
		assert.Equal(t, "approver", roles[0].Name)
		assert.Equal(t, []string{"leave:decide"}, roles[0].Permissions)
	})

	t.Run("create role attaches permissions", func(t *testing.T) {
		permID := uuid.NewString()
		repo := &fakeRBACRepository{rolePermsByID: map[string][]rbac.PermissionRow{}}
		svc := newTestService(t, repo)

		resp, err := svc.CreateRole(rbac.CreateRoleRequest{
			Name:          "hr-assistant",
			Description:   "limited HR access",
			PermissionIDs: []string{permID},
		})
		assert.NoError(t, err)
		assert.Equal(t, "hr-assistant", resp.Name)
		assert.NotNil(t, repo.createdRole)
		assert.Equal(t, []string{permID}, repo.updatedIDs)
	})
}
