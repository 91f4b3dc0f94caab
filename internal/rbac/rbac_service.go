package rbac

import (
	"log"
	"sync"

	"go-timeoff/internal/domain"

	"github.com/casbin/casbin/v2"
)

type Service interface {
	LoadPolicy() error
	Enforce(req domain.EnforceRequest) (bool, error)

	ListRoles() ([]domain.RoleResponse, error)
	GetRole(id string) (*domain.RoleResponse, error)
	CreateRole(req CreateRoleRequest) (*domain.RoleResponse, error)
	UpdateRole(id string, req UpdateRoleRequest) (*domain.RoleResponse, error)
	DeleteRole(id string) error
	ListPermissions() ([]domain.PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) LoadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPolicyUnlocked()
}

func (s *service) loadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	employeeRoles, err := s.repo.GetEmployeeRoles()
	if err != nil {
		return err
	}

	for _, er := range employeeRoles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.RoleID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions()
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Policy is reloaded per check so permission edits apply without a
	// restart. The table is small enough that this stays cheap.
	if err := s.loadPolicyUnlocked(); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.EmployeeID, req.Resource, req.Action)
	if err != nil {
		log.Printf("rbac enforce failed: employee_id=%s resource=%s action=%s err=%v",
			req.EmployeeID, req.Resource, req.Action, err)
		return false, err
	}

	return allowed, nil
}

func (s *service) ListRoles() ([]domain.RoleResponse, error) {
	rows, err := s.repo.ListRoles()
	if err != nil {
		return nil, err
	}

	result := make([]domain.RoleResponse, 0, len(rows))
	for _, row := range rows {
		resp, err := s.roleToResponse(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

func (s *service) GetRole(id string) (*domain.RoleResponse, error) {
	row, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}
	return s.roleToResponse(*row)
}

func (s *service) CreateRole(req CreateRoleRequest) (*domain.RoleResponse, error) {
	role := &RoleRow{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateRole(role); err != nil {
		return nil, err
	}
	if len(req.PermissionIDs) > 0 {
		if err := s.repo.UpdateRolePermissions(role.ID, req.PermissionIDs); err != nil {
			return nil, err
		}
	}
	return s.roleToResponse(*role)
}

func (s *service) UpdateRole(id string, req UpdateRoleRequest) (*domain.RoleResponse, error) {
	role, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}

	role.Name = req.Name
	role.Description = req.Description
	if err := s.repo.UpdateRole(role); err != nil {
		return nil, err
	}

	if req.PermissionIDs != nil {
		if err := s.repo.UpdateRolePermissions(role.ID, req.PermissionIDs); err != nil {
			return nil, err
		}
	}
	return s.roleToResponse(*role)
}

func (s *service) DeleteRole(id string) error {
	return s.repo.DeleteRole(id)
}

func (s *service) ListPermissions() ([]domain.PermissionResponse, error) {
	rows, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}

	result := make([]domain.PermissionResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.PermissionResponse{
			ID:       row.ID,
			Resource: row.Resource,
			Action:   row.Action,
			Label:    row.Label,
			Category: row.Category,
		})
	}
	return result, nil
}

func (s *service) roleToResponse(row RoleRow) (*domain.RoleResponse, error) {
	perms, err := s.repo.GetPermissionsByRoleID(row.ID)
	if err != nil {
		return nil, err
	}

	permNames := make([]string, 0, len(perms))
	for _, p := range perms {
		permNames = append(permNames, p.Resource+":"+p.Action)
	}

	return &domain.RoleResponse{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Permissions: permNames,
	}, nil
}
