package auth

import (
	"context"
	"os"
	"time"

	autherrors "go-timeoff/internal/auth/errors"
	"go-timeoff/internal/employee"
	employeeerrors "go-timeoff/internal/employee/errors"
	"go-timeoff/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = time.Minute * 15
	refreshTokenTTL = time.Hour * 24 * 7
)

type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	repo         Repository
	rbac         rbac.Service
	employeeRepo employee.Repository
}

func NewService(repo Repository, rbac rbac.Service, employeeRepo employee.Repository) Service {
	return &service{repo: repo, rbac: rbac, employeeRepo: employeeRepo}
}

// tokenIdentity is everything the middleware needs without a DB roundtrip.
type tokenIdentity struct {
	UserID       string
	EmployeeID   string
	DepartmentID string
	IsManager    bool
	IsHR         bool
	IsAdmin      bool
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	identity, resp, err := s.resolveIdentity(ctx, user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	if err := s.rbac.LoadPolicy(); err != nil {
		return "", "", AuthResponse{}, err
	}

	accessToken, err := generateToken(identity, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := generateToken(identity, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, resp, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}

	// Role flags are re-read on refresh so revoked capabilities expire
	// with the old access token.
	identity, resp, err := s.resolveIdentity(ctx, user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	newAccessToken, err := generateToken(identity, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := generateToken(identity, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, resp, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	_, resp, err := s.resolveIdentity(ctx, user)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	eID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AuthResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if _, err := s.employeeRepo.FindByID(ctx, eID.String()); err != nil {
		return AuthResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	user := &User{
		ID:         uuid.New(),
		EmployeeID: &eID,
		Email:      req.Email,
		Name:       req.Name,
		Password:   string(hashed),
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	if err := s.rbac.LoadPolicy(); err != nil {
		return AuthResponse{}, err
	}

	_, resp, err := s.resolveIdentity(ctx, user)
	if err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

func (s *service) resolveIdentity(ctx context.Context, user *User) (tokenIdentity, AuthResponse, error) {
	identity := tokenIdentity{UserID: user.ID.String()}
	resp := AuthResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	}

	if user.EmployeeID == nil || *user.EmployeeID == uuid.Nil {
		return identity, resp, nil
	}

	empl, err := s.employeeRepo.FindByID(ctx, user.EmployeeID.String())
	if err != nil {
		return tokenIdentity{}, AuthResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	identity.EmployeeID = empl.ID.String()
	identity.DepartmentID = empl.DepartmentID.String()
	identity.IsManager = empl.IsManager
	identity.IsHR = empl.IsHR
	identity.IsAdmin = empl.IsAdmin

	resp.EmployeeID = identity.EmployeeID
	resp.DepartmentID = identity.DepartmentID
	resp.IsManager = identity.IsManager
	resp.IsHR = identity.IsHR
	resp.IsAdmin = identity.IsAdmin

	return identity, resp, nil
}

func generateToken(identity tokenIdentity, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":       identity.UserID,
		"employee_id":   identity.EmployeeID,
		"department_id": identity.DepartmentID,
		"is_manager":    identity.IsManager,
		"is_hr":         identity.IsHR,
		"is_admin":      identity.IsAdmin,
		"exp":           time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
