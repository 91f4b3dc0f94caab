package balance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	balanceerrors "go-timeoff/internal/balance/errors"
	"go-timeoff/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Default allocations granted when a balance row is provisioned at
// onboarding. HR adjusts individual rows afterwards.
const (
	DefaultAnnualAllowed        = 21
	DefaultEmergencyAllowed     = 7
	DefaultPermissionAllowed    = 3
	DefaultPermissionMonthlyCap = 3
)

const summaryKeyPrefix = "balances:summary:"

// SummaryCacheKey is shared with the leave workflow, which invalidates the
// entry after every commit or reversal.
func SummaryCacheKey(employeeID string) string {
	return summaryKeyPrefix + employeeID
}

type Service interface {
	CreateDefault(ctx context.Context, employeeID string) (BalanceSummaryResponse, error)
	Summary(ctx context.Context, employeeID string) (BalanceSummaryResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) CreateDefault(ctx context.Context, employeeID string) (BalanceSummaryResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return BalanceSummaryResponse{}, balanceerrors.ErrInvalidEmployeeID
	}

	b := &LeaveBalance{
		ID:                   uuid.New(),
		EmployeeID:           employeeUUID,
		AnnualAllowed:        DefaultAnnualAllowed,
		EmergencyAllowed:     DefaultEmergencyAllowed,
		PermissionAllowed:    DefaultPermissionAllowed,
		PermissionMonthlyCap: DefaultPermissionMonthlyCap,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.Error("create default balance failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return BalanceSummaryResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("default balance provisioned", zap.String("employee_id", employeeID))
	return mapToSummary(b), nil
}

func (s *service) Summary(ctx context.Context, employeeID string) (BalanceSummaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceSummaryResponse{}, balanceerrors.ErrInvalidEmployeeID
	}

	cacheKey := SummaryCacheKey(employeeID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp BalanceSummaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		b, err := s.repo.FindByEmployee(ctx, employeeID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToSummary(b)

		// Short TTL: the leave workflow also deletes the key on every
		// commit/reverse, so this only bounds staleness on direct edits.
		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, payload, 5*time.Minute)
			}
		}

		return resp, nil
	})

	if err != nil {
		return BalanceSummaryResponse{}, err
	}

	return v.(BalanceSummaryResponse), nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return balanceerrors.ErrBalanceNotFound
	}
	if isUniqueBalanceViolation(err) {
		return balanceerrors.ErrBalanceAlreadyExists
	}
	return err
}

func mapToSummary(b *LeaveBalance) BalanceSummaryResponse {
	categories := make([]CategoryBalance, 0, 5)
	for _, category := range domain.Categories() {
		if !domain.TouchesLedger(category) {
			continue
		}

		item := CategoryBalance{Category: category, Capped: domain.HasCeiling(category)}
		switch category {
		case domain.CategoryAnnual:
			item.Allocated, item.Used = b.AnnualAllowed, b.AnnualUsed
		case domain.CategoryEmergency:
			item.Allocated, item.Used = b.EmergencyAllowed, b.EmergencyUsed
		case domain.CategoryPermission:
			item.Allocated, item.Used = b.PermissionAllowed, b.PermissionUsed
		case domain.CategoryUnpaid:
			item.Used = b.UnpaidUsed
		case domain.CategoryWorkFromHome:
			item.Used = b.WorkFromHomeUsed
		}
		if item.Capped {
			item.Remaining = item.Allocated - item.Used
		}
		categories = append(categories, item)
	}

	return BalanceSummaryResponse{
		EmployeeID:           b.EmployeeID.String(),
		PermissionMonthlyCap: b.PermissionMonthlyCap,
		Categories:           categories,
	}
}
