package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-timeoff/internal/authz"
	"go-timeoff/internal/balance"
	balanceerrors "go-timeoff/internal/balance/errors"
	"go-timeoff/internal/domain"
	"go-timeoff/internal/events"
	leaveerrors "go-timeoff/internal/leave/errors"
	"go-timeoff/internal/messaging/kafka"
	"go-timeoff/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Submit(ctx context.Context, actor authz.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor authz.Actor) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error)
	Edit(ctx context.Context, actor authz.Actor, id string, req EditLeaveRequest) (LeaveResponse, error)
	Decide(ctx context.Context, actor authz.Actor, id string, stage authz.Stage, req DecisionRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type service struct {
	db          *sql.DB
	repo        Repository
	balanceRepo balance.Repository
	counter     counter.Repository
	outbox      kafka.OutboxRepository
	rdb         *redis.Client
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balanceRepo balance.Repository,
	counterRepo counter.Repository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, balanceRepo, counterRepo, nil, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	balanceRepo balance.Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		balanceRepo: balanceRepo,
		counter:     counterRepo,
		outbox:      outboxRepo,
		rdb:         rdb,
		logger:      l,
	}
}

// requestWindow is the validated shape of a submission or edit.
type requestWindow struct {
	start     time.Time
	end       time.Time
	startTime *string
	endTime   *string
	totalDays int
}

func (s *service) Submit(ctx context.Context, actor authz.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("category", req.Category),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if actor.ID == uuid.Nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	w, err := validateRequestWindow(req.Category, req.StartDate, req.EndDate, req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.checkConflict(ctx, qtx, actor.ID.String(), req.Category, w, nil); err != nil {
		return LeaveResponse{}, err
	}
	if err := s.checkBalance(ctx, qtx, actor.ID.String(), req.Category, w); err != nil {
		return LeaveResponse{}, err
	}

	nextVal, err := s.counter.GetNextValue(ctx, "leave_request_number")
	if err != nil {
		s.logger.Error("submit leave generate number failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		RequestNumber: fmt.Sprintf("LVE-%06d", nextVal),
		EmployeeID:    actor.ID,
		DepartmentID:  actor.DepartmentID,
		Category:      req.Category,
		StartDate:     w.start,
		EndDate:       w.end,
		StartTime:     w.startTime,
		EndTime:       w.endTime,
		TotalDays:     w.totalDays,
		Reason:        req.Reason,
		ManagerStatus: domain.StatusPending,
		HRStatus:      domain.StatusPending,
		Version:       1,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("request_number", l.RequestNumber),
		zap.String("employee_id", actor.ID.String()),
		zap.Int("total_days", l.TotalDays),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, actor authz.Actor) ([]LeaveResponse, error) {
	var (
		requests []LeaveRequest
		err      error
	)

	switch {
	case authz.CanViewAll(actor):
		requests, err = s.repo.FindAll(ctx)
	case actor.Caps.Has(authz.CapManager):
		requests, err = s.repo.FindAllByDepartment(ctx, actor.DepartmentID)
	default:
		requests, err = s.repo.FindAllByEmployee(ctx, actor.ID.String())
	}
	if err != nil {
		return nil, err
	}

	// Managers also see their own requests even when those were submitted
	// from a different department snapshot.
	if !authz.CanViewAll(actor) && actor.Caps.Has(authz.CapManager) {
		own, err := s.repo.FindAllByEmployee(ctx, actor.ID.String())
		if err != nil {
			return nil, err
		}
		seen := make(map[uuid.UUID]struct{}, len(requests))
		for _, l := range requests {
			seen[l.ID] = struct{}{}
		}
		for _, l := range own {
			if _, ok := seen[l.ID]; !ok {
				requests = append(requests, l)
			}
		}
	}

	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !authz.CanView(subjectOf(l), actor) {
		return LeaveResponse{}, leaveerrors.ErrViewForbidden
	}
	return mapToResponse(*l), nil
}

func (s *service) Edit(ctx context.Context, actor authz.Actor, id string, req EditLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("edit leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID.String()),
	)

	w, err := validateRequestWindow(req.Category, req.StartDate, req.EndDate, req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Warn("edit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("edit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if !authz.CanEdit(subjectOf(l), actor) {
		return LeaveResponse{}, leaveerrors.ErrEditForbidden
	}
	// Even an admin cannot reshape a request once a stage has decided;
	// decided requests are unwound via Delete, which reverses the ledger.
	if l.ManagerStatus != domain.StatusPending || l.HRStatus != domain.StatusPending {
		return LeaveResponse{}, leaveerrors.ErrRequestNotEditable
	}

	// Same gate as a fresh submission, with this request excluded from the
	// overlap scan.
	excludeID := l.ID.String()
	if err := s.checkConflict(ctx, qtx, l.EmployeeID.String(), req.Category, w, &excludeID); err != nil {
		return LeaveResponse{}, err
	}
	if err := s.checkBalance(ctx, qtx, l.EmployeeID.String(), req.Category, w); err != nil {
		return LeaveResponse{}, err
	}

	l.Category = req.Category
	l.StartDate = w.start
	l.EndDate = w.end
	l.StartTime = w.startTime
	l.EndTime = w.endTime
	l.TotalDays = w.totalDays
	l.Reason = req.Reason

	if err := qtx.UpdateVersioned(ctx, l); err != nil {
		s.logger.Error("edit leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("edit leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("edit leave success", zap.String("leave_id", id))

	return mapToResponse(*l), nil
}

func (s *service) Decide(ctx context.Context, actor authz.Actor, id string, stage authz.Stage, req DecisionRequest) (LeaveResponse, error) {
	action := actionFor(stage, req.Decision)
	s.logger.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID.String()),
		zap.String("action", string(action)),
	)

	if !action.Approves() && req.RejectionReason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if !authz.CanTransition(subjectOf(l), actor, stage) {
		s.logger.Warn("decide leave forbidden",
			zap.String("leave_id", id),
			zap.String("actor_id", actor.ID.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrDecisionForbidden
	}

	tr, err := Transit(l, action)
	if err != nil {
		s.logger.Warn("decide leave illegal transition",
			zap.String("leave_id", id),
			zap.String("from_manager", l.ManagerStatus),
			zap.String("from_hr", l.HRStatus),
			zap.String("action", string(action)),
		)
		return LeaveResponse{}, err
	}

	applyDecision(l, actor, action, tr, req)

	// The balance row is shared across all of an employee's requests; the
	// request version token alone does not serialize writes to it. Lock the
	// row inside the tx so a concurrent commit or reversal cannot read the
	// same counters and overwrite this write.
	committed := false
	if tr.CommitsBalance && !l.BalanceCommitted && domain.TouchesLedger(l.Category) {
		btx := s.balanceRepo.WithTx(tx)
		b, err := btx.FindByEmployeeForUpdate(ctx, l.EmployeeID.String())
		if err != nil {
			s.logger.Error("decide leave load balance failed",
				zap.String("employee_id", l.EmployeeID.String()),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
		if err := balance.Commit(b, l.Category, l.TotalDays); err != nil {
			return LeaveResponse{}, err
		}
		if err := btx.UpdateCounters(ctx, b); err != nil {
			s.logger.Error("decide leave persist balance failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		l.BalanceCommitted = true
		committed = true
	}

	if err := qtx.UpdateVersioned(ctx, l); err != nil {
		s.logger.Error("decide leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if tr.Terminal {
		if err := s.queueDecisionEvent(ctx, tx, l); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if committed {
		s.invalidateBalanceCache(ctx, l.EmployeeID.String())
	}

	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("manager_status", l.ManagerStatus),
		zap.String("hr_status", l.HRStatus),
		zap.Bool("balance_committed", committed),
	)
	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	if !authz.CanDelete(subjectOf(l), actor) {
		return leaveerrors.ErrDeleteForbidden
	}

	// Admin override on a fully approved request: give the days back before
	// the record disappears.
	reversed := false
	if l.BalanceCommitted {
		btx := s.balanceRepo.WithTx(tx)
		b, err := btx.FindByEmployeeForUpdate(ctx, l.EmployeeID.String())
		if err != nil {
			return err
		}
		balance.Reverse(b, l.Category, l.TotalDays)
		if err := btx.UpdateCounters(ctx, b); err != nil {
			s.logger.Error("delete leave reverse balance failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return err
		}
		reversed = true
	}

	if err := qtx.DeleteVersioned(ctx, l); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if reversed {
		s.invalidateBalanceCache(ctx, l.EmployeeID.String())
	}

	s.logger.Info("delete leave success",
		zap.String("leave_id", id),
		zap.Bool("balance_reversed", reversed),
	)
	return nil
}

// checkConflict runs the overlap scan plus the pure detector.
func (s *service) checkConflict(ctx context.Context, qtx Repository, employeeID, category string, w requestWindow, excludeID *string) error {
	windows, err := qtx.FindOverlapping(ctx, employeeID, w.start, w.end, excludeID)
	if err != nil {
		s.logger.Error("leave overlap scan failed", zap.Error(err))
		return err
	}

	candidate := Window{
		Start:         w.start,
		End:           w.end,
		Category:      category,
		ManagerStatus: domain.StatusPending,
		HRStatus:      domain.StatusPending,
	}
	if HasConflict(candidate, windows) {
		s.logger.Warn("leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("category", category),
		)
		return leaveerrors.ErrLeaveConflict.WithDetails(map[string]any{
			"category":   category,
			"start_date": w.start.Format("2006-01-02"),
			"end_date":   w.end.Format("2006-01-02"),
		})
	}
	return nil
}

// checkBalance enforces the allocation ceiling and the PERMISSION monthly
// count cap. Uncapped categories pass straight through; the ledger only
// re-checks the ceiling again at commit time.
func (s *service) checkBalance(ctx context.Context, qtx Repository, employeeID, category string, w requestWindow) error {
	if !domain.TouchesLedger(category) {
		return nil
	}

	b, err := s.balanceRepo.FindByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound.WithDetails(map[string]any{
				"employee_id": employeeID,
				"missing":     "leave_balance",
			})
		}
		return err
	}

	if balance.WouldExceed(b, category, w.totalDays) {
		remaining := balance.Remaining(b, category)
		s.logger.Warn("leave balance exceeded",
			zap.String("employee_id", employeeID),
			zap.String("category", category),
			zap.Int("requested", w.totalDays),
			zap.Int("remaining", remaining),
		)
		return balanceInsufficient(category, w.totalDays, remaining)
	}

	if category == domain.CategoryPermission {
		count, err := qtx.CountApprovedInMonth(ctx, employeeID, category, w.start)
		if err != nil {
			return err
		}
		if count >= int64(b.PermissionMonthlyCap) {
			return leaveerrors.ErrPermissionMonthlyCapReached.WithDetails(map[string]any{
				"month":    w.start.Format("2006-01"),
				"approved": count,
				"cap":      b.PermissionMonthlyCap,
			})
		}
	}

	return nil
}

func (s *service) queueDecisionEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveDecidedEvent{
		EventType:     "leave_decided",
		RequestID:     l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		DepartmentID:  l.DepartmentID,
		Category:      l.Category,
		ManagerStatus: l.ManagerStatus,
		HRStatus:      l.HRStatus,
		TotalDays:     l.TotalDays,
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave_decided event failed", zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue leave_decided event failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateBalanceCache(ctx context.Context, employeeID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := balance.SummaryCacheKey(employeeID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("invalidate balance summary cache failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func actionFor(stage authz.Stage, decision string) Action {
	approve := decision == "APPROVE"
	if stage == authz.StageManager {
		if approve {
			return ActionManagerApprove
		}
		return ActionManagerReject
	}
	if approve {
		return ActionHRApprove
	}
	return ActionHRReject
}

func applyDecision(l *LeaveRequest, actor authz.Actor, action Action, tr Transition, req DecisionRequest) {
	l.ManagerStatus = tr.To.Manager
	l.HRStatus = tr.To.HR

	now := time.Now().UTC()
	actorID := actor.ID

	switch action.Stage() {
	case authz.StageManager:
		l.ManagerDecidedBy = &actorID
		l.ManagerDecidedAt = &now
		if req.Comment != "" {
			l.ManagerComment = &req.Comment
		}
		if !action.Approves() {
			l.ManagerRejectionReason = &req.RejectionReason
		}
	case authz.StageHR:
		l.HRDecidedBy = &actorID
		l.HRDecidedAt = &now
		if req.Comment != "" {
			l.HRComment = &req.Comment
		}
		if !action.Approves() {
			l.HRRejectionReason = &req.RejectionReason
		}
	}
}

func subjectOf(l *LeaveRequest) authz.Subject {
	return authz.Subject{
		OwnerID:       l.EmployeeID,
		DepartmentID:  l.DepartmentID,
		ManagerStatus: l.ManagerStatus,
		HRStatus:      l.HRStatus,
	}
}

func balanceInsufficient(category string, requested, remaining int) error {
	return balanceerrors.ErrInsufficientBalance.WithDetails(map[string]any{
		"category":  category,
		"requested": requested,
		"remaining": remaining,
	})
}

func validateRequestWindow(category, startDate, endDate, startTime, endTime string) (requestWindow, error) {
	if !domain.IsValidCategory(category) {
		return requestWindow{}, leaveerrors.ErrInvalidCategory
	}

	start, err := parseDate(startDate)
	if err != nil {
		return requestWindow{}, err
	}

	end := start
	if endDate != "" {
		end, err = parseDate(endDate)
		if err != nil {
			return requestWindow{}, err
		}
	}
	if start.After(end) {
		return requestWindow{}, leaveerrors.ErrInvalidDateRange
	}

	w := requestWindow{start: start, end: end}

	if domain.IsTimeWindowed(category) {
		if !end.Equal(start) {
			return requestWindow{}, leaveerrors.ErrMultiDayNotAllowed
		}
		w.totalDays = 1

		if startTime == "" && endTime == "" {
			return w, nil
		}
		if startTime == "" || endTime == "" {
			return requestWindow{}, leaveerrors.ErrInvalidTimeFormat
		}
		st, err := parseClock(startTime)
		if err != nil {
			return requestWindow{}, err
		}
		et, err := parseClock(endTime)
		if err != nil {
			return requestWindow{}, err
		}
		if !et.After(st) {
			return requestWindow{}, leaveerrors.ErrInvalidTimeWindow
		}
		w.startTime = &startTime
		w.endTime = &endTime
		return w, nil
	}

	if startTime != "" || endTime != "" {
		return requestWindow{}, leaveerrors.ErrTimeWindowNotAllowed
	}
	w.totalDays = int(end.Sub(start).Hours()/24) + 1
	return w, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func parseClock(v string) (time.Time, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidTimeFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		RequestNumber: l.RequestNumber,
		EmployeeID:    l.EmployeeID.String(),
		DepartmentID:  l.DepartmentID,
		Category:      l.Category,
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		StartTime:     l.StartTime,
		EndTime:       l.EndTime,
		TotalDays:     l.TotalDays,
		Reason:        l.Reason,
		ManagerStatus: l.ManagerStatus,
		HRStatus:      l.HRStatus,
		Version:       l.Version,
	}
	resp.ManagerComment = l.ManagerComment
	resp.ManagerRejectionReason = l.ManagerRejectionReason
	resp.HRComment = l.HRComment
	resp.HRRejectionReason = l.HRRejectionReason
	if l.ManagerDecidedBy != nil {
		v := l.ManagerDecidedBy.String()
		resp.ManagerDecidedBy = &v
	}
	if l.ManagerDecidedAt != nil {
		v := l.ManagerDecidedAt.Format(time.RFC3339)
		resp.ManagerDecidedAt = &v
	}
	if l.HRDecidedBy != nil {
		v := l.HRDecidedBy.String()
		resp.HRDecidedBy = &v
	}
	if l.HRDecidedAt != nil {
		v := l.HRDecidedAt.Format(time.RFC3339)
		resp.HRDecidedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
