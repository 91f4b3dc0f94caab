package leave

import (
	"net/http"
	"strconv"

	"go-timeoff/internal/authz"
	"go-timeoff/internal/shared/apperror"
	"go-timeoff/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

// actorFromContext rebuilds the authorization actor from the claims the
// auth middleware stored on the request context.
func actorFromContext(c *gin.Context) authz.Actor {
	id, _ := uuid.Parse(c.GetString("employee_id"))

	var caps authz.Capability
	if c.GetBool("is_manager") {
		caps |= authz.CapManager
	}
	if c.GetBool("is_hr") {
		caps |= authz.CapHR
	}
	if c.GetBool("is_admin") {
		caps |= authz.CapAdmin
	}

	return authz.Actor{
		ID:           id,
		DepartmentID: c.GetString("department_id"),
		Caps:         caps,
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Submit(c *gin.Context) {
	actor := actorFromContext(c)
	h.logger.Debug("http submit leave", zap.String("actor_id", actor.ID.String()))

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http submit leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	actor := actorFromContext(c)

	resp, err := h.service.GetAll(ctx, actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()
	actor := actorFromContext(c)
	id := c.Param("id")

	resp, err := h.service.GetByID(ctx, actor, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Edit(c *gin.Context) {
	ctx := c.Request.Context()
	actor := actorFromContext(c)
	id := c.Param("id")

	var req EditLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http edit leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Edit(ctx, actor, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ManagerDecision(c *gin.Context) {
	h.decide(c, authz.StageManager)
}

func (h *Handler) HRDecision(c *gin.Context) {
	h.decide(c, authz.StageHR)
}

func (h *Handler) decide(c *gin.Context, stage authz.Stage) {
	ctx := c.Request.Context()
	actor := actorFromContext(c)
	id := c.Param("id")

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http decide leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Decide(ctx, actor, id, stage, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	actor := actorFromContext(c)
	id := c.Param("id")

	if err := h.service.Delete(ctx, actor, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
