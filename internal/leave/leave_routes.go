package leave

import (
	"go-timeoff/internal/middleware"
	"go-timeoff/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Submit)
		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave", "edit"), handler.Edit)
		leaves.POST("/:id/manager-decision", middleware.RBACAuthorize(rbacService, "leave", "decide"), handler.ManagerDecision)
		leaves.POST("/:id/hr-decision", middleware.RBACAuthorize(rbacService, "leave", "decide"), handler.HRDecision)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "delete"), handler.Delete)
	}
}
