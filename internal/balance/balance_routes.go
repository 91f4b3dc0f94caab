package balance

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
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/me", handler.GetMe)
		balances.GET("/:employee_id", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetByEmployee)
	}
}
