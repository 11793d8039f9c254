// File: internal/rule/handler.go
package rule

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dentalscope_backend/internal/common"
)

// Handler struct holds dependencies for rule catalog handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new rule handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the admin routes for the rule catalog.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	adminRuleGroup := router.Group("/rules/admin")
	adminRuleGroup.Use(authMW)
	adminRuleGroup.Use(adminRoleMW)
	{
		adminRuleGroup.POST("/refresh", h.adminRefreshRules)
	}
}

func (h *Handler) adminRefreshRules(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		common.RespondWithError(c, err)
		return
	}
	rules, err := h.service.GetRules(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Rule catalog refreshed successfully.", gin.H{"rule_count": len(rules)})
}
