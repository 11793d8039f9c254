// File: internal/symptom/handler.go
package symptom

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dentalscope_backend/internal/common"
)

// Handler serves the symptom checklist.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new symptom handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// RegisterRoutes sets up the routes for the symptom catalog.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/symptoms", h.getSymptoms)
}

func (h *Handler) getSymptoms(c *gin.Context) {
	common.RespondOK(c, "Symptoms retrieved successfully.", GroupedByCategory())
}
