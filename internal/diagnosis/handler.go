// File: internal/diagnosis/handler.go
package diagnosis

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"dentalscope_backend/internal/common"
)

// Handler struct holds dependencies for diagnosis handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new diagnosis handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the route for running a diagnosis. The route requires
// authentication so the outcome can be appended to the caller's history.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	diagnosisGroup := router.Group("/diagnosis")
	diagnosisGroup.Use(authMW)
	{
		diagnosisGroup.POST("", h.runDiagnosis)
	}
}

func (h *Handler) runDiagnosis(c *gin.Context) {
	userID := common.GetStableIDFromContext(c)
	if userID == "" {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var req DiagnoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	outcome, err := h.service.Diagnose(c.Request.Context(), userID, req.SelectedSymptomIDs)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	if !outcome.Saved {
		h.logger.Warn("Diagnosis completed but history append failed", zap.String("user_id", userID))
	}
	common.RespondOK(c, "Diagnosis completed.", ToDiagnoseResponse(outcome))
}
