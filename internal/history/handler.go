// File: internal/history/handler.go
package history

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dentalscope_backend/internal/common"
)

// Handler struct holds dependencies for history handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new history handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for history operations. All routes require
// authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	historyGroup := router.Group("/history")
	historyGroup.Use(authMW)
	{
		historyGroup.GET("", h.getHistory)
		historyGroup.GET("/stream", h.streamHistory)
		historyGroup.GET("/search", h.searchHistory)
	}
}

func (h *Handler) getHistory(c *gin.Context) {
	userID := common.GetStableIDFromContext(c)
	if userID == "" {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	records, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	page, pageSize := common.GetPaginationParams(c)
	total := int64(len(records))
	start := (page - 1) * pageSize
	if start > len(records) {
		start = len(records)
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}

	common.RespondPaginated(c, "History retrieved successfully.", records[start:end],
		common.NewPagination(total, page, pageSize))
}

func (h *Handler) streamHistory(c *gin.Context) {
	userID := common.GetStableIDFromContext(c)
	if userID == "" {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	// Single producer on both channels; the newest snapshot replaces an
	// undelivered one so a slow client never blocks the store stream.
	snapshots := make(chan []Record, 1)
	streamErrs := make(chan error, 1)

	stop, err := h.service.StreamByUser(c.Request.Context(), userID,
		func(records []Record) {
			select {
			case snapshots <- records:
			default:
				select {
				case <-snapshots:
				default:
				}
				snapshots <- records
			}
		},
		func(streamErr error) {
			select {
			case streamErrs <- streamErr:
			default:
			}
		},
	)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	defer stop()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	h.logger.Debug("History stream opened", zap.String("user_id", userID))

	c.Stream(func(w io.Writer) bool {
		select {
		case records := <-snapshots:
			c.SSEvent("snapshot", records)
			return true
		case <-streamErrs:
			c.SSEvent("error", gin.H{"message": "history stream failed"})
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})

	h.logger.Debug("History stream closed", zap.String("user_id", userID))
}

func (h *Handler) searchHistory(c *gin.Context) {
	userID := common.GetStableIDFromContext(c)
	if userID == "" {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("query parameter 'q' is required"))
		return
	}

	records, err := h.service.Search(c.Request.Context(), userID, query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "History search completed.", records)
}
