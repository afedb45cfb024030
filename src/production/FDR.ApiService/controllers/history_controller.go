package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logger "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Logger"
	interfaces "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Repository/Interfaces"
)

// HistoryController handles dispense history requests
type HistoryController struct {
	historyRepo interfaces.HistoryRepository
	logger      *logger.Logger
}

// NewHistoryController creates a new history controller
func NewHistoryController(historyRepo interfaces.HistoryRepository, logger *logger.Logger) *HistoryController {
	return &HistoryController{
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// RegisterRoutes registers the history routes with Gin
func (c *HistoryController) RegisterRoutes(router *gin.Engine) {
	history := router.Group("/history")
	{
		history.GET("", c.ListHistory)
		history.POST("", c.CreateHistory)
		history.DELETE("/:history_id", c.DeleteHistory)
	}
}

type CreateHistoryRequest struct {
	ScheduleID int64 `json:"schedule_id" binding:"required"`
}

func (c *HistoryController) ListHistory(ctx *gin.Context) {
	entries, err := c.historyRepo.ListHistory(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, entries)
}

func (c *HistoryController) CreateHistory(ctx *gin.Context) {
	var req CreateHistoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := c.historyRepo.CreateHistory(ctx, req.ScheduleID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (c *HistoryController) DeleteHistory(ctx *gin.Context) {
	historyID, err := strconv.ParseInt(ctx.Param("history_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid history_id"})
		return
	}

	if err := c.historyRepo.DeleteHistory(ctx, historyID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
