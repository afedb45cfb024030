package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logger "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Logger"
	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
	interfaces "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Repository/Interfaces"
)

// ScheduleController handles feeding schedule management requests
type ScheduleController struct {
	scheduleRepo interfaces.ScheduleRepository
	logger       *logger.Logger
}

// NewScheduleController creates a new schedule controller
func NewScheduleController(scheduleRepo interfaces.ScheduleRepository, logger *logger.Logger) *ScheduleController {
	return &ScheduleController{
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// RegisterRoutes registers the schedule routes with Gin
func (c *ScheduleController) RegisterRoutes(router *gin.Engine) {
	schedules := router.Group("/schedules")
	{
		schedules.GET("", c.ListSchedules)
		schedules.POST("", c.CreateSchedule)
		schedules.PUT("/:schedule_id", c.UpdateSchedule)
		schedules.DELETE("/:schedule_id", c.DeleteSchedule)
	}
}

type CreateScheduleRequest struct {
	ModuleID string  `json:"module_id" binding:"required"`
	FeedTime string  `json:"feed_time" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Status   string  `json:"status"`
}

type UpdateScheduleRequest struct {
	ModuleID string  `json:"module_id" binding:"required"`
	FeedTime string  `json:"feed_time" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Status   string  `json:"status" binding:"required"`
}

func (c *ScheduleController) ListSchedules(ctx *gin.Context) {
	schedules, err := c.scheduleRepo.ListSchedules(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, schedules)
}

func (c *ScheduleController) CreateSchedule(ctx *gin.Context) {
	var req CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule := feedermodels.Schedule{
		ModuleID: req.ModuleID,
		FeedTime: req.FeedTime,
		Amount:   req.Amount,
		Status:   req.Status, // defaults to pending in the repository
	}

	if _, err := c.scheduleRepo.CreateSchedule(ctx, schedule); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateSchedule replaces all mutable fields. Setting status back to
// pending through this endpoint is the only way to re-arm a fired
// schedule.
func (c *ScheduleController) UpdateSchedule(ctx *gin.Context) {
	scheduleID, err := strconv.ParseInt(ctx.Param("schedule_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule_id"})
		return
	}

	var req UpdateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule := feedermodels.Schedule{
		ScheduleID: scheduleID,
		ModuleID:   req.ModuleID,
		FeedTime:   req.FeedTime,
		Amount:     req.Amount,
		Status:     req.Status,
	}

	if err := c.scheduleRepo.UpdateSchedule(ctx, schedule); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (c *ScheduleController) DeleteSchedule(ctx *gin.Context) {
	scheduleID, err := strconv.ParseInt(ctx.Param("schedule_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule_id"})
		return
	}

	if err := c.scheduleRepo.DeleteSchedule(ctx, scheduleID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
