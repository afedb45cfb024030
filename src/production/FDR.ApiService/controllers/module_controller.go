package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logger "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Logger"
	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
	interfaces "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Repository/Interfaces"
)

// ModuleController handles feeder module management requests
type ModuleController struct {
	moduleRepo interfaces.ModuleRepository
	logger     *logger.Logger
}

// NewModuleController creates a new module controller
func NewModuleController(moduleRepo interfaces.ModuleRepository, logger *logger.Logger) *ModuleController {
	return &ModuleController{
		moduleRepo: moduleRepo,
		logger:     logger,
	}
}

// RegisterRoutes registers the module routes with Gin
func (c *ModuleController) RegisterRoutes(router *gin.Engine) {
	modules := router.Group("/modules")
	{
		modules.GET("", c.ListModules)
		modules.POST("", c.CreateModule)
		modules.PUT("/:module_id", c.UpdateModule)
		modules.DELETE("/:module_id", c.DeleteModule)
	}
}

type CreateModuleRequest struct {
	ModuleID string   `json:"module_id" binding:"required"`
	CamID    string   `json:"cam_id" binding:"required"`
	Status   string   `json:"status" binding:"required"`
	Weight   *float64 `json:"weight"`
}

type UpdateModuleRequest struct {
	CamID  string   `json:"cam_id" binding:"required"`
	Status string   `json:"status" binding:"required"`
	Weight *float64 `json:"weight"`
}

func (c *ModuleController) ListModules(ctx *gin.Context) {
	modules, err := c.moduleRepo.ListModules(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, modules)
}

func (c *ModuleController) CreateModule(ctx *gin.Context) {
	var req CreateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	module := feedermodels.Module{
		ModuleID: req.ModuleID,
		CamID:    req.CamID,
		Status:   req.Status,
		Weight:   req.Weight,
	}

	if err := c.moduleRepo.CreateModule(ctx, module); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateModule replaces all mutable fields, including a cam_id
// reassignment if requested.
func (c *ModuleController) UpdateModule(ctx *gin.Context) {
	moduleID := ctx.Param("module_id")

	var req UpdateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	module := feedermodels.Module{
		ModuleID: moduleID,
		CamID:    req.CamID,
		Status:   req.Status,
		Weight:   req.Weight,
	}

	if err := c.moduleRepo.UpdateModule(ctx, module); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (c *ModuleController) DeleteModule(ctx *gin.Context) {
	moduleID := ctx.Param("module_id")

	if err := c.moduleRepo.DeleteModule(ctx, moduleID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
