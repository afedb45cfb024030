package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logger "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Logger"
	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
	interfaces "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Repository/Interfaces"
)

// CameraController handles camera management requests
type CameraController struct {
	cameraRepo interfaces.CameraRepository
	logger     *logger.Logger
}

// NewCameraController creates a new camera controller
func NewCameraController(cameraRepo interfaces.CameraRepository, logger *logger.Logger) *CameraController {
	return &CameraController{
		cameraRepo: cameraRepo,
		logger:     logger,
	}
}

// RegisterRoutes registers the camera routes with Gin
func (c *CameraController) RegisterRoutes(router *gin.Engine) {
	cameras := router.Group("/cameras")
	{
		cameras.GET("", c.ListCameras)
		cameras.POST("", c.CreateCamera)
		cameras.PUT("/:cam_id", c.UpdateCamera)
		cameras.DELETE("/:cam_id", c.DeleteCamera)
	}
}

type CreateCameraRequest struct {
	CamID  string `json:"cam_id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

type UpdateCameraRequest struct {
	Status string `json:"status" binding:"required"`
}

func (c *CameraController) ListCameras(ctx *gin.Context) {
	cameras, err := c.cameraRepo.ListCameras(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, cameras)
}

func (c *CameraController) CreateCamera(ctx *gin.Context) {
	var req CreateCameraRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	camera := feedermodels.Camera{
		CamID:  req.CamID,
		Status: req.Status,
	}

	if err := c.cameraRepo.CreateCamera(ctx, camera); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (c *CameraController) UpdateCamera(ctx *gin.Context) {
	camID := ctx.Param("cam_id")

	var req UpdateCameraRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.cameraRepo.UpdateCamera(ctx, camID, req.Status); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (c *CameraController) DeleteCamera(ctx *gin.Context) {
	camID := ctx.Param("cam_id")

	if err := c.cameraRepo.DeleteCamera(ctx, camID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
