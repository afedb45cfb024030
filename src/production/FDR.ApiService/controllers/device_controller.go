package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	logger "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Logger"
	interfaces "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Repository/Interfaces"
)

// ImageSink stores opaque image blobs uploaded by camera firmware
type ImageSink interface {
	Save(image []byte) (string, error)
}

// DeviceController handles the endpoints polled by feeder firmware:
// schedule checks, weight telemetry and camera snapshots.
type DeviceController struct {
	scheduleRepo interfaces.ScheduleRepository
	moduleRepo   interfaces.ModuleRepository
	images       ImageSink
	logger       *logger.Logger

	// now is the poll clock, overridable in tests
	now func() time.Time
}

// NewDeviceController creates a new device controller
func NewDeviceController(scheduleRepo interfaces.ScheduleRepository, moduleRepo interfaces.ModuleRepository, images ImageSink, logger *logger.Logger) *DeviceController {
	return &DeviceController{
		scheduleRepo: scheduleRepo,
		moduleRepo:   moduleRepo,
		images:       images,
		logger:       logger,
		now:          time.Now,
	}
}

// RegisterRoutes registers the device-facing routes with Gin
func (c *DeviceController) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", c.Health)
	router.GET("/check_sched", c.CheckSchedule)
	router.POST("/weight_update", c.WeightUpdate)
	router.POST("/upload_image", c.UploadImage)
}

// Health answers the firmware's mDNS discovery probe with a fixed
// string the devices match on.
func (c *DeviceController) Health(ctx *gin.Context) {
	ctx.String(http.StatusOK, "mDNS OK")
}

// CheckSchedule answers a device poll: should this module dispense
// right now? The clock is truncated to the minute; a schedule only
// matches within the exact minute of its feed_time, and only fires
// once ever.
func (c *DeviceController) CheckSchedule(ctx *gin.Context) {
	deviceID := ctx.Query("device_id")
	if deviceID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing device_id"})
		return
	}

	now := c.now().Format("15:04")

	dispense, err := c.scheduleRepo.ClaimDue(ctx, deviceID, now)
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to claim due schedule")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if dispense == nil {
		ctx.JSON(http.StatusOK, gin.H{"dispense": false})
		return
	}

	c.logger.Logger.Info().
		Str("device_id", deviceID).
		Int64("schedule_id", dispense.ScheduleID).
		Float64("amount", dispense.Amount).
		Msg("Dispense triggered")

	ctx.JSON(http.StatusOK, gin.H{
		"dispense":    true,
		"amount":      dispense.Amount,
		"schedule_id": dispense.ScheduleID,
	})
}

// WeightUpdate ingests a weight telemetry reading posted by feeder
// firmware as form data. Unknown devices are auto-provisioned.
func (c *DeviceController) WeightUpdate(ctx *gin.Context) {
	deviceID := ctx.PostForm("device_id")
	weightStr := ctx.PostForm("weight")

	if deviceID == "" || weightStr == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing device_id or weight"})
		return
	}

	weight, err := strconv.ParseFloat(weightStr, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "weight must be numeric"})
		return
	}

	created, err := c.moduleRepo.UpsertWeight(ctx, deviceID, weight)
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to upsert module weight")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.logger.Logger.Info().
		Str("device_id", deviceID).
		Float64("weight", weight).
		Bool("provisioned", created).
		Msg("Weight update")

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Weight updated for %s: %sg", deviceID, weightStr),
	})
}

// UploadImage receives a raw snapshot from camera firmware and stores
// it as an opaque blob.
func (c *DeviceController) UploadImage(ctx *gin.Context) {
	image, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(image) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No image data"})
		return
	}

	filename, err := c.images.Save(image)
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to store image")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.logger.Logger.Info().Str("filename", filename).Int("size", len(image)).Msg("Image saved")

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filename": filename,
		"size":     len(image),
	})
}
