package controllers

import (
	"net/http"

	"healthtrack/services"

	"github.com/gin-gonic/gin"
)

type DeviceController struct {
	Svc *services.DeviceService
}

func NewDeviceController(svc *services.DeviceService) *DeviceController {
	return &DeviceController{Svc: svc}
}

type toggleReq struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (dc *DeviceController) Register(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req services.RegisterDeviceReq
	if !bindJSON(c, &req) {
		return
	}
	dev, err := dc.Svc.Register(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": dev.ID, "endpoint_arn": dev.EndpointARN})
}

func (dc *DeviceController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := dc.Svc.List(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ToggleNotifications handles POST /user/notifications/toggle.
func (dc *DeviceController) ToggleNotifications(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	n, err := dc.Svc.SetNotifications(c.Request.Context(), uid, *req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "notifications updated",
		"enabled": *req.Enabled,
		"devices": n,
	})
}
