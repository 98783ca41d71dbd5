package controllers

import (
	"net/http"

	"healthtrack/services"

	"github.com/gin-gonic/gin"
)

// DevController backs the /dev routes, mounted only when DEV_ROUTES is set.
type DevController struct {
	Alerts   *services.AlertService
	Uploader services.ImageUploader // nil when AWS is disabled
}

func NewDevController(alerts *services.AlertService, uploader services.ImageUploader) *DevController {
	return &DevController{Alerts: alerts, Uploader: uploader}
}

type testAlertReq struct {
	Type    string `json:"type" binding:"omitempty,oneof=info warning achievement"`
	Message string `json:"message"`
}

type devUploadReq struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// TestAlert stores an alert and sends it over websocket and push.
func (d *DevController) TestAlert(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req testAlertReq
	if !bindJSON(c, &req) {
		return
	}
	if req.Type == "" {
		req.Type = services.AlertInfo
	}
	if req.Message == "" {
		req.Message = "This is only a test."
	}
	a := d.Alerts.Emit(c.Request.Context(), uid, req.Type, "dev", req.Message)
	c.JSON(http.StatusOK, a)
}

func (d *DevController) UploadImage(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	if d.Uploader == nil {
		respondError(c, services.ErrUnavailable)
		return
	}
	var req devUploadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	url, err := d.Uploader.UploadDataURI(c.Request.Context(), req.ImageBase64, "general/dev-upload")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
