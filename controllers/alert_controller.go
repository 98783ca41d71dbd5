package controllers

import (
	"net/http"

	"healthtrack/services"

	"github.com/gin-gonic/gin"
)

type AlertController struct {
	Svc *services.AlertService
}

func NewAlertController(svc *services.AlertService) *AlertController {
	return &AlertController{Svc: svc}
}

// List returns the newest alerts; ?unread=true filters to unread ones.
func (h *AlertController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Svc.List(c.Request.Context(), uid, c.Query("unread") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AlertController) MarkRead(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.MarkRead(c.Request.Context(), uid, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alert marked as read"})
}
