package controllers

import (
	"net/http"

	"healthtrack/services"
	"healthtrack/utils"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	Svc *services.GoalService
}

func NewGoalController(svc *services.GoalService) *GoalController {
	return &GoalController{Svc: svc}
}

func (h *GoalController) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.GoalInput
	if !bindJSON(c, &input) {
		return
	}
	g, err := h.Svc.Create(c.Request.Context(), uid, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// List accepts ?status=active|completed|abandoned.
func (h *GoalController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	status := c.Query("status")
	switch utils.GoalStatus(status) {
	case "", utils.GoalActive, utils.GoalCompleted, utils.GoalAbandoned:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	out, err := h.Svc.List(c.Request.Context(), uid, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *GoalController) Get(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	g, err := h.Svc.Get(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GoalController) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.GoalInput
	if !bindJSON(c, &input) {
		return
	}
	g, err := h.Svc.Update(c.Request.Context(), uid, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GoalController) Delete(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), uid, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GoalController) Abandon(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	g, err := h.Svc.Abandon(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GoalController) Recompute(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	g, err := h.Svc.Recompute(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": g.ID, "progress": g.Progress, "streak": g.Streak, "status": g.Status})
}

func (h *GoalController) AddCheckIn(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.CheckInInput
	if !bindJSON(c, &input) {
		return
	}
	g, ci, err := h.Svc.AddCheckIn(c.Request.Context(), uid, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"check_in": ci,
		"progress": g.Progress,
		"streak":   g.Streak,
		"status":   g.Status,
	})
}

func (h *GoalController) ListCheckIns(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := h.Svc.ListCheckIns(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
