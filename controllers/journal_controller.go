package controllers

import (
	"net/http"

	"healthtrack/services"

	"github.com/gin-gonic/gin"
)

type JournalController struct {
	Svc *services.JournalService
}

func NewJournalController(svc *services.JournalService) *JournalController {
	return &JournalController{Svc: svc}
}

func (h *JournalController) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.JournalInput
	if !bindJSON(c, &input) {
		return
	}
	e, err := h.Svc.Create(c.Request.Context(), uid, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *JournalController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := parseRange(c)
	if !ok {
		return
	}
	out, err := h.Svc.List(c.Request.Context(), uid, c.Query("tag"), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *JournalController) Get(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	e, err := h.Svc.Get(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *JournalController) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.JournalInput
	if !bindJSON(c, &input) {
		return
	}
	e, err := h.Svc.Update(c.Request.Context(), uid, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *JournalController) Delete(c *gin.Context) {
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
