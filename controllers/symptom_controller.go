package controllers

import (
	"net/http"

	"healthtrack/services"

	"github.com/gin-gonic/gin"
)

type SymptomController struct {
	Svc *services.SymptomService
}

func NewSymptomController(svc *services.SymptomService) *SymptomController {
	return &SymptomController{Svc: svc}
}

func (h *SymptomController) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.SymptomInput
	if !bindJSON(c, &input) {
		return
	}
	s, err := h.Svc.Create(c.Request.Context(), uid, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *SymptomController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := parseRange(c)
	if !ok {
		return
	}
	out, err := h.Svc.List(c.Request.Context(), uid, r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *SymptomController) Get(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s, err := h.Svc.Get(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SymptomController) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.SymptomInput
	if !bindJSON(c, &input) {
		return
	}
	s, err := h.Svc.Update(c.Request.Context(), uid, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SymptomController) Delete(c *gin.Context) {
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
