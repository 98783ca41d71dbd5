package controllers

import (
	"net/http"

	"healthtrack/services"
	"healthtrack/utils"

	"github.com/gin-gonic/gin"
)

type MetricController struct {
	Svc *services.MetricService
}

func NewMetricController(svc *services.MetricService) *MetricController {
	return &MetricController{Svc: svc}
}

type metricBatchReq struct {
	Metrics []services.MetricInput `json:"metrics" binding:"required,min=1,max=500,dive"`
}

func (h *MetricController) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.MetricInput
	if !bindJSON(c, &input) {
		return
	}
	m, err := h.Svc.Create(c.Request.Context(), uid, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// CreateBatch is the device sync entry point.
func (h *MetricController) CreateBatch(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req metricBatchReq
	if !bindJSON(c, &req) {
		return
	}
	rows, err := h.Svc.CreateBatch(c.Request.Context(), uid, req.Metrics)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": len(rows), "metrics": rows})
}

// List filters by ?type= and ?from=&to=.
func (h *MetricController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	typ := c.Query("type")
	if typ != "" && !utils.IsValidMetricType(typ) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown metric type"})
		return
	}
	r, ok := parseRange(c)
	if !ok {
		return
	}
	out, err := h.Svc.List(c.Request.Context(), uid, typ, r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MetricController) Get(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := h.Svc.Get(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MetricController) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.MetricInput
	if !bindJSON(c, &input) {
		return
	}
	m, err := h.Svc.Update(c.Request.Context(), uid, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MetricController) Delete(c *gin.Context) {
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
