package controllers

import (
	"net/http"
	"strconv"
	"time"

	"healthtrack/services"
	"healthtrack/utils"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	Svc *services.AnalysisService
}

func NewAnalysisController(svc *services.AnalysisService) *AnalysisController {
	return &AnalysisController{Svc: svc}
}

type sampleReq struct {
	Type      string    `json:"type" binding:"required,metrictype"`
	Value     *float64  `json:"value"`
	Systolic  *float64  `json:"systolic"`
	Diastolic *float64  `json:"diastolic"`
	Timestamp time.Time `json:"timestamp"`
}

type scoreReq struct {
	Samples []sampleReq `json:"samples" binding:"dive"`
}

// toSample keeps whatever shape the caller sent; a shape that does not fit
// the type is reported by the scorer as incomplete.
func (s sampleReq) toSample() utils.MetricSample {
	out := utils.MetricSample{Type: utils.MetricType(s.Type), Timestamp: s.Timestamp}
	switch {
	case s.Systolic != nil && s.Diastolic != nil:
		out.Value = utils.BloodPressure(*s.Systolic, *s.Diastolic)
	case s.Value != nil:
		out.Value = utils.Scalar(*s.Value)
	default:
		out.Value = utils.Scalar(0)
	}
	return out
}

// Analyze runs an analysis over ?days= (default from config).
func (h *AnalysisController) Analyze(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	days := 0
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 90"})
			return
		}
		days = n
	}
	res, err := h.Svc.Analyze(c.Request.Context(), uid, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *AnalysisController) Latest(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	res, err := h.Svc.Latest(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Score is stateless: it scores the posted samples and stores nothing.
func (h *AnalysisController) Score(c *gin.Context) {
	var req scoreReq
	if !bindJSON(c, &req) {
		return
	}
	samples := make([]utils.MetricSample, 0, len(req.Samples))
	for _, s := range req.Samples {
		samples = append(samples, s.toSample())
	}
	res, recs := h.Svc.Score(samples)
	c.JSON(http.StatusOK, gin.H{
		"health_score":    res.HealthScore,
		"observations":    res.Observations,
		"concerns":        res.Concerns,
		"recommendations": recs,
		"incomplete":      res.Incomplete,
	})
}
