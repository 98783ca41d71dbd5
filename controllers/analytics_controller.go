package controllers

import (
	"net/http"
	"time"

	"healthtrack/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Svc *services.AnalyticsService
}

func NewAnalyticsController(svc *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Svc: svc}
}

// GetAnalyticsSummary defaults to the current month.
func (h *AnalyticsController) GetAnalyticsSummary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)

	fromStr := c.DefaultQuery("from", first.Format(dateLayout))
	toStr := c.DefaultQuery("to", last.Format(dateLayout))
	includeMissing := c.DefaultQuery("includeMissingDays", "false") == "true"

	from, err := time.ParseInLocation(dateLayout, fromStr, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := time.ParseInLocation(dateLayout, toStr, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return
	}

	out, err := h.Svc.Summary(c.Request.Context(), userID, from, to, includeMissing)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AnalyticsController) GetWeeklyOverview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	now := time.Now()
	weekStart := startOfWeek(now)
	if v := c.Query("week_start"); v != "" {
		ws, err := time.ParseInLocation(dateLayout, v, now.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start"})
			return
		}
		weekStart = startOfWeek(ws)
	}

	out, err := h.Svc.WeeklyOverview(c.Request.Context(), userID, weekStart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// startOfWeek returns the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	tt := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return tt.AddDate(0, 0, -(wd - 1))
}
