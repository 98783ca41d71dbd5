package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"healthtrack/services"
	"healthtrack/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// requireUser aborts with 401 when the auth middleware did not run.
func requireUser(c *gin.Context) (uint, bool) {
	uid, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return uid, ok
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// parseRange reads optional from/to query dates (YYYY-MM-DD). to covers its whole day.
func parseRange(c *gin.Context) (services.DateRange, bool) {
	var r services.DateRange
	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return r, false
		}
		r.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return r, false
		}
		r.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return r, false
	}
	return r, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func statusFor(err error) int {
	var verr validator.ValidationErrors
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, utils.ErrMeasureMismatch),
		errors.Is(err, utils.ErrInvalidDataURI),
		errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrGoalClosed),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Unexpected errors are attached to the
// context for the request logger and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
