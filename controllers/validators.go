package controllers

import (
	"sync"

	"healthtrack/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the metrictype and cadence binding rules to gin's
// validator. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("metrictype", func(fl validator.FieldLevel) bool {
			return utils.IsValidMetricType(fl.Field().String())
		})
		_ = v.RegisterValidation("cadence", func(fl validator.FieldLevel) bool {
			_, err := utils.ParseCadence(fl.Field().String())
			return err == nil
		})
	})
}
