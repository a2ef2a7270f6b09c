package handlers

import (
	"regexp"

	portssvc "github.com/famfin/homeledger/internal/core/ports/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]{1,9}$`)

// RegisterValidators installs custom binding validations. The
// "currencycode" tag checks the shape of a code (alphanumeric, ISO-style or
// crypto symbol); whether the code is actually registered is the currency
// registry's call, made in the services.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			return currencyCodePattern.MatchString(fl.Field().String())
		})
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific route registrations
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1")

	registerCurrencyRoutes(v1, services.Registry)
	registerConversionRoutes(v1, services.Registry, services.Conversion)
	registerReportingRoutes(v1, services.Registry, services.Aggregation)
}
