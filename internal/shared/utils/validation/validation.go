package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Order IDs are a short lowercase kind prefix followed by a UUID, e.g.
// tck-7f9c... The prefix routes payment confirmations to the owning domain.
var orderIDPattern = regexp.MustCompile(`^[a-z]{2,8}-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// RegisterCustomValidators installs custom binding tags on gin's validator
// engine. Call once at startup before routes are registered.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("orderid", validateOrderID)
}

func validateOrderID(fl validator.FieldLevel) bool {
	return orderIDPattern.MatchString(fl.Field().String())
}
