package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PhilHealth ids are 12 digits, optionally dash-separated (XX-XXXXXXXXX-X).
var philhealthPattern = regexp.MustCompile(`^\d{2}-?\d{9}-?\d{1}$`)

// RegisterCustomValidators wires domain formats into gin's binding
// validator. Call once at startup.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("philhealth", func(fl validator.FieldLevel) bool {
			return philhealthPattern.MatchString(fl.Field().String())
		})
	}
}
