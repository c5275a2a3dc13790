package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"shareholder-qa-sim/internal/apperr"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and folds failures into a
// single validation error the middleware maps to a 400.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validation("invalid request payload")
	}

	var fields []string
	for _, fe := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return apperr.Validation("validation failed: %s", strings.Join(fields, ", "))
}
