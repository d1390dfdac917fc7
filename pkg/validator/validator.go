package validator

import (
	"github.com/go-playground/validator/v10"
)

// ErrorResponse describes one failed field so callers can surface which input
// was rejected and why.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Param       string
}

var validate = validator.New()

// ValidateStruct runs tag validation and collects every failure.
func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	if err := validate.Struct(data); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errs = append(errs, &ErrorResponse{
				FailedField: fieldErr.StructNamespace(),
				Tag:         fieldErr.Tag(),
				Param:       fieldErr.Param(),
			})
		}
	}
	return errs
}
