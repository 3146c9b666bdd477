package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"
	ierr "github.com/nodehive/nodehive/internal/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func NewValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateRequest validates a request struct against its validate tags and
// maps failures onto the validation sentinel with per-field details
func ValidateRequest(req interface{}) error {
	v := NewValidator()

	if err := v.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
