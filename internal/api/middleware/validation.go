package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"speech-relay/internal/api/errors"
)

// ValidateRequest binds a JSON body into req and checks its binding tags.
// A body cut off by http.MaxBytesReader is reported as too large rather than malformed.
func ValidateRequest(c *gin.Context, req interface{}) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.NewTooLargeError(tooLarge.Limit)
	}

	fields := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		for _, fieldError := range validationErrs {
			field := strings.ToLower(fieldError.Field())

			switch fieldError.Tag() {
			case "required":
				fields[field] = "field required"
			case "base64":
				fields[field] = "must be standard base64"
			default:
				fields[field] = "is invalid"
			}
		}
	} else {
		fields["body"] = "invalid JSON format"
	}

	return errors.NewValidationError("Validation failed", fields)
}
