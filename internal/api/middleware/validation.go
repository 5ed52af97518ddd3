package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "medscribe/internal/api/errors"
)

// Validator is implemented by request DTOs with rules beyond struct tags.
type Validator interface {
	Validate() error
}

// ValidateRequest binds the JSON body and runs struct tag validation
// followed by the DTO's own Validate method when it has one. The body is
// cached on the context so handlers that peek at the raw payload first can
// still bind the typed request afterwards.
func ValidateRequest(c *gin.Context, req any) error {
	if err := c.ShouldBindBodyWith(req, binding.JSON); err != nil {
		return apierrors.NewValidationError("Validation error", bindingFields(err))
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateQuery binds and validates query parameters.
func ValidateQuery(c *gin.Context, req any) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return apierrors.NewBadRequestError("Invalid query parameters").
			WithDetails(bindingFields(err))
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func bindingFields(err error) map[string]any {
	fields := make(map[string]any)

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["request"] = "invalid JSON format"
		return fields
	}

	for _, fieldError := range validationErrs {
		field := strings.ToLower(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			fields[field] = "is required"
		case "email":
			fields[field] = "must be a valid email"
		case "min":
			fields[field] = "is too short"
		case "max":
			fields[field] = "is too long"
		case "oneof":
			fields[field] = "must be one of the allowed values"
		default:
			fields[field] = "is invalid"
		}
	}
	return fields
}
