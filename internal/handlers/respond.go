package handlers

import (
	"errors"
	"net/http"
	"strings"

	"taskflow/internal/dto"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON binds the request body and, on failure, writes the 422 envelope
// with field-level details. Returns false when the request was rejected.
func bindJSON(c *gin.Context, dest any) bool {
	err := c.ShouldBindJSON(dest)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, dto.FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: validationMessage(fe),
				Type:    fe.Tag(),
			})
		}
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewValidationError("Request validation failed", fields))
		return false
	}
	c.JSON(http.StatusUnprocessableEntity,
		dto.NewValidationError("Request body is not valid JSON", nil))
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email address"
	}
	return "invalid value"
}

// serviceError maps service sentinel errors onto the error envelope.
// Unknown errors become a generic 500 without leaking internals.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.NewError(dto.CodeNotFound, "task not found"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden,
			dto.NewError(dto.CodeForbidden, "you can only access your own tasks"))
	case errors.Is(err, service.ErrTaskDeleted):
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewValidationError("cannot update a deleted task", nil))
	case errors.Is(err, service.ErrEmptyTitle):
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewValidationError("Request validation failed", []dto.FieldError{
				{Field: "title", Message: "must not be empty or whitespace only", Type: "min"},
			}))
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewValidationError("Request validation failed", []dto.FieldError{
				{Field: "status", Message: "must be one of: pending in-progress completed", Type: "oneof"},
			}))
	case errors.Is(err, service.ErrInvalidPriority):
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewValidationError("Request validation failed", []dto.FieldError{
				{Field: "priority", Message: "must be one of: low medium high", Type: "oneof"},
			}))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewError(dto.CodeConflict, "conflicting task id"))
	default:
		c.JSON(http.StatusInternalServerError,
			dto.NewError(dto.CodeInternal, "internal server error"))
	}
}
