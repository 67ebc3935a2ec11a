package dto

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes returned in the error envelope.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeConflict        = "INTEGRITY_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
	CodeAuthUnavailable = "AUTH_UNAVAILABLE"
	CodeNotImplemented  = "NOT_IMPLEMENTED"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse is the envelope for every non-2xx response.
type ErrorResponse struct {
	Status  string        `json:"status"`
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *ErrorDetails `json:"details,omitempty"`
}

// ErrorDetails carries field-level validation errors.
type ErrorDetails struct {
	Errors []FieldError `json:"errors"`
}

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewError builds a plain error envelope.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Code: code, Message: message}
}

// NewValidationError builds an error envelope with field-level details.
func NewValidationError(message string, fields []FieldError) ErrorResponse {
	resp := NewError(CodeValidation, message)
	if len(fields) > 0 {
		resp.Details = &ErrorDetails{Errors: fields}
	}
	return resp
}

// MessageResponse is the success envelope for operations that return no data,
// e.g. deletes.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewMessage builds a success envelope with only a message.
func NewMessage(message string) MessageResponse {
	return MessageResponse{Status: StatusSuccess, Message: message}
}
