package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Success bool                `json:"success"`
	Errors  map[string][]string `json:"errors"`
	Status  int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError  = NewSimple(400, "Malformed request body")
	InternalServerError = NewSimple(500, "Internal server error")

	NotFoundError       = NewSimple(404, "Resource not found")
	UnauthorizedError   = NewSimple(401, "Missing or invalid credentials")
	InvalidTokenError   = NewSimple(401, "Invalid or expired token")
	InvalidIDError      = NewSimple(400, "The provided ID is invalid, IDs are usually int32 > 0")
	EmailTakenError     = NewSimple(400, "Email already exists")
	UsernameTakenError  = NewSimple(400, "Username already exists")
	BadCredentialsError = NewSimple(400, "Credentials mismatch")

	MissingFileError      = NewSimple(400, "Missing file in 'file' form field")
	MissingFileNameError  = NewSimple(400, "Uploaded file has no name")
	InvalidDateError      = NewSimple(400, "Invalid date, expected an RFC3339 timestamp")
	InvalidDateRangeError = NewSimple(400, "Invalid date range, expected RFC3339 timestamps")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "hasupper":
			problems[field] = append(problems[field], "Value must have at least one uppercase character")
		case "haslower":
			problems[field] = append(problems[field], "Value must have at least one lowercase character")
		case "hasdigit":
			problems[field] = append(problems[field], "Value must have at least one number")
		case "hasspecial":
			problems[field] = append(problems[field], "Value must have at least one special character")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewForbiddenError(msg string) *APIError {
	return NewSimple(http.StatusForbidden, msg)
}

func NewFileTooLargeError(maxBytes int64) *APIError {
	return NewSimple(http.StatusRequestEntityTooLarge,
		"File exceeds the maximum allowed size of %d bytes", maxBytes)
}

func NewInvalidFileExtError(ext string) *APIError {
	return NewSimple(http.StatusBadRequest, "Invalid file extension: %s", ext)
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewInvalidTransitionError(from, to string) *APIError {
	return NewSimple(http.StatusBadRequest, "Cannot transition note status from %s to %s", from, to)
}
