package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/heartcraft/storefront/internal/errors"
)

type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

const genericErrorMessage = "An unexpected error occured"

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	write(w, statusCode, APIResponse{Success: true, Data: data})
}

func Error(w http.ResponseWriter, err error) {
	statusCode, errorResponse := toErrorResponse(err)
	write(w, statusCode, APIResponse{Success: false, Error: errorResponse})
}

// ErrorWithData writes a failure envelope that still carries a payload, e.g.
// the checkout view telling the client where to redirect.
func ErrorWithData(w http.ResponseWriter, err error, data any) {
	statusCode, errorResponse := toErrorResponse(err)
	write(w, statusCode, APIResponse{Success: false, Data: data, Error: errorResponse})
}

func toErrorResponse(err error) (int, *ErrorResponse) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		return http.StatusInternalServerError, &ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: genericErrorMessage,
		}
	}

	errorResponse := &ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
	}
	if appErr.Detail != "" {
		errorResponse.Details = []string{appErr.Detail}
	}

	return appErr.StatusCode, errorResponse
}

func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	errMsgs := make([]string, 0, len(errs))

	for _, err := range errs {
		errMsgs = append(errMsgs, describeFieldError(err))
	}

	write(w, http.StatusBadRequest, APIResponse{
		Success: false,
		Error: &ErrorResponse{
			Code:    errors.ErrCodeValidation,
			Message: "Validation failed",
			Details: errMsgs,
		},
	})
}

func describeFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("Field %s is required", err.Field())
	case "email":
		return fmt.Sprintf("Field %s must be a valid email address", err.Field())
	case "min":
		return fmt.Sprintf("Field %s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("Field %s must be at most %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("Field %s must be greater than or equal to %s", err.Field(), err.Param())
	case "gt":
		return fmt.Sprintf("Field %s must be greater than %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("Field %s is invalid: %s=%s", err.Field(), err.Tag(), err.Param())
	}
}

func write(w http.ResponseWriter, statusCode int, body APIResponse) {
	if err := WriteJson(w, statusCode, body); err != nil {
		slog.Error("Failed to write response", slog.String("error", err.Error()))
	}
}
