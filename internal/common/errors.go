package common

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes surfaced in the response envelope
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeClientError         = "CLIENT_ERROR"
	CodeServerError         = "SERVER_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeMissingReference    = "MISSING_REFERENCE"
	CodePaymentNotVerified  = "PAYMENT_NOT_VERIFIED"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodeIncompleteLocation  = "INCOMPLETE_LOCATION"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(CodeValidationError, "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(CodeClientError, message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse(CodeServerError, message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse(CodeNotFound, fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse(CodeUnauthorized, "Unauthorized access", nil))
}

// SendMissingReference rejects a request that arrived without a transaction
// reference. No side effects have happened by the time this is sent.
func SendMissingReference(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(CodeMissingReference, "Missing transaction reference", nil))
}

// SendPaymentNotVerified rejects a request whose payment the provider did
// not report as completed. This is a client-facing rejection, not a server
// fault.
func SendPaymentNotVerified(c echo.Context) error {
	return c.JSON(http.StatusPaymentRequired, CreateErrorResponse(CodePaymentNotVerified, "Payment could not be verified for this reference", nil))
}

// SendProviderUnavailable reports a transport or non-2xx failure from the
// payment provider. Surfaced as a gateway fault; never retried.
func SendProviderUnavailable(c echo.Context) error {
	return c.JSON(http.StatusBadGateway, CreateErrorResponse(CodeProviderUnavailable, "Payment provider is unavailable", nil))
}

// SendIncompleteLocation returns the buyer to the address form with a
// visible validation message. Nothing is persisted.
func SendIncompleteLocation(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(CodeIncompleteLocation, "Licensed location is incomplete", details))
}
