// Package apperr holds the canonical error codes used by the client's error
// taxonomy. Each code carries a numeric value for ordering and the HTTP status
// it is usually associated with (zero when the failure happens off the wire).
package apperr

import "net/http"

// Predefined error codes.
var (
	ErrorCodeInvalidRequest = NewErrorCode("invalid_request", "Invalid request", 10, 0)
	ErrorCodeTransport      = NewErrorCode("transport_error", "Transport error", 20, 0)
	ErrorCodeClient         = NewErrorCode("client_error", "Client Error", 30, http.StatusBadRequest)
	ErrorCodeServer         = NewErrorCode("server_error", "Server Error", 40, http.StatusInternalServerError)
	ErrorCodeDecode         = NewErrorCode("decode_error", "Malformed JSON", 50, 0)
)

// ErrorCode describes a canonical error code.
type ErrorCode struct {
	code       string
	message    string
	value      int
	httpStatus int
}

func NewErrorCode(code, message string, value, httpStatus int) *ErrorCode {
	return &ErrorCode{code: code, message: message, value: value, httpStatus: httpStatus}
}

func (ec *ErrorCode) Code() string    { return ec.code }
func (ec *ErrorCode) Message() string { return ec.message }
func (ec *ErrorCode) Value() int      { return ec.value }
func (ec *ErrorCode) HTTPStatus() int { return ec.httpStatus }

// ForStatus returns the code an HTTP status classifies into, or nil when the
// status is not an error (anything outside 400-599).
func ForStatus(status int) *ErrorCode {
	switch {
	case status >= 400 && status < 500:
		return ErrorCodeClient
	case status >= 500 && status < 600:
		return ErrorCodeServer
	default:
		return nil
	}
}
