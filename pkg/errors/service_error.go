// Package errors defines the error taxonomy returned by the API client.
//
// Every failure surfaced to a caller is a *ServiceError whose Code is one of
// the apperr catalogue entries:
//
//   - invalid_request: bad path or method, raised before any network activity
//   - transport_error: connection, DNS or timeout failure
//   - client_error:    4xx response, carries status and raw body
//   - server_error:    5xx response, carries status and raw body
//   - decode_error:    malformed JSON on decoded access
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/milan604/dataprovider-sdk/pkg/apperr"
)

// ServiceError is the structured error returned by the client.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Body       string
	Retryable  bool
	cause      error
	stack      string
}

// Option configures a ServiceError.
type Option func(*ServiceError)

// WithCause sets underlying cause.
func WithCause(err error) Option { return func(se *ServiceError) { se.cause = err } }

// WithStatus overrides HTTP status.
func WithStatus(status int) Option { return func(se *ServiceError) { se.HTTPStatus = status } }

// WithBody records the raw response body.
func WithBody(body string) Option { return func(se *ServiceError) { se.Body = body } }

// WithRetryable marks the error as safe for the caller to retry.
func WithRetryable(retryable bool) Option { return func(se *ServiceError) { se.Retryable = retryable } }

// NewServiceError constructs a ServiceError with functional options.
func NewServiceError(ec *apperr.ErrorCode, message string, opts ...Option) *ServiceError {
	if message == "" {
		message = ec.Message()
	}
	se := &ServiceError{
		Code:       ec.Code(),
		Message:    message,
		HTTPStatus: ec.HTTPStatus(),
		stack:      callers(),
	}
	for _, o := range opts {
		o(se)
	}
	return se
}

// InvalidRequest reports a request rejected before it reached the transport.
func InvalidRequest(msg string) *ServiceError {
	return NewServiceError(apperr.ErrorCodeInvalidRequest, msg)
}

// Transport wraps a connection-level failure.
func Transport(err error) *ServiceError {
	return NewServiceError(apperr.ErrorCodeTransport, fmt.Sprintf("transport error: %v", err),
		WithCause(err), WithRetryable(true))
}

// ClientError reports a 4xx response.
func ClientError(status int, body string) *ServiceError {
	return NewServiceError(apperr.ErrorCodeClient,
		fmt.Sprintf("%d %s: %s", status, apperr.ErrorCodeClient.Message(), body),
		WithStatus(status), WithBody(body))
}

// ServerError reports a 5xx response.
func ServerError(status int, body string) *ServiceError {
	return NewServiceError(apperr.ErrorCodeServer,
		fmt.Sprintf("%d %s: %s", status, apperr.ErrorCodeServer.Message(), body),
		WithStatus(status), WithBody(body), WithRetryable(true))
}

// Decode wraps a JSON decoding failure.
func Decode(err error) *ServiceError {
	return NewServiceError(apperr.ErrorCodeDecode, fmt.Sprintf("decode error: %v", err), WithCause(err))
}

// FromStatus classifies an HTTP status. It returns nil for non-error statuses.
func FromStatus(status int, body string) *ServiceError {
	switch apperr.ForStatus(status) {
	case apperr.ErrorCodeClient:
		return ClientError(status, body)
	case apperr.ErrorCodeServer:
		return ServerError(status, body)
	default:
		return nil
	}
}

// Error implements the error interface.
func (se *ServiceError) Error() string {
	if se == nil {
		return ""
	}
	return se.Message
}

// Unwrap enables errors.Is/As on underlying cause.
func (se *ServiceError) Unwrap() error { return se.cause }

// IsCode reports whether this error has the given code.
func (se *ServiceError) IsCode(ec *apperr.ErrorCode) bool {
	return se != nil && ec != nil && se.Code == ec.Code()
}

// StackTrace returns the stack captured when the error was built.
func (se *ServiceError) StackTrace() string {
	if se == nil {
		return ""
	}
	return se.stack
}

// As extracts a *ServiceError from err's chain.
func As(err error) (*ServiceError, bool) {
	var se *ServiceError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func hasCode(err error, ec *apperr.ErrorCode) bool {
	se, ok := As(err)
	return ok && se.IsCode(ec)
}

func IsInvalidRequest(err error) bool { return hasCode(err, apperr.ErrorCodeInvalidRequest) }
func IsTransport(err error) bool      { return hasCode(err, apperr.ErrorCodeTransport) }
func IsClientError(err error) bool    { return hasCode(err, apperr.ErrorCodeClient) }
func IsServerError(err error) bool    { return hasCode(err, apperr.ErrorCodeServer) }
func IsDecode(err error) bool         { return hasCode(err, apperr.ErrorCodeDecode) }

// StatusCode returns the HTTP status carried by err, or 0 when it has none.
func StatusCode(err error) int {
	if se, ok := As(err); ok && (se.IsCode(apperr.ErrorCodeClient) || se.IsCode(apperr.ErrorCodeServer)) {
		return se.HTTPStatus
	}
	return 0
}
