package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milan604/dataprovider-sdk/pkg/apperr"
)

func TestFromStatus(t *testing.T) {
	assert.Nil(t, FromStatus(200, "ok"))
	assert.Nil(t, FromStatus(302, ""))

	ce := FromStatus(404, `{"error":"not found"}`)
	require.NotNil(t, ce)
	assert.Equal(t, apperr.ErrorCodeClient.Code(), ce.Code)
	assert.Equal(t, 404, ce.HTTPStatus)
	assert.Equal(t, `{"error":"not found"}`, ce.Body)
	assert.Equal(t, `404 Client Error: {"error":"not found"}`, ce.Error())
	assert.False(t, ce.Retryable)

	se := FromStatus(502, "bad gateway")
	require.NotNil(t, se)
	assert.Equal(t, apperr.ErrorCodeServer.Code(), se.Code)
	assert.Equal(t, "502 Server Error: bad gateway", se.Error())
	assert.True(t, se.Retryable)
}

func TestPredicatesThroughWrapping(t *testing.T) {
	cause := stdErrors.New("dial tcp: connection refused")
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"invalid request", InvalidRequest("path cannot be empty"), IsInvalidRequest},
		{"transport", Transport(cause), IsTransport},
		{"client", ClientError(401, "denied"), IsClientError},
		{"server", ServerError(500, "boom"), IsServerError},
		{"decode", Decode(stdErrors.New("unexpected end of JSON input")), IsDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("calling api: %w", tt.err)
			assert.True(t, tt.check(wrapped))
			assert.NotEmpty(t, tt.err.(*ServiceError).StackTrace())
		})
	}

	assert.False(t, IsClientError(cause))
	assert.False(t, IsServerError(ClientError(400, "")))
}

func TestTransportUnwrapsCause(t *testing.T) {
	cause := stdErrors.New("i/o timeout")
	err := Transport(cause)
	assert.ErrorIs(t, err, cause)
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Error(), "i/o timeout")
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 429, StatusCode(fmt.Errorf("wrapped: %w", ClientError(429, "slow down"))))
	assert.Equal(t, 503, StatusCode(ServerError(503, "")))
	assert.Equal(t, 0, StatusCode(InvalidRequest("bad")))
	assert.Equal(t, 0, StatusCode(stdErrors.New("plain")))
	assert.Equal(t, 0, StatusCode(nil))
}
