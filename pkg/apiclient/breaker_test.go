package apiclient

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkerrors "github.com/milan604/dataprovider-sdk/pkg/errors"
)

func TestBreakerOpensOnConsecutiveTransportFailures(t *testing.T) {
	var calls int
	next := TransportFunc(func(context.Context, *Request) (*RawResponse, error) {
		calls++
		return nil, sdkerrors.Transport(stdErrors.New("connection refused"))
	})
	b := NewBreakerTransport(next, BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute})
	req := &Request{Method: "GET", URL: "https://example.com"}

	for i := 0; i < 2; i++ {
		_, err := b.RoundTrip(context.Background(), req)
		assert.True(t, sdkerrors.IsTransport(err))
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.RoundTrip(context.Background(), req)
	require.Error(t, err)
	assert.True(t, sdkerrors.IsTransport(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, calls, "open breaker does not reach the transport")
}

func TestBreakerIgnoresHTTPErrorStatuses(t *testing.T) {
	next := TransportFunc(func(context.Context, *Request) (*RawResponse, error) {
		return &RawResponse{StatusCode: 503}, nil
	})
	b := NewBreakerTransport(next, BreakerConfig{MaxFailures: 1})

	for i := 0; i < 3; i++ {
		resp, err := b.RoundTrip(context.Background(), &Request{Method: "GET"})
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestClientWithCircuitBreaker(t *testing.T) {
	tr := script(t,
		reply{err: stdErrors.New("connection refused")},
	)
	client := newTestClient(tr, WithCircuitBreaker(BreakerConfig{MaxFailures: 1, OpenTimeout: time.Minute}))

	_, err := client.Get(context.Background(), "test", nil, nil)
	assert.True(t, sdkerrors.IsTransport(err))

	_, err = client.Get(context.Background(), "test", nil, nil)
	assert.True(t, sdkerrors.IsTransport(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, tr.calls, 1)
}
