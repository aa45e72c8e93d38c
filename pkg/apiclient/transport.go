package apiclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	sdkerrors "github.com/milan604/dataprovider-sdk/pkg/errors"
	"github.com/milan604/dataprovider-sdk/pkg/version"
)

// DefaultTimeout is the per-call ceiling enforced by HTTPTransport.
const DefaultTimeout = 60 * time.Second

// HeaderField is a single request header.
type HeaderField struct {
	Name  string
	Value string
}

// Header is an ordered list of request headers.
type Header []HeaderField

// Get returns the value of the first field named name.
func (h Header) Get(name string) string {
	for _, f := range h {
		if http.CanonicalHeaderKey(f.Name) == http.CanonicalHeaderKey(name) {
			return f.Value
		}
	}
	return ""
}

// Set replaces the value of name, appending it when missing.
func (h Header) Set(name, value string) Header {
	for i, f := range h {
		if http.CanonicalHeaderKey(f.Name) == http.CanonicalHeaderKey(name) {
			h[i].Value = value
			return h
		}
	}
	return append(h, HeaderField{Name: name, Value: value})
}

// Map returns the headers as a plain map, mostly for assertions.
func (h Header) Map() map[string]string {
	m := make(map[string]string, len(h))
	for _, f := range h {
		m[f.Name] = f.Value
	}
	return m
}

// Request is one fully assembled call handed to a Transport.
type Request struct {
	Method string
	URL    string
	Header Header
	// Body is nil when the request carries no payload.
	Body []byte
}

// RawResponse is the buffered result of one Transport call.
type RawResponse struct {
	StatusCode int
	Body       []byte
	HasBody    bool
}

// Transport performs exactly one blocking HTTP call. Implementations return a
// transport error only for failures that produced no HTTP status; any status
// code, including 4xx and 5xx, is a successful round trip.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*RawResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*RawResponse, error)

func (f TransportFunc) RoundTrip(ctx context.Context, req *Request) (*RawResponse, error) {
	return f(ctx, req)
}

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	client    *http.Client
	userAgent string
}

// HTTPTransportOption configures an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// WithTransportHTTPClient replaces the underlying *http.Client.
func WithTransportHTTPClient(c *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.client = c
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) HTTPTransportOption {
	return func(t *HTTPTransport) {
		if d > 0 {
			t.client.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.userAgent = ua
	}
}

// NewHTTPTransport creates the default transport.
func NewHTTPTransport(opts ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		userAgent: version.UserAgent(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip sends req and buffers the whole response body.
func (t *HTTPTransport) RoundTrip(ctx context.Context, req *Request) (*RawResponse, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, sdkerrors.Transport(err)
	}
	for _, f := range req.Header {
		httpReq.Header.Set(f.Name, f.Value)
	}
	if t.userAgent != "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, sdkerrors.Transport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, sdkerrors.Transport(err)
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		HasBody:    len(respBody) > 0,
	}, nil
}
