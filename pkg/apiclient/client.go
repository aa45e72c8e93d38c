package apiclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	sdkerrors "github.com/milan604/dataprovider-sdk/pkg/errors"
	"github.com/milan604/dataprovider-sdk/pkg/logger"
	"github.com/milan604/dataprovider-sdk/pkg/observability"
)

const (
	// DefaultHost is the API base URL including the version prefix.
	DefaultHost = "https://api.dataprovider.com/v2"
	// AuthPath is the token endpoint, relative to the host.
	AuthPath = "/auth/oauth2/token"

	// maxUnauthorizedRetries bounds the 401 recovery per top-level call.
	maxUnauthorizedRetries = 1

	instrumentationName = "github.com/milan604/dataprovider-sdk/pkg/apiclient"
)

// Client is the Dataprovider.com API client. It authenticates on first use,
// attaches the bearer token to every request and recovers once from a 401 by
// re-authenticating.
//
// A Client is safe for concurrent use.
type Client struct {
	host      string
	transport Transport
	tokens    *TokenStore
	auth      *Authenticator
	logger    logger.LogManager
	metrics   *observability.ClientMetrics
	tracer    trace.Tracer
	breaker   *BreakerConfig
	newID     func() string
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHost overrides DefaultHost.
func WithHost(host string) ClientOption {
	return func(c *Client) {
		if host != "" {
			c.host = strings.TrimRight(host, "/")
		}
	}
}

// WithTransport replaces the default HTTPTransport.
func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithLogger sets a logger for the client. Without one nothing is logged.
func WithLogger(l logger.LogManager) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics records transport and authentication metrics.
func WithMetrics(m *observability.ClientMetrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracerProvider sets the provider spans are created from. The otel
// global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) {
		c.tracer = tp.Tracer(instrumentationName)
	}
}

// WithCircuitBreaker wraps the transport in a BreakerTransport.
func WithCircuitBreaker(cfg BreakerConfig) ClientOption {
	return func(c *Client) {
		c.breaker = &cfg
	}
}

// New creates a client for the given account.
func New(creds Credentials, opts ...ClientOption) *Client {
	c := &Client{
		host:   DefaultHost,
		tokens: NewTokenStore(),
		logger: logger.NewNop(),
		tracer: otel.GetTracerProvider().Tracer(instrumentationName),
		newID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		c.transport = NewHTTPTransport()
	}
	if c.breaker != nil {
		if c.breaker.Logger == nil {
			c.breaker.Logger = c.logger
		}
		c.transport = NewBreakerTransport(c.transport, *c.breaker)
	}

	c.auth = newAuthenticator(creds, c.tokens, c.exchangeToken, c.logger, c.metrics, c.tracer)
	return c
}

// Get performs a GET request. params and body may be nil.
func (c *Client) Get(ctx context.Context, path string, params Params, body any) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, path, params, body)
}

// Post performs a POST request. params and body may be nil.
func (c *Client) Post(ctx context.Context, path string, params Params, body any) (*Response, error) {
	return c.Execute(ctx, http.MethodPost, path, params, body)
}

// Put performs a PUT request. params and body may be nil.
func (c *Client) Put(ctx context.Context, path string, params Params, body any) (*Response, error) {
	return c.Execute(ctx, http.MethodPut, path, params, body)
}

// Execute sends one logical request. path must be relative to the host.
// Requests other than the token endpoint carry a bearer token, obtained first
// when none is cached. A 401 on such a request clears the token and the
// request is sent once more with a freshly obtained one.
func (c *Client) Execute(ctx context.Context, method, path string, params Params, body any) (*Response, error) {
	if err := validateRequest(method, path); err != nil {
		return nil, err
	}
	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	if logger.CorrelationID(ctx) == "" {
		ctx = logger.WithCorrelationID(ctx, c.newID())
	}
	ctx, span := c.tracer.Start(ctx, observability.SpanRequest, trace.WithAttributes(
		observability.AttrHTTPMethod.String(method),
		observability.AttrAPIPath.String(path),
		observability.AttrCorrelationID.String(logger.CorrelationID(ctx)),
	))
	defer span.End()

	resp, err := c.send(ctx, method, path, params, payload, isAuthPath(path))
	if err != nil {
		observability.RecordSpanError(ctx, err)
		return nil, err
	}
	observability.AddSpanAttributes(ctx, observability.AttrHTTPStatusCode.Int(resp.StatusCode()))
	return resp, nil
}

// Tokens returns the currently cached token pair.
func (c *Client) Tokens() TokenPair {
	pair, _ := c.tokens.Get()
	return pair
}

// exchangeToken is the authenticator's path into the pipeline: a POST to the
// token endpoint that never carries a bearer token.
func (c *Client) exchangeToken(ctx context.Context, grant any) (*Response, error) {
	payload, err := encodeBody(grant)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodPost, AuthPath, nil, payload, true)
}

// send runs the request loop. With skipAuth no token is attached and a 401 is
// final.
func (c *Client) send(ctx context.Context, method, path string, params Params, payload []byte, skipAuth bool) (*Response, error) {
	url := buildURL(c.host, path, params)

	for attempt := 0; ; attempt++ {
		header := Header{{Name: "Content-Type", Value: "application/json"}}

		var bearer string
		if !skipAuth {
			token, err := c.accessToken(ctx)
			if err != nil {
				return nil, err
			}
			bearer = token
			header = header.Set("Authorization", "Bearer "+bearer)
		}

		raw, err := c.roundTrip(ctx, &Request{
			Method: method,
			URL:    url,
			Header: header,
			Body:   payload,
		})
		if err != nil {
			return nil, err
		}

		if raw.StatusCode == http.StatusUnauthorized && bearer != "" && attempt < maxUnauthorizedRetries {
			c.tokens.ClearAccess(bearer)
			c.metrics.IncUnauthorizedRetry()
			c.logger.WithContext(ctx).DebugW("access token rejected, re-authenticating", "url", url)
			observability.AddSpanEvent(ctx, "unauthorized_retry", observability.AttrAttempt.Int(attempt+1))
			continue
		}

		if serr := sdkerrors.FromStatus(raw.StatusCode, string(raw.Body)); serr != nil {
			return nil, serr
		}
		return newResponse(raw), nil
	}
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if token, ok := c.tokens.Access(); ok {
		return token, nil
	}
	pair, err := c.auth.Authenticate(ctx)
	if err != nil {
		return "", err
	}
	return pair.AccessToken, nil
}

// roundTrip performs one transport call with tracing, metrics and logging.
func (c *Client) roundTrip(ctx context.Context, req *Request) (*RawResponse, error) {
	ctx, span := c.tracer.Start(ctx, observability.SpanTransport, trace.WithAttributes(
		observability.AttrHTTPMethod.String(req.Method),
		observability.AttrHTTPURL.String(req.URL),
	))
	defer span.End()

	start := time.Now()
	raw, err := c.transport.RoundTrip(ctx, req)
	elapsed := time.Since(start)
	log := c.logger.WithContext(ctx)

	if err != nil {
		if _, ok := sdkerrors.As(err); !ok {
			err = sdkerrors.Transport(err)
		}
		c.metrics.ObserveTransport(req.Method, 0, true, elapsed)
		observability.RecordSpanError(ctx, err)
		log.DebugW("transport call failed", "method", req.Method, "url", req.URL, "elapsed", elapsed, "error", err)
		return nil, err
	}

	c.metrics.ObserveTransport(req.Method, raw.StatusCode, false, elapsed)
	span.SetAttributes(observability.AttrHTTPStatusCode.Int(raw.StatusCode))
	log.DebugW("transport call", "method", req.Method, "url", req.URL, "status", raw.StatusCode, "elapsed", elapsed)
	return raw, nil
}

func isAuthPath(path string) bool {
	return strings.TrimLeft(path, "/") == strings.TrimLeft(AuthPath, "/")
}
