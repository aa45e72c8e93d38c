package apiclient

import (
	"context"
	stdErrors "errors"
	"sync"

	"go.opentelemetry.io/otel/trace"

	sdkerrors "github.com/milan604/dataprovider-sdk/pkg/errors"
	"github.com/milan604/dataprovider-sdk/pkg/logger"
	"github.com/milan604/dataprovider-sdk/pkg/observability"
)

// Grant types accepted by the token endpoint.
const (
	GrantPassword     = "password"
	GrantRefreshToken = "refresh_token"
)

// Credentials are the account username and password.
type Credentials struct {
	Username string
	Password string
}

type passwordGrant struct {
	GrantType string `json:"grant_type"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type refreshGrant struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// exchangeFunc posts a grant body to the token endpoint without a bearer token.
type exchangeFunc func(ctx context.Context, grant any) (*Response, error)

// Authenticator obtains token pairs, by refresh token when one is cached and
// by credentials otherwise. A failed refresh falls back to exactly one
// credential exchange.
type Authenticator struct {
	mu       sync.Mutex
	creds    Credentials
	store    *TokenStore
	exchange exchangeFunc
	log      logger.LogManager
	metrics  *observability.ClientMetrics
	tracer   trace.Tracer
}

func newAuthenticator(creds Credentials, store *TokenStore, exchange exchangeFunc,
	log logger.LogManager, metrics *observability.ClientMetrics, tracer trace.Tracer) *Authenticator {
	return &Authenticator{
		creds:    creds,
		store:    store,
		exchange: exchange,
		log:      log,
		metrics:  metrics,
		tracer:   tracer,
	}
}

// Authenticate stores and returns a fresh token pair. Concurrent callers are
// serialized; a caller that finds an access token stored by the previous
// holder of the lock returns it without another exchange.
//
// On failure the store holds neither an access nor a refresh token.
func (a *Authenticator) Authenticate(ctx context.Context) (TokenPair, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if pair, ok := a.store.Get(); ok {
		return pair, nil
	}

	ctx, span := a.tracer.Start(ctx, observability.SpanAuthenticate)
	defer span.End()

	if refresh, ok := a.store.Refresh(); ok {
		pair, err := a.exchangeToken(ctx, GrantRefreshToken, refreshGrant{
			GrantType:    GrantRefreshToken,
			RefreshToken: refresh,
		})
		if err == nil {
			a.store.Set(pair)
			return pair, nil
		}
		a.log.WithContext(ctx).DebugW("refresh token rejected, falling back to credentials", "error", err)
		a.store.ClearRefresh()
	}

	pair, err := a.exchangeToken(ctx, GrantPassword, passwordGrant{
		GrantType: GrantPassword,
		Username:  a.creds.Username,
		Password:  a.creds.Password,
	})
	if err != nil {
		observability.RecordSpanError(ctx, err)
		return TokenPair{}, err
	}
	a.store.Set(pair)
	return pair, nil
}

func (a *Authenticator) exchangeToken(ctx context.Context, grant string, body any) (TokenPair, error) {
	observability.AddSpanEvent(ctx, "token_exchange", observability.AttrAuthGrant.String(grant))

	pair, err := a.doExchange(ctx, body)
	outcome := observability.OutcomeSuccess
	if err != nil {
		outcome = observability.OutcomeFailure
	}
	a.metrics.IncAuthExchange(grant, outcome)

	log := a.log.WithContext(ctx)
	if err != nil {
		log.DebugW("token exchange failed", "grant", grant, "error", err)
		return TokenPair{}, err
	}
	if exp, ok := pair.ExpiresAt(); ok {
		log.DebugW("token exchange succeeded", "grant", grant, "expires_at", exp)
	} else {
		log.DebugW("token exchange succeeded", "grant", grant)
	}
	return pair, nil
}

func (a *Authenticator) doExchange(ctx context.Context, body any) (TokenPair, error) {
	resp, err := a.exchange(ctx, body)
	if err != nil {
		return TokenPair{}, err
	}
	tokens, err := DecodeAs[tokenResponse](resp)
	if err != nil {
		return TokenPair{}, err
	}
	if tokens.AccessToken == "" {
		return TokenPair{}, sdkerrors.Decode(stdErrors.New("token response has no access_token"))
	}
	return TokenPair{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}
