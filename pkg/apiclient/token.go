package apiclient

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair is the access/refresh token pair issued by the token endpoint.
// An empty string means the token is absent.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ExpiresAt reads the exp claim of the access token when it is a JWT. The
// signature is not verified; the value is informational only.
func (p TokenPair) ExpiresAt() (time.Time, bool) {
	if p.AccessToken == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(p.AccessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// TokenStore holds the single live TokenPair of a client.
// The authenticator replaces the pair; the request pipeline clears the access
// token when the API rejects it.
type TokenStore struct {
	mu   sync.RWMutex
	pair TokenPair
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current pair and whether an access token is present.
func (s *TokenStore) Get() (TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair, s.pair.AccessToken != ""
}

// Access returns the cached access token, if any.
func (s *TokenStore) Access() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.AccessToken, s.pair.AccessToken != ""
}

// Refresh returns the cached refresh token, if any.
func (s *TokenStore) Refresh() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.RefreshToken, s.pair.RefreshToken != ""
}

// Set replaces the pair wholesale.
func (s *TokenStore) Set(pair TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
}

// ClearAccess drops the access token if it is still token, keeping the
// refresh token. It reports whether anything was cleared; a token already
// replaced by another caller is left alone.
func (s *TokenStore) ClearAccess(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || s.pair.AccessToken != token {
		return false
	}
	s.pair.AccessToken = ""
	return true
}

// ClearRefresh drops the refresh token.
func (s *TokenStore) ClearRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair.RefreshToken = ""
}

// Reset drops both tokens.
func (s *TokenStore) Reset() {
	s.Set(TokenPair{})
}
