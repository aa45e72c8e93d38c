package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
)

// reply is one scripted transport outcome.
type reply struct {
	status int
	body   string
	err    error
}

func okReply(body string) reply            { return reply{status: 200, body: body} }
func statusReply(code int, b string) reply { return reply{status: code, body: b} }

func tokenReply(access, refresh string) reply {
	b, _ := json.Marshal(map[string]string{"access_token": access, "refresh_token": refresh})
	return okReply(string(b))
}

const unauthorizedBody = `{"error":{"message":"Forbidden: Invalid credentials or token.","request_id":"1234-5678"}}`

// scriptedTransport returns replies in order and records every request.
type scriptedTransport struct {
	t       *testing.T
	mu      sync.Mutex
	replies []reply
	calls   []Request
}

func script(t *testing.T, replies ...reply) *scriptedTransport {
	return &scriptedTransport{t: t, replies: replies}
}

func (s *scriptedTransport) RoundTrip(_ context.Context, req *Request) (*RawResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *req
	cp.Header = append(Header(nil), req.Header...)
	s.calls = append(s.calls, cp)

	n := len(s.calls)
	if n > len(s.replies) {
		s.t.Errorf("unexpected transport call #%d: %s %s", n, req.Method, req.URL)
		return nil, fmt.Errorf("no scripted reply for call #%d", n)
	}
	r := s.replies[n-1]
	if r.err != nil {
		return nil, r.err
	}
	return &RawResponse{StatusCode: r.status, Body: []byte(r.body), HasBody: r.body != ""}, nil
}

func (s *scriptedTransport) urls() []string {
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.URL
	}
	return out
}

// bodies returns each request body decoded to a map, nil when absent.
func (s *scriptedTransport) bodies() []map[string]any {
	out := make([]map[string]any, len(s.calls))
	for i, c := range s.calls {
		if c.Body == nil {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(c.Body, &m); err != nil {
			s.t.Fatalf("call #%d body is not JSON: %v", i+1, err)
		}
		out[i] = m
	}
	return out
}

func newTestClient(tr Transport, opts ...ClientOption) *Client {
	return New(Credentials{Username: "test", Password: "test"}, append([]ClientOption{WithTransport(tr)}, opts...)...)
}

var (
	passwordGrantBody = map[string]any{"grant_type": "password", "username": "test", "password": "test"}
	authURL           = DefaultHost + AuthPath
)

func refreshGrantBody(token string) map[string]any {
	return map[string]any{"grant_type": "refresh_token", "refresh_token": token}
}
