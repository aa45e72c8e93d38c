package apiclient

import (
	"encoding/json"
	"fmt"

	sdkerrors "github.com/milan604/dataprovider-sdk/pkg/errors"
)

// Response is a successful API response. It is immutable; decoding happens on
// every call and never re-fetches.
type Response struct {
	raw RawResponse
}

func newResponse(raw *RawResponse) *Response {
	r := &Response{raw: *raw}
	r.raw.Body = append([]byte(nil), raw.Body...)
	return r
}

// Body returns the raw response body.
func (r *Response) Body() string { return string(r.raw.Body) }

// RawBody returns a copy of the raw response body.
func (r *Response) RawBody() []byte { return append([]byte(nil), r.raw.Body...) }

// HasBody reports whether the server returned a body.
func (r *Response) HasBody() bool { return r.raw.HasBody }

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int { return r.raw.StatusCode }

// JSON decodes the body into generic values: objects become map[string]any,
// arrays []any. An empty body decodes to nil.
func (r *Response) JSON() (any, error) {
	var v any
	if err := r.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// JSONMap decodes a body that must be a JSON object.
func (r *Response) JSONMap() (map[string]any, error) {
	v, err := r.JSON()
	if err != nil || v == nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, sdkerrors.Decode(fmt.Errorf("body is a %T, not a JSON object", v))
	}
	return m, nil
}

// Decode unmarshals the body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.raw.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.raw.Body, v); err != nil {
		return sdkerrors.Decode(err)
	}
	return nil
}

// DecodeAs decodes the body into a new T.
func DecodeAs[T any](r *Response) (T, error) {
	var out T
	err := r.Decode(&out)
	return out, err
}
