package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/google/go-querystring/query"

	sdkerrors "github.com/milan604/dataprovider-sdk/pkg/errors"
)

// Param is one query-string parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered set of query-string parameters. Encoding keeps the
// order in which they were added.
type Params []Param

// NewParams builds Params from alternating key/value strings. A trailing key
// without a value gets an empty value.
func NewParams(keyValues ...string) Params {
	p := make(Params, 0, (len(keyValues)+1)/2)
	for i := 0; i < len(keyValues); i += 2 {
		v := ""
		if i+1 < len(keyValues) {
			v = keyValues[i+1]
		}
		p = append(p, Param{Key: keyValues[i], Value: v})
	}
	return p
}

// Add appends a parameter and returns the extended set.
func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// ParamsFromStruct encodes a struct with `url` tags (github.com/google/go-querystring
// conventions). Keys come out sorted.
func ParamsFromStruct(v any) (Params, error) {
	values, err := query.Values(v)
	if err != nil {
		return nil, fmt.Errorf("encode query params: %w", err)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := make(Params, 0, len(keys))
	for _, k := range keys {
		for _, v := range values[k] {
			p = append(p, Param{Key: k, Value: v})
		}
	}
	return p, nil
}

// Encode renders the query string without the leading '?'. Spaces become '+'.
func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

var absoluteURL = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)

func validateRequest(method, path string) error {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
	default:
		return sdkerrors.InvalidRequest(fmt.Sprintf("unsupported method %q", method))
	}
	if path == "" {
		return sdkerrors.InvalidRequest("path cannot be empty")
	}
	if absoluteURL.MatchString(path) || strings.HasPrefix(path, "//") {
		return sdkerrors.InvalidRequest("path cannot contain a full url, please remove the host")
	}
	return nil
}

func buildURL(host, path string, params Params) string {
	u := strings.TrimRight(host, "/") + "/" + strings.TrimLeft(path, "/")
	if len(params) == 0 {
		return u
	}
	return u + "?" + params.Encode()
}

// encodeBody returns nil for absent or empty bodies.
func encodeBody(body any) ([]byte, error) {
	if isEmptyBody(body) {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, sdkerrors.InvalidRequest(fmt.Sprintf("cannot encode body: %v", err))
	}
	return data, nil
}

func isEmptyBody(body any) bool {
	if body == nil {
		return true
	}
	v := reflect.ValueOf(body)
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}
