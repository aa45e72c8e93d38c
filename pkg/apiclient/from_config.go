package apiclient

import (
	"github.com/milan604/dataprovider-sdk/pkg/config"
)

// NewFromConfig builds a client from a validated ClientConfig. Options in opts
// are applied after the ones derived from cc and may override them.
func NewFromConfig(cc config.ClientConfig, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithHost(cc.Host),
		WithTransport(NewHTTPTransport(WithTimeout(cc.Timeout))),
	}
	return New(Credentials{Username: cc.Username, Password: cc.Password}, append(base, opts...)...)
}
