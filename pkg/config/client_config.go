package config

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/milan604/dataprovider-sdk/pkg/validator"
)

// Keys read by LoadClientConfig.
const (
	KeyUsername        = "username"
	KeyPassword        = "password"
	KeyHost            = "host"
	KeyTimeout         = "timeout"
	KeyLogLevel        = "log.level"
	KeyTracingEndpoint = "tracing.endpoint"

	// EnvPrefix is the environment prefix used by the examples.
	EnvPrefix = "DATAPROVIDER"
)

var knownKeys = []string{KeyUsername, KeyPassword, KeyHost, KeyTimeout, KeyLogLevel, KeyTracingEndpoint}

// ClientConfig holds everything needed to build an API client.
type ClientConfig struct {
	Username        string        `mapstructure:"username" validate:"required"`
	Password        string        `mapstructure:"password" validate:"required"`
	Host            string        `mapstructure:"host" validate:"required,url"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
	LogLevel        string        `mapstructure:"log.level" validate:"omitempty,oneof=debug info warn error"`
	TracingEndpoint string        `mapstructure:"tracing.endpoint" validate:"omitempty,url"`
}

// ClientDefaults returns the defaults for every client key.
func ClientDefaults() map[string]interface{} {
	return map[string]interface{}{
		KeyUsername:        "",
		KeyPassword:        "",
		KeyHost:            "https://api.dataprovider.com/v2",
		KeyTimeout:         "60s",
		KeyLogLevel:        "info",
		KeyTracingEndpoint: "",
	}
}

// RegisterClientFlags defines the client flags on fs for use with WithPFlags.
func RegisterClientFlags(fs *pflag.FlagSet) {
	fs.String(KeyUsername, "", "Dataprovider.com username")
	fs.String(KeyPassword, "", "Dataprovider.com password")
	fs.String(KeyHost, "", "API host including version prefix")
	fs.Duration(KeyTimeout, 0, "per-request timeout")
	fs.String(KeyLogLevel, "", "log level (debug, info, warn, error)")
	fs.String(KeyTracingEndpoint, "", "OTLP/HTTP collector URL")
}

// LoadClientConfig reads and validates the client settings from c.
func LoadClientConfig(c *Config) (ClientConfig, error) {
	cc := ClientConfig{
		Username:        c.GetString(KeyUsername),
		Password:        c.GetString(KeyPassword),
		Host:            c.GetStringD(KeyHost, "https://api.dataprovider.com/v2"),
		Timeout:         c.GetDurationD(KeyTimeout, 60*time.Second),
		LogLevel:        c.GetStringD(KeyLogLevel, "info"),
		TracingEndpoint: c.GetString(KeyTracingEndpoint),
	}
	if err := validator.New().Struct(cc); err != nil {
		return ClientConfig{}, err
	}
	return cc, nil
}

// NewClientConfig is the usual loading sequence: defaults, .env, environment,
// then flags (flags may be nil).
func NewClientConfig(flags *pflag.FlagSet) (*Config, error) {
	opts := []Option{
		WithDefaults(ClientDefaults()),
		WithDotEnv("", EnvPrefix),
		WithEnv(EnvPrefix),
		WithSensitiveKeys(KeyPassword),
	}
	if flags != nil {
		opts = append(opts, WithPFlags(flags))
	}
	return New(opts...)
}
