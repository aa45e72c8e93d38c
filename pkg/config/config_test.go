package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milan604/dataprovider-sdk/pkg/validator"
)

func TestLoadClientConfigFromEnv(t *testing.T) {
	t.Setenv("DATAPROVIDER_USERNAME", "alice")
	t.Setenv("DATAPROVIDER_PASSWORD", "s3cret")
	t.Setenv("DATAPROVIDER_LOG_LEVEL", "debug")

	cfg, err := New(WithDefaults(ClientDefaults()), WithEnv(EnvPrefix), WithSensitiveKeys(KeyPassword))
	require.NoError(t, err)

	cc, err := LoadClientConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "alice", cc.Username)
	assert.Equal(t, "s3cret", cc.Password)
	assert.Equal(t, "https://api.dataprovider.com/v2", cc.Host)
	assert.Equal(t, 60*time.Second, cc.Timeout)
	assert.Equal(t, "debug", cc.LogLevel)

	masked := cfg.MaskedSettings()
	assert.Equal(t, "***REDACTED***", masked[KeyPassword])
	assert.Equal(t, "alice", masked[KeyUsername])
}

func TestLoadClientConfigMissingCredentials(t *testing.T) {
	cfg, err := New(WithDefaults(ClientDefaults()))
	require.NoError(t, err)

	_, err = LoadClientConfig(cfg)
	require.Error(t, err)

	verr, ok := err.(*validator.ValidationError)
	require.True(t, ok)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"username", "password"}, fields)
}

func TestDotEnvThenFlags(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"DATAPROVIDER_USERNAME=from-dotenv\nDATAPROVIDER_PASSWORD=pw\nDATAPROVIDER_TIMEOUT=5s\n"), 0o600))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterClientFlags(fs)
	require.NoError(t, fs.Parse([]string{"--username=from-flag", "--host=https://staging.example.test/v2"}))

	cfg, err := New(
		WithDefaults(ClientDefaults()),
		WithDotEnv(envFile, EnvPrefix),
		WithPFlags(fs),
	)
	require.NoError(t, err)

	cc, err := LoadClientConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cc.Username)
	assert.Equal(t, "pw", cc.Password)
	assert.Equal(t, "https://staging.example.test/v2", cc.Host)
	assert.Equal(t, 5*time.Second, cc.Timeout)
}

func TestWithFileMissingFails(t *testing.T) {
	_, err := New(WithFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestWithFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataprovider.yaml")
	require.NoError(t, os.WriteFile(path, []byte("username: bob\npassword: pw\nlog:\n  level: warn\n"), 0o600))

	cfg, err := New(WithDefaults(ClientDefaults()), WithFile(path))
	require.NoError(t, err)

	cc, err := LoadClientConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "bob", cc.Username)
	assert.Equal(t, "warn", cc.LogLevel)
}

func TestValidateRequired(t *testing.T) {
	cfg, err := New(WithDefaults(map[string]interface{}{"username": "u", "password": ""}))
	require.NoError(t, err)

	assert.NoError(t, cfg.ValidateRequired(KeyUsername))
	assert.EqualError(t, cfg.ValidateRequired(KeyUsername, KeyPassword, KeyHost), "missing required keys: password, host")
}
