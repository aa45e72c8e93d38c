package validator

import (
	"testing"
	"time"

	gvalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Username string        `mapstructure:"username" validate:"required"`
	Host     string        `json:"host" validate:"required,url"`
	Timeout  time.Duration `validate:"gt=0"`
}

func TestStructValid(t *testing.T) {
	vi := New()
	assert.NoError(t, vi.Struct(sample{Username: "u", Host: "https://api.dataprovider.com/v2", Timeout: time.Second}))
}

func TestStructReportsEveryField(t *testing.T) {
	vi := New()
	err := vi.Struct(sample{Host: "not a url"})
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	require.Len(t, verr.Fields, 3)

	assert.Equal(t, "username", verr.Fields[0].Field)
	assert.Equal(t, "username is required", verr.Fields[0].Message)
	assert.Equal(t, "host", verr.Fields[1].Field)
	assert.Equal(t, "host must be an absolute URL", verr.Fields[1].Message)
	assert.Equal(t, "Timeout", verr.Fields[2].Field)
	assert.Equal(t, "gt", verr.Fields[2].Tag)
	assert.Contains(t, err.Error(), "username is required")
}

func TestRegisterTagError(t *testing.T) {
	vi := New()
	vi.RegisterTagError("gt", func(_ gvalidator.FieldError) string { return "timeout must be positive" })

	err := vi.Struct(sample{Username: "u", Host: "https://x.test"})
	require.Error(t, err)
	assert.Equal(t, "validation failed: timeout must be positive", err.Error())
}
