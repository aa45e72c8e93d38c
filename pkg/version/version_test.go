package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v1.2.3"
	assert.Equal(t, "Dataprovider.com - SDK (Go) v1.2.3", UserAgent())
	assert.Equal(t, "v1.2.3", Info()["version"])
}
