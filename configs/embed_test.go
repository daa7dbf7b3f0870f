package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamStudy/listkit/internal/config"
)

func TestExampleMatchesDefaults(t *testing.T) {
	cfg, err := config.NewLoader(t.TempDir()).LoadString(string(Example))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), *cfg)
}
