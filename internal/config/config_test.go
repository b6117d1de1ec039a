package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntrotner/heap-causal-link/internal/config"
)

func TestLoad_AppliesDefaultsWithNoFile(t *testing.T) {
	settings, err := config.Load("")
	require.NoError(t, err)

	require.NotNil(t, settings.Parameters.Subgraph.K)
	assert.Equal(t, 2, *settings.Parameters.Subgraph.K)
	require.NotNil(t, settings.Parameters.CodeLink.MaxDistance)
	assert.Equal(t, 10, *settings.Parameters.CodeLink.MaxDistance)
}

func TestLoad_ReadsExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := "strategy: community-detection\nparameters:\n  subgraph:\n    resolution: 1.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	settings, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "community-detection", settings.Strategy)
	require.NotNil(t, settings.Parameters.Subgraph.Resolution)
	assert.Equal(t, 1.5, *settings.Parameters.Subgraph.Resolution)
}

func TestLoad_MissingExplicitFileIsError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
