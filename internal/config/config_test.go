package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg := FromViper(v)
	assert.Equal(t, "microsoft", cfg.MarketplaceType)
	assert.Equal(t, DefaultMarketplaceURL, cfg.MarketplaceURL)
	assert.Equal(t, DefaultPageFragments, cfg.PageFragments)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, []string{"code", "codium", "vscodium"}, cfg.EditorCandidates)
	assert.Empty(t, cfg.EditorCommand)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `marketplace:
  type: open-vsx
  page_fragments: [overview]
http:
  timeout: 5s
editor:
  candidates: [codium]
output:
  directory: downloads
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg := FromViper(v)
	assert.Equal(t, "open-vsx", cfg.MarketplaceType)
	assert.Equal(t, []string{"overview"}, cfg.PageFragments)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"codium"}, cfg.EditorCandidates)
	assert.Equal(t, "downloads", cfg.OutputDir)
	assert.Equal(t, DefaultOpenVSXURL, cfg.OpenVSXURL)
}
