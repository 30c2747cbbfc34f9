package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/orders-to-pdf/internal/config"
)

func resetConfigFlag(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		rootCmd.PersistentFlags().Lookup("config").Changed = false
		cfgFile = defaultConfigFile
	})
}

func TestLoadConfig_ImplicitDefaultMayBeAbsent(t *testing.T) {
	t.Chdir(t.TempDir())
	resetConfigFlag(t)
	cfgFile = defaultConfigFile

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.LayoutLong, cfg.Schema.Layout)
}

func TestLoadConfig_ExplicitDefaultPathMustExist(t *testing.T) {
	t.Chdir(t.TempDir())
	resetConfigFlag(t)

	// --config config.yaml names the same path as the implicit default,
	// but a typed flag must not fall back silently when the file is gone.
	require.NoError(t, rootCmd.PersistentFlags().Set("config", defaultConfigFile))

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), defaultConfigFile)
}

func TestLoadConfig_NonDefaultPathMustExist(t *testing.T) {
	t.Chdir(t.TempDir())
	resetConfigFlag(t)
	cfgFile = "missing.yaml"

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestLoadConfig_ExplicitPathLoads(t *testing.T) {
	resetConfigFlag(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := "schema:\n" +
		"  layout: wide\n" +
		"  wide:\n" +
		"    default_delivery_date: \"2024-05-01\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	cfgFile = path

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.LayoutWide, cfg.Schema.Layout)
	assert.Equal(t, ";", cfg.Schema.Delimiter)
}
