package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/vscode-installer/internal/logger"
)

// TestValidate checks level parsing and default filling.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	settings := new(Config)
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultLogLevel, settings.LogLevel)
	require.Equal(t, DefaultConnectTimeout, settings.ConnectTimeout)

	settings = &Config{LogLevel: "chatty"}
	require.Error(t, Validate(settings))
}

// TestLoad reads every field from a settings file.
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	t.Setenv(logger.LevelEnvVariable, "")

	settings := &Config{
		LogLevel:        "debug",
		ConnectTimeout:  5 * time.Second,
		DisableProgress: true,
	}

	data, err := yaml.Marshal(settings)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)
}

// TestLoadMissingDefault falls back to defaults when the default file is absent.
func TestLoadMissingDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(logger.LevelEnvVariable, "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestLoadMissingExplicit reports an explicitly requested but absent file.
func TestLoadMissingExplicit(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestLoadMissingExplicitDefaultName treats the default name as explicit once requested.
func TestLoadMissingExplicitDefaultName(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(DefaultConfigFilename)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestLoadEnvOverride prefers the environment level over the file.
func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\nconnect_timeout: 2s\n"), 0o600))

	t.Setenv(logger.LevelEnvVariable, "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, 2*time.Second, cfg.ConnectTimeout)
}
