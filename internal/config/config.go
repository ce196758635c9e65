package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/vscode-installer/internal/logger"
)

// Config holds the tunables of a single installer run.
type Config struct {
	// LogLevel is the minimum level of log lines (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// ConnectTimeout bounds connection establishment to the download host.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	// DisableProgress turns off the download progress bar even on terminals.
	DisableProgress bool `yaml:"disable_progress"`
}

const (
	// DefaultConfigFilename is the default filename for installer settings.
	DefaultConfigFilename = "vscode-installer-settings.yaml"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultConnectTimeout is the default connection establishment timeout.
	DefaultConnectTimeout = 30 * time.Second
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownLogLevel is returned for log levels zap does not know.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns settings with every field at its default value.
func Default() *Config {
	return &Config{
		LogLevel:       DefaultLogLevel,
		ConnectTimeout: DefaultConnectTimeout,
	}
}

// Load reads configuration from the provided path and validates it.
// An empty path reads DefaultConfigFilename and yields the defaults when that
// file is missing; a missing file at any requested path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			cfg := Default()
			ApplyEnv(cfg)

			return cfg, nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	ApplyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
// Only a valid level in logger.LevelEnvVariable is taken into account.
func ApplyEnv(cfg *Config) {
	if lvl, ok := logger.LevelFromEnv(); ok {
		cfg.LogLevel = lvl.String()
	}
}

// Validate checks the provided settings and fills in defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%q: %w", cfg.LogLevel, errUnknownLogLevel)
	}

	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}

	return nil
}
