package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"edfconv/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a default config with any provided options applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Logging.Level = "error"
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithScheme sets the identifier scheme on the test config.
func WithScheme(scheme string) ConfigOption {
	return func(c *config.Config) {
		c.Conversion.Scheme = scheme
	}
}

// WithOverwrite sets the output overwrite policy on the test config.
func WithOverwrite(overwrite bool) ConfigOption {
	return func(c *config.Config) {
		c.Output.Overwrite = overwrite
	}
}

// WriteConfig encodes cfg as TOML in a temp directory and returns the path.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "edfconv.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
