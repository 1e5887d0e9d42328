package testsupport

import (
	"path/filepath"
	"testing"

	"canvass/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Telephony.AccountSID = "AC00000000000000000000000000000000"
	cfgVal.Telephony.AuthToken = "test-token"
	cfgVal.Telephony.FromNumber = "+15550100000"
	cfgVal.Telephony.PublicURL = "https://canvass.test"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithArchive enables the SQLite feedback archive on the test config.
func WithArchive() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.ArchiveEnabled = true
	}
}

// WithMaxRetries sets the per-question retry cap on the test config.
func WithMaxRetries(cap int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Survey.MaxRetries = cap
	}
}

// WithPublicURL overrides the callback base URL on the test config.
func WithPublicURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Telephony.PublicURL = url
	}
}
