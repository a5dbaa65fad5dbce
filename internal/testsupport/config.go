package testsupport

import (
	"path/filepath"
	"testing"

	"alacify/internal/config"
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
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Conversion.Jobs = 2

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

// WithJobs overrides the worker count.
func WithJobs(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.Jobs = n
	}
}

// WithOverwrite sets the overwrite policy name.
func WithOverwrite(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.Overwrite = policy
	}
}

// WithVerify enables post-conversion verification.
func WithVerify() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.Verify = true
	}
}

// WithMetricsTextfile points the metrics exporter at a file under the base dir.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Textfile = filepath.Join(b.baseDir, "metrics", "alacify.prom")
	}
}

// WithStubbedFFmpeg writes a stub ffmpeg under the base dir and configures it
// as the tool binary.
func WithStubbedFFmpeg(opts StubOptions) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tools.FFmpeg = WriteFFmpegStub(b.t, filepath.Join(b.baseDir, "bin"), opts)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Logging.Dir)
}
