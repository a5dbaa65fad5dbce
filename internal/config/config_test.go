package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"alacify/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.FFmpegEnv, "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "alacify", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Conversion.SourceFormat != "flac" || cfg.Conversion.TargetFormat != "alac" {
		t.Fatalf("unexpected formats: %+v", cfg.Conversion)
	}
	if cfg.Conversion.Jobs != 4 || cfg.Parallelism() != 4 {
		t.Fatalf("expected 4 jobs by default, got %d", cfg.Conversion.Jobs)
	}
	if cfg.Conversion.Overwrite != "skip" {
		t.Fatalf("expected skip policy, got %q", cfg.Conversion.Overwrite)
	}
	if !cfg.Conversion.RemovePartial {
		t.Fatal("expected remove_partial enabled by default")
	}
	if cfg.Conversion.Verify {
		t.Fatal("expected verification disabled by default")
	}
	if cfg.TaskTimeout() != 0 {
		t.Fatalf("expected no task timeout, got %v", cfg.TaskTimeout())
	}
	if cfg.FFmpegBinary() != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary %q", cfg.FFmpegBinary())
	}
	if cfg.Logging.Dir != "" {
		t.Fatalf("expected no log dir by default, got %q", cfg.Logging.Dir)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
[conversion]
jobs = 0
verify = true
overwrite = "REPLACE"
remove_partial = false
task_timeout_seconds = 90

[tools]
ffmpeg = "/opt/ffmpeg/bin/ffmpeg"

[logging]
format = "JSON"
level = "Debug"
dir = "~/logs"

[metrics]
textfile = "~/metrics/alacify.prom"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected explicit file to be used, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Parallelism() != runtime.NumCPU() {
		t.Fatalf("expected jobs=0 to use NumCPU, got %d", cfg.Parallelism())
	}
	if !cfg.Conversion.Verify || cfg.Conversion.RemovePartial {
		t.Fatalf("unexpected conversion flags: %+v", cfg.Conversion)
	}
	if cfg.Conversion.Overwrite != "replace" {
		t.Fatalf("expected normalized overwrite policy, got %q", cfg.Conversion.Overwrite)
	}
	if cfg.TaskTimeout() != 90*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.TaskTimeout())
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg %q", cfg.FFmpegBinary())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lower-cased logging settings, got %+v", cfg.Logging)
	}
	home, _ := os.UserHomeDir()
	if cfg.Logging.Dir != filepath.Join(home, "logs") {
		t.Fatalf("expected expanded log dir, got %q", cfg.Logging.Dir)
	}
	if cfg.Metrics.Textfile != filepath.Join(home, "metrics", "alacify.prom") {
		t.Fatalf("expected expanded textfile path, got %q", cfg.Metrics.Textfile)
	}
}

func TestLoadUsesFFmpegEnvFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.FFmpegEnv, "/custom/ffmpeg")

	cfg, _, _, err := config.Load(writeConfig(t, "[conversion]\njobs = 2\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/custom/ffmpeg" {
		t.Fatalf("expected env fallback, got %q", cfg.FFmpegBinary())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "same formats", body: "[conversion]\nsource_format = \"alac\"\ntarget_format = \"alac\"\n", want: "must differ"},
		{name: "unknown source", body: "[conversion]\nsource_format = \"mp3\"\n", want: "conversion.source_format"},
		{name: "non-target", body: "[conversion]\ntarget_format = \"wav\"\n", want: "conversion.target_format"},
		{name: "negative jobs", body: "[conversion]\njobs = -1\n", want: "conversion.jobs"},
		{name: "negative timeout", body: "[conversion]\ntask_timeout_seconds = -5\n", want: "task_timeout_seconds"},
		{name: "bad policy", body: "[conversion]\noverwrite = \"always\"\n", want: "conversion.overwrite"},
		{name: "bad log format", body: "[logging]\nformat = \"xml\"\n", want: "logging.format"},
		{name: "bad log level", body: "[logging]\nlevel = \"trace\"\n", want: "logging.level"},
		{name: "unknown key", body: "[conversion]\nthreads = 3\n", want: "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSampleConfigLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	defaults := config.Default()
	if cfg.Conversion.Jobs != defaults.Conversion.Jobs || cfg.Conversion.Overwrite != defaults.Conversion.Overwrite {
		t.Fatalf("sample diverges from defaults: %+v", cfg.Conversion)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~/music/../music/flac")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "music", "flac") {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("expected empty path to stay empty, got %q", got)
	}
}
