package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"alacify/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	input      string
	output     string
	stubLog    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("ALACIFY_FFMPEG", "")

	stubLog := filepath.Join(base, "ffmpeg.log")
	ffmpeg := testsupport.WriteFFmpegStub(t, filepath.Join(base, "bin"), testsupport.StubOptions{LogPath: stubLog})

	input := filepath.Join(base, "music")
	testsupport.WriteFile(t, filepath.Join(input, "01 Intro.flac"), 256)
	testsupport.WriteFile(t, filepath.Join(input, "CD2", "02 Song.flac"), 512)
	testsupport.WriteFile(t, filepath.Join(input, "notes.txt"), 16)

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "alacify.toml"),
		input:      input,
		output:     filepath.Join(base, "out"),
		stubLog:    stubLog,
	}
	writeTestConfig(t, env.configPath, ffmpeg, filepath.Join(base, "logs"))
	return env
}

func writeTestConfig(t *testing.T, path, ffmpeg, logDir string) {
	t.Helper()
	content := fmt.Sprintf("[conversion]\njobs = 2\n\n[tools]\nffmpeg = %q\n\n[logging]\nlevel = \"warn\"\ndir = %q\n", ffmpeg, logDir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) transcodes(t *testing.T) int {
	t.Helper()
	count := 0
	for _, line := range testsupport.ReadInvocations(t, e.stubLog) {
		if strings.Contains(line, "-c:a") {
			count++
		}
	}
	return count
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
