package testsupport

import (
	"hash/fnv"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and its parents) with size bytes of content derived
// from the file name, so distinct files never share a digest. A size <= 0
// writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(filepath.Base(path)))
	seed := h.Sum32()

	data := make([]byte, size)
	for i := range data {
		seed = seed*1664525 + 1013904223
		data[i] = byte(seed >> 24)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
