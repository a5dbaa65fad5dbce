package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunLogPattern matches the files produced by OpenRunLog.
const RunLogPattern = "alacify-*.log"

// RunLog is a per-run JSON log file teed from the console logger.
type RunLog struct {
	Path   string
	Logger *slog.Logger
	file   *os.File
}

// Close flushes and closes the log file.
func (r *RunLog) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// OpenRunLog creates dir/alacify-<timestamp>-<run>.log and returns a logger
// that writes to base and to the file. The file always records debug level.
func OpenRunLog(base *slog.Logger, dir, runID string, now time.Time) (*RunLog, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("run log: directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	name := fmt.Sprintf("alacify-%s-%s.log", now.Format("20060102T150405"), short)
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	level := new(slog.LevelVar)
	level.Set(slog.LevelDebug)
	handler := newJSONHandler(file, level, false)
	return &RunLog{
		Path:   path,
		Logger: TeeLogger(base, handler),
		file:   file,
	}, nil
}
