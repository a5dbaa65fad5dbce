// Package discovery turns an input path into conversion tasks.
//
// A single file maps to a destination beside it (or directly under the
// output root). A directory is walked recursively, following symbolic links,
// and each matching file keeps its relative subdirectory under the output
// root. Results are sorted by source path.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"alacify/internal/logging"
	"alacify/internal/media/formats"
	"alacify/internal/services"
	"alacify/internal/task"
)

// Discoverer finds source files of one format and maps them to another.
type Discoverer struct {
	Source formats.Format
	Target formats.Format
	Logger *slog.Logger
}

// New constructs a Discoverer.
func New(source, target formats.Format, logger *slog.Logger) *Discoverer {
	return &Discoverer{
		Source: source,
		Target: target,
		Logger: logging.NewComponentLogger(logger, "discovery"),
	}
}

// Discover lists the tasks for input. outputRoot may be empty, in which
// case destinations are written beside their sources.
func (d *Discoverer) Discover(input, outputRoot string) ([]task.Task, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, services.Wrap(services.ErrInvalidPath, "discovery", "input", "input path is empty", nil)
	}
	info, err := os.Stat(input)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidPath, "discovery", "stat input", input, err)
	}

	var tasks []task.Task
	if info.IsDir() {
		sources, err := d.walk(input)
		if err != nil {
			return nil, err
		}
		for _, source := range sources {
			tasks = append(tasks, d.mapTask(source, input, outputRoot))
		}
	} else if info.Mode().IsRegular() && d.Source.Matches(input) {
		tasks = append(tasks, d.mapTask(input, filepath.Dir(input), outputRoot))
	}

	if len(tasks) == 0 {
		return nil, services.Wrap(services.ErrNoInputFiles, "discovery", "", fmt.Sprintf("no %s files found in %s", d.Source.Name, input), nil)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Source < tasks[j].Source })
	d.Logger.Debug("discovery complete",
		logging.String("input", input),
		logging.Int("tasks", len(tasks)),
		logging.String(logging.FieldEventType, "discovery_complete"),
	)
	return tasks, nil
}

func (d *Discoverer) mapTask(source, root, outputRoot string) task.Task {
	destination, err := MapPath(source, root, outputRoot, d.Target)
	if err != nil {
		return task.Task{Source: source, Err: err}
	}
	return task.Task{Source: source, Destination: destination}
}

// MapPath computes the destination for source. root is the directory the
// relative layout is measured from; with an empty outputRoot the destination
// sits beside the source.
func MapPath(source, root, outputRoot string, target formats.Format) (string, error) {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(stem) == "" {
		return "", services.Wrap(services.ErrInvalidPath, "discovery", "map path", fmt.Sprintf("%q has no file name before its extension", base), nil)
	}
	name := stem + target.CanonicalExtension()

	if outputRoot == "" {
		return filepath.Join(filepath.Dir(source), name), nil
	}
	rel, err := filepath.Rel(root, filepath.Dir(source))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", services.Wrap(services.ErrInvalidPath, "discovery", "map path", fmt.Sprintf("%s is outside %s", source, root), err)
	}
	return filepath.Join(outputRoot, rel, name), nil
}

// walk collects matching regular files below root. Symlinked directories
// are followed once per resolved target; unreadable entries are logged and
// skipped.
func (d *Discoverer) walk(root string) ([]string, error) {
	visited := make(map[string]struct{})
	var files []string

	var visit func(dir string) error
	visit = func(dir string) error {
		resolved, err := filepath.EvalSymlinks(dir)
		if err != nil {
			d.skipEntry(dir, err)
			return nil
		}
		if _, seen := visited[resolved]; seen {
			return nil
		}
		visited[resolved] = struct{}{}

		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == root {
				return services.Wrap(services.ErrInvalidPath, "discovery", "read input directory", root, err)
			}
			d.skipEntry(dir, err)
			return nil
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			info, err := os.Stat(path)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					d.skipEntry(path, err)
				}
				continue
			}
			switch {
			case info.IsDir():
				if err := visit(path); err != nil {
					return err
				}
			case info.Mode().IsRegular() && d.Source.Matches(path):
				files = append(files, path)
			}
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return files, nil
}

func (d *Discoverer) skipEntry(path string, err error) {
	logging.WarnWithContext(d.Logger, "skipping unreadable entry", "discovery_entry_skipped",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check permissions below the input directory"),
		logging.String(logging.FieldImpact, "files below this entry are not converted"),
	)
}
