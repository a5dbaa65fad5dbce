// Package runlock prevents two runs from writing into the same output tree.
//
// The advisory lock file lives in a lock directory (the system temp dir by
// default), named after a digest of the absolute output root, so nothing is
// written into the user's music tree.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("another alacify run is writing to this output tree")

// Lock is a held run lock.
type Lock struct {
	root string
	fl   *flock.Flock
}

// PathFor returns the lock file used for root inside lockDir.
func PathFor(lockDir, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve output root: %w", err)
	}
	if lockDir == "" {
		lockDir = os.TempDir()
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(lockDir, "alacify-"+hex.EncodeToString(sum[:6])+".lock"), nil
}

// Acquire takes the lock for root without blocking.
func Acquire(lockDir, root string) (*Lock, error) {
	path, err := PathFor(lockDir, root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s, lock %s)", ErrLocked, root, path)
	}
	return &Lock{root: root, fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release unlocks. It is safe to call on a nil lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
