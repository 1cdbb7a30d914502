package diskspace

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// FreeBytes reports the space available to unprivileged processes on the
// filesystem holding path. When path does not exist yet, the nearest
// existing ancestor is measured instead, so callers may ask about
// directories that are only created on first write.
func FreeBytes(path string) (uint64, error) {
	p, err := nearestExisting(path)
	if err != nil {
		return 0, err
	}

	var st unix.Statfs_t
	if err := unix.Statfs(p, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", p, err)
	}
	return st.Bavail * uint64(st.Bsize), nil
}

func nearestExisting(path string) (string, error) {
	p := filepath.Clean(path)
	for {
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
		parent := filepath.Dir(p)
		if parent == p {
			// Reached the root and even that is missing.
			return "", fmt.Errorf("no existing ancestor for %s", path)
		}
		p = parent
	}
}
