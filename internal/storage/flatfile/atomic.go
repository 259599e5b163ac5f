package flatfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// atomicWrite replaces targetPath with content in one step.
//
// The content is first written to a uniquely-named temporary file in
// the same directory as targetPath (same directory = same filesystem,
// which rename(2) requires to be atomic). The temporary file is then
// renamed over the target. Rename replaces the destination in place, so
// there is no window in which targetPath is missing, truncated, or
// partially written: a crash before the rename leaves the original
// untouched, a crash after it leaves the new content fully in place.
//
// The temporary file is removed on every failure path.
func atomicWrite(targetPath string, content []byte) error {
	dir := filepath.Dir(targetPath)

	// The "*" in the pattern is replaced by a random string, so
	// concurrent writers never collide on the temporary name.
	tmp, err := os.CreateTemp(dir, filepath.Base(targetPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("atomicWrite: create temp: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("atomicWrite: write temp: %w", err)
	}

	// Flush to stable storage before the rename makes the file visible.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("atomicWrite: sync temp: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("atomicWrite: close temp: %w", err)
	}

	if err := os.Rename(tmpPath, targetPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("atomicWrite: rename: %w", err)
	}

	return nil
}
