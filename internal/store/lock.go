package store

import (
	"fmt"
	"os"
	"path/filepath"

	"sitevault/internal/config"
)

// Lock takes the advisory lock that serializes capture, restore, sweep
// and migrate runs on one backup root. O_EXCL gives atomic
// test-and-set; the file holds the owner pid for manual cleanup after
// a crash. The returned release func removes the lock.
func (s *Store) Lock() (func(), error) {
	path := filepath.Join(s.Root, config.LockFile)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("backup root is locked (%s exists); is another run in progress?", config.LockFile)
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}
	f.Close()

	return func() { os.Remove(path) }, nil
}
