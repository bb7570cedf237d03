// Package sweep deletes snapshot date directories past the retention
// cutoff.
package sweep

import (
	"fmt"
	"path/filepath"
	"time"

	"sitevault/internal/config"
	"sitevault/internal/fsio"
	"sitevault/internal/logger"
	"sitevault/internal/store/snapshot"
)

// Context prunes the snapshot tree under Root.
type Context struct {
	Root string

	// Now is a clock hook for tests; nil means time.Now.
	Now func() time.Time
}

// PurgeOlderThan deletes every date directory strictly older than
// days whole days ago and returns the number removed. Directory names
// that do not parse as YYYYMMDD are skipped, never deleted. A failing
// deletion is logged and the sweep continues; running the sweep twice
// with the same cutoff removes nothing the second time.
func (c *Context) PurgeOlderThan(days int) (int, error) {
	entries, err := fsio.ReadDir(c.Root)
	if err != nil {
		if fsio.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read backup root: %w", err)
	}

	now := c.now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -days)

	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !snapshot.IsDateDir(e.Name()) {
			continue
		}
		date, err := time.ParseInLocation(config.DateLayout, e.Name(), now.Location())
		if err != nil {
			continue
		}
		if !date.Before(cutoff) {
			continue
		}

		path := filepath.Join(c.Root, e.Name())
		if err := fsio.RemoveAll(path); err != nil {
			logger.Warnf("failed to purge %s: %v", path, err)
			continue
		}
		removed++
	}
	return removed, nil
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
