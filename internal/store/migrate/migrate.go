// Package migrate folds the historical flat backup layouts into the
// current <date>/<time>/ hierarchy.
package migrate

import (
	"fmt"
	"path/filepath"
	"regexp"

	"sitevault/internal/fsio"
	"sitevault/internal/logger"
	"sitevault/internal/store/snapshot"
)

// legacyNameRe matches the old flat backup filenames, e.g.
// projects_20250101_120000.html or about_20250101_120000_backup.html.
var legacyNameRe = regexp.MustCompile(`^([A-Za-z0-9-]+)_(\d{8})_(\d{6})(?:_backup)?\.html$`)

// Context reorganizes legacy snapshot layouts under Root.
type Context struct {
	Root string
}

// FlatLayout relocates legacy flat backup files into
// <date>/<time>/<type>.html. Files whose destination already exists
// are deleted as duplicates of an earlier, interrupted migration run.
// Returns the number of files moved or deduplicated; a second run
// finds nothing to do.
func (c *Context) FlatLayout() (int, error) {
	entries, err := fsio.ReadDir(c.Root)
	if err != nil {
		if fsio.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read backup root: %w", err)
	}

	total := 0
	for _, e := range entries {
		if e.IsDir() {
			if snapshot.IsDateDir(e.Name()) {
				n, err := c.migrateDateDir(e.Name())
				if err != nil {
					return total, err
				}
				total += n
			}
			continue
		}

		m := legacyNameRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		moved, err := c.relocate(filepath.Join(c.Root, e.Name()), m[2], m[3], m[1])
		if err != nil {
			return total, err
		}
		if moved {
			total++
		}
	}
	return total, nil
}

// migrateDateDir handles legacy files parked directly inside an
// existing date directory, one level short of the time directory.
func (c *Context) migrateDateDir(dateName string) (int, error) {
	dir := filepath.Join(c.Root, dateName)
	entries, err := fsio.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	moved := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := legacyNameRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		// The containing date directory wins over the date embedded in
		// the filename; the time component comes from the filename.
		ok, err := c.relocate(filepath.Join(dir, e.Name()), dateName, m[3], m[1])
		if err != nil {
			return moved, err
		}
		if ok {
			moved++
		}
	}
	return moved, nil
}

// relocate moves one legacy file to <date>/<time>/<type>.html, or
// deletes it when the destination was already captured.
func (c *Context) relocate(src, date, timeOfDay, typ string) (bool, error) {
	destDir := filepath.Join(c.Root, date, timeOfDay)
	dest := filepath.Join(destDir, typ+".html")

	if fsio.Exists(dest) {
		if err := fsio.Remove(src); err != nil {
			return false, fmt.Errorf("failed to remove duplicate %s: %w", src, err)
		}
		logger.Debugf("deleted duplicate legacy backup %s", src)
		return true, nil
	}

	if err := fsio.MkdirAll(destDir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", destDir, err)
	}
	if err := fsio.Rename(src, dest); err != nil {
		return false, fmt.Errorf("failed to move %s: %w", src, err)
	}
	logger.Debugf("moved legacy backup %s -> %s", src, dest)
	return true, nil
}
