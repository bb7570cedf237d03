// Package restore copies snapshot payload files back onto the live
// site files.
package restore

import (
	"errors"
	"fmt"

	"sitevault/internal/fsio"
	"sitevault/internal/registry"
	"sitevault/internal/store/capture"
	"sitevault/internal/store/snapshot"

	"golang.org/x/exp/slices"
)

// Context restores snapshot payloads onto the registry's live paths.
type Context struct {
	Targets *registry.Registry
	Capture *capture.Context
}

// Restore copies each requested name that is present in the snapshot's
// payload and in the registry over its live path, and returns the names
// actually restored. Names failing any condition are skipped silently.
//
// Before touching anything it takes a full safety capture of the
// current live state; if that capture fails, nothing is written. All
// payload bytes are read up front so a bad snapshot file cannot abort
// the restore halfway through the writes.
func (c *Context) Restore(s *snapshot.Snapshot, names []string) ([]string, error) {
	type item struct {
		name string
		path string
		data []byte
	}

	var items []item
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] || !s.HasFile(name) {
			continue
		}
		seen[name] = true

		t, ok := c.Targets.Lookup(name)
		if !ok {
			continue
		}
		data, err := s.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot payload %q: %w", name, err)
		}
		items = append(items, item{name: name, path: t.LivePath, data: data})
	}
	if len(items) == 0 {
		return nil, nil
	}

	// Pre-restore safety net: snapshot the current live state first.
	// An empty live tree has nothing worth saving, so that one failure
	// mode is tolerated.
	if _, err := c.Capture.Capture(capture.Request{Kind: snapshot.KindFull, AutoLabel: true}); err != nil {
		if !errors.Is(err, capture.ErrEmptyCapture) {
			return nil, fmt.Errorf("pre-restore capture failed, aborting: %w", err)
		}
	}

	var restored []string
	for _, it := range items {
		if err := fsio.WriteFile(it.path, it.data, 0o644); err != nil {
			return restored, fmt.Errorf("failed to restore %q: %w", it.name, err)
		}
		restored = append(restored, it.name)
	}
	slices.Sort(restored)
	return restored, nil
}

// Latest restores the given names from the most recent snapshot, the
// quick "undo" path. When names is empty the whole payload is restored.
func (c *Context) Latest(snapshots *snapshot.Context, names []string) ([]string, error) {
	s := snapshots.LatestWithPayload()
	if s == nil {
		return nil, fmt.Errorf("no snapshots to restore from")
	}
	if len(names) == 0 {
		names = s.Files
	}
	return c.Restore(s, names)
}
