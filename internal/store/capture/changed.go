package capture

import (
	"fmt"
	"io"
	"path/filepath"

	"sitevault/internal/fsio"
	"sitevault/internal/logger"
	"sitevault/internal/registry"
	"sitevault/internal/store/snapshot"

	"github.com/zeebo/xxh3"
	"golang.org/x/mod/sumdb/dirhash"
)

// collectChanged keeps the targets whose current content differs from
// the same-named file in the latest payload-bearing snapshot. A target
// missing from the baseline counts as changed iff it is non-empty.
func (c *Context) collectChanged() ([]candidate, error) {
	baseline := c.Snapshots.LatestWithPayload()
	existing := c.Targets.Existing()

	if baseline != nil && c.sameSetHash(baseline, existing) {
		return nil, nil
	}

	var cands []candidate
	for _, t := range existing {
		data, err := fsio.ReadFile(t.LivePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", t.LivePath, err)
		}

		if baseline == nil || !baseline.HasFile(t.Name) {
			if len(data) > 0 {
				cands = append(cands, candidate{name: t.Name, data: data})
			}
			continue
		}

		prev, err := baseline.ReadFile(t.Name)
		if err != nil {
			// Baseline payload went unreadable; treat as changed.
			logger.Warnf("baseline read failed for %s: %v", t.Name, err)
			cands = append(cands, candidate{name: t.Name, data: data})
			continue
		}
		if xxh3.Hash(data) != xxh3.Hash(prev) {
			cands = append(cands, candidate{name: t.Name, data: data, prev: string(prev)})
		}
	}
	return cands, nil
}

// sameSetHash is the fast path: when the live target set carries
// exactly the baseline's payload names, one whole-set hash comparison
// decides "nothing changed" without per-file narration reads. Any
// hashing error falls back to the per-file walk.
func (c *Context) sameSetHash(baseline *snapshot.Snapshot, existing []registry.Target) bool {
	if len(existing) != len(baseline.Files) {
		return false
	}
	livePath := make(map[string]string, len(existing))
	names := make([]string, 0, len(existing))
	for _, t := range existing {
		livePath[t.Name] = t.LivePath
		names = append(names, t.Name)
	}
	for _, f := range baseline.Files {
		if _, ok := livePath[f]; !ok {
			return false
		}
	}

	liveHash, err := hashSet(names, func(n string) string { return livePath[n] })
	if err != nil {
		logger.Debugf("live set hash failed: %v", err)
		return false
	}
	baseHash, err := hashSet(names, func(n string) string { return filepath.Join(baseline.Path, n) })
	if err != nil {
		logger.Debugf("baseline set hash failed: %v", err)
		return false
	}
	return liveHash == baseHash
}

func hashSet(names []string, resolve func(string) string) (string, error) {
	return dirhash.Hash1(names, func(name string) (io.ReadCloser, error) {
		f, err := fsio.Open(resolve(name))
		if err != nil {
			return nil, err
		}
		return f, nil
	})
}
