package capture

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"sitevault/internal/config"
	"sitevault/internal/fsio"
	"sitevault/internal/logger"
	"sitevault/internal/registry"
	"sitevault/internal/store/snapshot"
)

var (
	// ErrInvalidLabel means the supplied label was empty after sanitizing.
	ErrInvalidLabel = errors.New("invalid label: empty after sanitizing")
	// ErrEmptyCapture means a full or selected capture found nothing to copy.
	ErrEmptyCapture = errors.New("no files to capture")
)

// Request describes one capture to perform.
type Request struct {
	Kind      snapshot.Kind
	Label     string
	AutoLabel bool
	Selection []string // logical names, only for KindSelected
}

// Result is the outcome of a capture. NoChanges is the informational
// outcome of a changed capture with nothing to copy; it is not an error
// and leaves nothing on disk.
type Result struct {
	Snapshot  *snapshot.Snapshot
	NoChanges bool
}

// Context creates snapshots under Root from the live target files.
type Context struct {
	Root      string
	Targets   *registry.Registry
	Snapshots *snapshot.Context

	// Now is a clock hook for tests; nil means time.Now.
	Now func() time.Time
}

type candidate struct {
	name string
	data []byte
	prev string // previous content, changed captures only
}

// Capture runs one capture request. The snapshot is built in a temp
// directory under the root and renamed into place, so a crash mid-way
// never leaves a half-written directory in the listing.
func (c *Context) Capture(req Request) (*Result, error) {
	label, err := c.resolveLabel(req)
	if err != nil {
		return nil, err
	}

	var cands []candidate
	switch req.Kind {
	case snapshot.KindFull:
		cands, err = c.collectFull()
	case snapshot.KindSelected:
		cands, err = c.collectSelected(req.Selection)
	case snapshot.KindChanged:
		cands, err = c.collectChanged()
	default:
		return nil, fmt.Errorf("unsupported capture kind %q", req.Kind)
	}
	if err != nil {
		return nil, err
	}

	if len(cands) == 0 {
		if req.Kind == snapshot.KindChanged {
			return &Result{NoChanges: true}, nil
		}
		return nil, ErrEmptyCapture
	}

	// The slot is fixed before anything is written so the marker's
	// timestamps always name the directory the snapshot ends up in.
	slot, dest, err := c.reserveSlot(c.now(), label)
	if err != nil {
		return nil, err
	}

	tmp, err := fsio.MkdirTemp(c.Root, config.TempDirPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer fsio.RemoveAll(tmp) // no-op once renamed into place

	names := make([]string, 0, len(cands))
	for _, cand := range cands {
		if err := fsio.WriteFile(filepath.Join(tmp, cand.name), cand.data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to copy %q: %w", cand.name, err)
		}
		names = append(names, cand.name)
	}

	if err := c.writeMarker(tmp, req.Kind, label, slot, cands); err != nil {
		return nil, err
	}

	if err := fsio.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create date dir: %w", err)
	}
	if err := fsio.Rename(tmp, dest); err != nil {
		return nil, fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	return &Result{Snapshot: &snapshot.Snapshot{
		Path:  dest,
		Date:  slot.Format(config.DateLayout),
		Time:  slot.Format(config.TimeLayout),
		Label: label,
		Kind:  req.Kind,
		Files: names,
	}}, nil
}

// reserveSlot picks the final directory for a capture. Two captures in
// the same wall-clock second would collide on the directory name;
// rather than overwrite, the timestamp is nudged forward until a free
// slot is found. Under the store's advisory lock the probed slot stays
// free until the rename.
func (c *Context) reserveSlot(ts time.Time, label string) (time.Time, string, error) {
	const maxSlots = 10

	for i := 0; i < maxSlots; i++ {
		slot := ts.Add(time.Duration(i) * time.Second)
		timeDir := slot.Format(config.TimeLayout)
		if label != "" {
			timeDir += "_" + label
		}
		dest := filepath.Join(c.Root, slot.Format(config.DateLayout), timeDir)
		if !fsio.Exists(dest) {
			return slot, dest, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("no free snapshot slot near %s", ts.Format(time.RFC3339))
}

func (c *Context) collectFull() ([]candidate, error) {
	var cands []candidate
	for _, t := range c.Targets.Existing() {
		data, err := fsio.ReadFile(t.LivePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", t.LivePath, err)
		}
		cands = append(cands, candidate{name: t.Name, data: data})
	}
	return cands, nil
}

// collectSelected keeps the intersection of the selection with the
// registry; unknown names and missing live files are dropped silently
// (the caller is expected to have offered only real choices).
func (c *Context) collectSelected(selection []string) ([]candidate, error) {
	var cands []candidate
	seen := map[string]bool{}
	for _, name := range selection {
		if seen[name] {
			continue
		}
		seen[name] = true

		t, ok := c.Targets.Lookup(name)
		if !ok {
			logger.Debugf("selected name %q not in registry, skipping", name)
			continue
		}
		data, err := fsio.ReadFile(t.LivePath)
		if err != nil {
			if fsio.IsNotExist(err) {
				logger.Debugf("selected target %q has no live file, skipping", name)
				continue
			}
			return nil, fmt.Errorf("failed to read %q: %w", t.LivePath, err)
		}
		cands = append(cands, candidate{name: t.Name, data: data})
	}
	return cands, nil
}

func (c *Context) resolveLabel(req Request) (string, error) {
	if req.AutoLabel {
		return c.Snapshots.NextVersionLabel(), nil
	}
	if req.Label == "" {
		return "", nil
	}
	label := SanitizeLabel(req.Label)
	if label == "" {
		return "", ErrInvalidLabel
	}
	return label, nil
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
