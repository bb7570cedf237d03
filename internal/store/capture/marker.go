package capture

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"sitevault/internal/config"
	"sitevault/internal/fsio"
	"sitevault/internal/store/narrate"
	"sitevault/internal/store/snapshot"
)

// writeMarker writes the single marker file that encodes the snapshot's
// kind into the staged directory.
func (c *Context) writeMarker(dir string, kind snapshot.Kind, label string, ts time.Time, cands []candidate) error {
	var content string
	switch kind {
	case snapshot.KindFull:
		content = versionMarker(label, ts, cands)
	case snapshot.KindSelected:
		content = selectedMarker(label, ts, cands)
	case snapshot.KindChanged:
		content = changelogMarker(ts, cands)
	}

	if err := fsio.WriteFile(filepath.Join(dir, kind.Marker()), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", kind.Marker(), err)
	}
	return nil
}

func versionMarker(label string, ts time.Time, cands []candidate) string {
	var b strings.Builder
	if label == "" {
		label = "(none)"
	}
	fmt.Fprintf(&b, "version: %s\n", label)
	fmt.Fprintf(&b, "created: %s\n", ts.Format(config.TimestampLayout))
	fmt.Fprintf(&b, "kind: full\n")
	fmt.Fprintf(&b, "files:\n")
	for _, cand := range cands {
		fmt.Fprintf(&b, "%s\n", cand.name)
	}
	return b.String()
}

func selectedMarker(label string, ts time.Time, cands []candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "created: %s\n", ts.Format(config.TimestampLayout))
	if label != "" {
		fmt.Fprintf(&b, "version: %s\n", label)
	}
	fmt.Fprintf(&b, "kind: selected\n")
	fmt.Fprintf(&b, "files:\n")
	for _, cand := range cands {
		fmt.Fprintf(&b, "- %s\n", cand.name)
	}
	return b.String()
}

// changelogMarker narrates each saved file's changes against its
// previous content, then appends fixed restore instructions.
func changelogMarker(ts time.Time, cands []candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Backup %s\n\n", ts.Format(config.TimestampLayout))

	fmt.Fprintf(&b, "Saved files:\n\n")
	for _, cand := range cands {
		fmt.Fprintf(&b, "- %s\n", cand.name)
	}

	fmt.Fprintf(&b, "\n## Changes\n\n")
	for _, cand := range cands {
		for _, line := range narrate.Narrate(cand.name, cand.prev, string(cand.data)) {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	fmt.Fprintf(&b, "\n## How to restore\n\n")
	fmt.Fprintf(&b, "Copy the files in this folder back over the live site files,\n")
	fmt.Fprintf(&b, "or run:\n\n")
	fmt.Fprintf(&b, "    sitevault restore %s %s <file...>\n", ts.Format(config.DateLayout), ts.Format(config.TimeLayout))
	return b.String()
}
