package snapshot

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"sitevault/internal/config"
	"sitevault/internal/fsio"

	"golang.org/x/exp/slices"
)

// Context scans and indexes the on-disk snapshot tree under Root.
type Context struct {
	Root string
}

// List returns all snapshots, newest first by (date, time). Malformed
// or empty child directories are skipped, never errored on: a corrupt
// entry must not take the whole listing down.
func (c *Context) List() []Snapshot {
	dates, err := fsio.ReadDir(c.Root)
	if err != nil {
		return nil
	}

	var out []Snapshot
	for _, d := range dates {
		if !d.IsDir() || !IsDateDir(d.Name()) {
			continue
		}
		times, err := fsio.ReadDir(filepath.Join(c.Root, d.Name()))
		if err != nil {
			continue
		}
		for _, t := range times {
			if !t.IsDir() {
				continue
			}
			s, ok := c.load(d.Name(), t.Name())
			if !ok {
				continue
			}
			out = append(out, s)
		}
	}

	slices.SortFunc(out, func(a, b Snapshot) int {
		return strings.Compare(b.Date+b.Time, a.Date+a.Time)
	})
	return out
}

// LatestWithPayload returns the most recent snapshot with at least one
// payload file, or nil. It is the diff baseline for changed captures.
func (c *Context) LatestWithPayload() *Snapshot {
	for _, s := range c.List() {
		if _, err := s.Timestamp(); err != nil {
			continue
		}
		s := s
		return &s
	}
	return nil
}

// Find locates a snapshot by its date and time components.
func (c *Context) Find(date, timeOfDay string) *Snapshot {
	for _, s := range c.List() {
		if s.Date == date && s.Time == timeOfDay {
			s := s
			return &s
		}
	}
	return nil
}

var versionLabelRe = regexp.MustCompile(`^v(\d+)$`)

// NextVersionLabel computes the next auto label. Version numbers form a
// single global sequence across all snapshots regardless of kind, and
// are re-derived from disk on every call so the store stays consistent
// across process restarts.
func (c *Context) NextVersionLabel() string {
	max := 0
	for _, s := range c.List() {
		m := versionLabelRe.FindStringSubmatch(s.Label)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return "v" + strconv.Itoa(max+1)
}

// load reads one snapshot directory. ok is false when the directory
// name does not parse or the payload is empty (such directories are
// treated as absent but never deleted by listing alone).
func (c *Context) load(dateName, timeName string) (Snapshot, bool) {
	timePart, label, ok := ParseTimeDir(timeName)
	if !ok {
		return Snapshot{}, false
	}

	path := filepath.Join(c.Root, dateName, timeName)
	entries, err := fsio.ReadDir(path)
	if err != nil {
		return Snapshot{}, false
	}

	var files []string
	markers := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isMarker(e.Name()) {
			markers[e.Name()] = true
			continue
		}
		files = append(files, e.Name())
	}
	if len(files) == 0 {
		return Snapshot{}, false
	}
	slices.Sort(files)

	return Snapshot{
		Path:  path,
		Date:  dateName,
		Time:  timePart,
		Label: label,
		Kind:  kindFromMarkers(markers),
		Files: files,
	}, true
}

// IsDateDir reports whether a directory name is a valid date component:
// exactly 8 ASCII digits.
func IsDateDir(name string) bool {
	if len(name) != 8 {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}

// ParseTimeDir splits a time directory name into its HHMMSS part and
// optional label. The prefix before the first underscore must be 6
// digits; the label is the suffix after the last underscore.
func ParseTimeDir(name string) (timePart, label string, ok bool) {
	prefix := name
	if i := strings.Index(name, "_"); i >= 0 {
		prefix = name[:i]
		label = name[strings.LastIndex(name, "_")+1:]
	}
	if len(prefix) != 6 {
		return "", "", false
	}
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < '0' || prefix[i] > '9' {
			return "", "", false
		}
	}
	return prefix, label, true
}

func isMarker(name string) bool {
	for _, m := range config.MarkerFiles {
		if name == m {
			return true
		}
	}
	return false
}

// kindFromMarkers maps marker presence to a kind. When several markers
// exist (never produced by capture, but tolerated on read) the
// precedence is VERSION > SELECTED > CHANGELOG.
func kindFromMarkers(markers map[string]bool) Kind {
	switch {
	case markers[config.VersionMarker]:
		return KindFull
	case markers[config.SelectedMarker]:
		return KindSelected
	case markers[config.ChangelogMarker]:
		return KindChanged
	default:
		return KindUnknown
	}
}
