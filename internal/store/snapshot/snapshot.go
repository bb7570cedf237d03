package snapshot

import (
	"fmt"
	"path/filepath"
	"time"

	"sitevault/internal/config"
	"sitevault/internal/fsio"
)

// Kind tells how a snapshot was captured. It is decided once at load
// time from which marker file the snapshot directory contains.
type Kind int

const (
	KindUnknown Kind = iota
	KindFull
	KindSelected
	KindChanged
)

func (k Kind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindSelected:
		return "selected"
	case KindChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Marker returns the marker filename for the kind, or "" for Unknown.
func (k Kind) Marker() string {
	switch k {
	case KindFull:
		return config.VersionMarker
	case KindSelected:
		return config.SelectedMarker
	case KindChanged:
		return config.ChangelogMarker
	default:
		return ""
	}
}

// Snapshot is one immutable capture: a dated/timed directory holding
// payload copies of site files plus a single marker file.
type Snapshot struct {
	Path  string // absolute or root-relative directory path
	Date  string // YYYYMMDD
	Time  string // HHMMSS
	Label string // optional version tag, "" when absent
	Kind  Kind
	Files []string // payload names, sorted; never empty for a listed snapshot
}

// Timestamp parses the snapshot's capture time (local, second granularity).
func (s *Snapshot) Timestamp() (time.Time, error) {
	ts, err := time.ParseInLocation(config.DateLayout+config.TimeLayout, s.Date+s.Time, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse snapshot timestamp %s/%s: %w", s.Date, s.Time, err)
	}
	return ts, nil
}

// HasFile reports whether name is part of the snapshot's payload.
func (s *Snapshot) HasFile(name string) bool {
	for _, f := range s.Files {
		if f == name {
			return true
		}
	}
	return false
}

// ReadFile returns the payload bytes for a logical name.
func (s *Snapshot) ReadFile(name string) ([]byte, error) {
	data, err := fsio.ReadFile(filepath.Join(s.Path, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file %q: %w", name, err)
	}
	return data, nil
}

// SizeBytes sums the payload file sizes. Derived on demand, not stored.
func (s *Snapshot) SizeBytes() int64 {
	var total int64
	for _, f := range s.Files {
		if fi, err := fsio.StatFile(filepath.Join(s.Path, f)); err == nil {
			total += fi.Size()
		}
	}
	return total
}

// Ref is the snapshot's display reference, e.g. "20250101/120000_v3".
func (s *Snapshot) Ref() string {
	dir := s.Time
	if s.Label != "" {
		dir += "_" + s.Label
	}
	return s.Date + "/" + dir
}
