package capture_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sitevault/internal/config"
	"sitevault/internal/fsio"
	"sitevault/internal/registry"
	"sitevault/internal/store/capture"
	"sitevault/internal/store/snapshot"
)

type env struct {
	cap   *capture.Context
	snaps *snapshot.Context
	cfg   *config.Config
	clock time.Time
}

// newEnv builds a capture context over a two-target registry
// (a.html, b.html) with a controllable clock.
func newEnv(t *testing.T) *env {
	t.Helper()

	cfg := &config.Config{
		BackupRoot: filepath.Join(t.TempDir(), "backups"),
		SiteDir:    t.TempDir(),
		Targets:    map[string]string{"a.html": "a.html", "b.html": "b.html"},
	}
	if err := os.MkdirAll(cfg.BackupRoot, 0o755); err != nil {
		t.Fatalf("failed to create backup root: %v", err)
	}

	e := &env{
		cfg:   cfg,
		snaps: &snapshot.Context{Root: cfg.BackupRoot},
		clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local),
	}
	e.cap = &capture.Context{
		Root:      cfg.BackupRoot,
		Targets:   registry.New(cfg),
		Snapshots: e.snaps,
		Now:       func() time.Time { return e.clock },
	}
	return e
}

func (e *env) writeLive(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(e.cfg.SiteDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write live file %s: %v", name, err)
	}
}

func (e *env) tick() {
	e.clock = e.clock.Add(time.Minute)
}

func (e *env) capture(t *testing.T, req capture.Request) *capture.Result {
	t.Helper()
	res, err := e.cap.Capture(req)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	return res
}

func readSnapshotFile(t *testing.T, s *snapshot.Snapshot, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(s.Path, name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

func TestFullCaptureExplicitLabel(t *testing.T) {
	e := newEnv(t)
	e.writeLive(t, "a.html", "A")
	e.writeLive(t, "b.html", "B")

	res := e.capture(t, capture.Request{Kind: snapshot.KindFull, Label: "v1"})
	s := res.Snapshot
	if s == nil {
		t.Fatal("expected a snapshot")
	}
	if s.Label != "v1" || s.Kind != snapshot.KindFull {
		t.Errorf("snapshot = %s label %q kind %s", s.Ref(), s.Label, s.Kind)
	}

	if got := readSnapshotFile(t, s, "a.html"); got != "A" {
		t.Errorf("a.html payload = %q, want A", got)
	}
	if got := readSnapshotFile(t, s, "b.html"); got != "B" {
		t.Errorf("b.html payload = %q, want B", got)
	}

	marker := readSnapshotFile(t, s, config.VersionMarker)
	for _, want := range []string{"version: v1", "a.html", "b.html", "kind: full"} {
		if !strings.Contains(marker, want) {
			t.Errorf("VERSION.txt missing %q:\n%s", want, marker)
		}
	}

	listed := e.snaps.List()
	if len(listed) != 1 || listed[0].Ref() != s.Ref() {
		t.Errorf("listing does not show the new snapshot: %v", listed)
	}
}

func TestAutoLabelGlobalSequence(t *testing.T) {
	e := newEnv(t)
	e.writeLive(t, "a.html", "A")
	e.writeLive(t, "b.html", "B")

	// Full captures with auto labels must number v1, v2, ... no matter
	// what other capture kinds run in between.
	r1 := e.capture(t, capture.Request{Kind: snapshot.KindFull, AutoLabel: true})
	if r1.Snapshot.Label != "v1" {
		t.Errorf("first auto label = %s, want v1", r1.Snapshot.Label)
	}

	e.tick()
	if res := e.capture(t, capture.Request{Kind: snapshot.KindChanged}); !res.NoChanges {
		t.Error("unmodified tree should give NoChanges")
	}

	e.tick()
	e.writeLive(t, "a.html", "A2")
	e.capture(t, capture.Request{Kind: snapshot.KindChanged})

	e.tick()
	e.capture(t, capture.Request{Kind: snapshot.KindSelected, Label: "picked", Selection: []string{"b.html"}})

	e.tick()
	r2 := e.capture(t, capture.Request{Kind: snapshot.KindFull, AutoLabel: true})
	if r2.Snapshot.Label != "v2" {
		t.Errorf("second auto label = %s, want v2", r2.Snapshot.Label)
	}

	e.tick()
	r3 := e.capture(t, capture.Request{Kind: snapshot.KindFull, AutoLabel: true})
	if r3.Snapshot.Label != "v3" {
		t.Errorf("third auto label = %s, want v3", r3.Snapshot.Label)
	}
}

func TestChangedNoChangesLeavesNothing(t *testing.T) {
	e := newEnv(t)
	e.writeLive(t, "a.html", "A")
	e.writeLive(t, "b.html", "B")
	e.capture(t, capture.Request{Kind: snapshot.KindFull})
	e.tick()

	before := e.snaps.List()
	res := e.capture(t, capture.Request{Kind: snapshot.KindChanged})
	if !res.NoChanges || res.Snapshot != nil {
		t.Fatalf("expected NoChanges, got %+v", res)
	}
	after := e.snaps.List()
	if len(after) != len(before) {
		t.Errorf("NoChanges must not create snapshots: %d -> %d", len(before), len(after))
	}

	// Nothing new on disk either, staging dirs included.
	entries, err := os.ReadDir(e.cfg.BackupRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the original date dir, found %d entries", len(entries))
	}
}

func TestChangedCapturesOnlyModifiedFile(t *testing.T) {
	e := newEnv(t)
	e.writeLive(t, "a.html", "A")
	e.writeLive(t, "b.html", "B")
	e.capture(t, capture.Request{Kind: snapshot.KindFull})

	e.tick()
	e.writeLive(t, "a.html", "A changed")
	res := e.capture(t, capture.Request{Kind: snapshot.KindChanged})

	s := res.Snapshot
	if s == nil {
		t.Fatal("expected a snapshot")
	}
	if len(s.Files) != 1 || s.Files[0] != "a.html" {
		t.Fatalf("payload = %v, want exactly a.html", s.Files)
	}
	if s.Kind != snapshot.KindChanged {
		t.Errorf("kind = %s, want changed", s.Kind)
	}

	changelog := readSnapshotFile(t, s, config.ChangelogMarker)
	if !strings.Contains(changelog, "a.html") {
		t.Errorf("CHANGELOG.md does not mention a.html:\n%s", changelog)
	}
}

func TestChangedWithoutBaseline(t *testing.T) {
	e := newEnv(t)
	e.writeLive(t, "a.html", "A")
	e.writeLive(t, "b.html", "") // empty file, no baseline: not changed

	res := e.capture(t, capture.Request{Kind: snapshot.KindChanged})
	s := res.Snapshot
	if s == nil {
		t.Fatal("expected a snapshot")
	}
	if len(s.Files) != 1 || s.Files[0] != "a.html" {
		t.Errorf("payload = %v, want exactly a.html", s.Files)
	}
}

func TestSelectedSubset(t *testing.T) {
	e := newEnv(t)
	e.writeLive(t, "a.html", "A")
	e.writeLive(t, "b.html", "B")

	res := e.capture(t, capture.Request{
		Kind:      snapshot.KindSelected,
		Selection: []string{"b.html", "nope.html"},
	})
	s := res.Snapshot
	if s == nil {
		t.Fatal("expected a snapshot")
	}
	if len(s.Files) != 1 || s.Files[0] != "b.html" {
		t.Fatalf("payload = %v, want exactly b.html", s.Files)
	}

	marker := readSnapshotFile(t, s, config.SelectedMarker)
	if !strings.Contains(marker, "- b.html") {
		t.Errorf("SELECTED.txt missing file list:\n%s", marker)
	}
	if strings.Contains(marker, "nope.html") {
		t.Errorf("unknown names must be dropped silently:\n%s", marker)
	}
}

func TestInvalidLabelRejected(t *testing.T) {
	e := newEnv(t)
	e.writeLive(t, "a.html", "A")

	_, err := e.cap.Capture(capture.Request{Kind: snapshot.KindFull, Label: "###"})
	if !errors.Is(err, capture.ErrInvalidLabel) {
		t.Fatalf("expected ErrInvalidLabel, got %v", err)
	}
	if list := e.snaps.List(); len(list) != 0 {
		t.Errorf("rejected capture must not persist anything: %v", list)
	}
}

func TestEmptyCaptureRejected(t *testing.T) {
	e := newEnv(t)

	_, err := e.cap.Capture(capture.Request{Kind: snapshot.KindFull})
	if !errors.Is(err, capture.ErrEmptyCapture) {
		t.Fatalf("full capture of nothing: expected ErrEmptyCapture, got %v", err)
	}

	e.writeLive(t, "a.html", "A")
	_, err = e.cap.Capture(capture.Request{Kind: snapshot.KindSelected, Selection: []string{"nope.html"}})
	if !errors.Is(err, capture.ErrEmptyCapture) {
		t.Fatalf("selected capture of unknown names: expected ErrEmptyCapture, got %v", err)
	}

	entries, err := os.ReadDir(e.cfg.BackupRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed captures must leave the root empty, found %d entries", len(entries))
	}
}

func TestSameSecondCapturesDoNotCollide(t *testing.T) {
	e := newEnv(t)
	e.writeLive(t, "a.html", "A")

	r1 := e.capture(t, capture.Request{Kind: snapshot.KindFull})
	// Clock not advanced: the second capture lands in the next free slot
	// instead of overwriting.
	r2 := e.capture(t, capture.Request{Kind: snapshot.KindFull})

	if r1.Snapshot.Path == r2.Snapshot.Path {
		t.Fatalf("same-second captures collided at %s", r1.Snapshot.Path)
	}
	if len(e.snaps.List()) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(e.snaps.List()))
	}

	// The nudged snapshot's marker must carry its own slot time, not
	// the wall-clock time the capture started at.
	if r2.Snapshot.Time != "120001" {
		t.Fatalf("nudged snapshot time = %s, want 120001", r2.Snapshot.Time)
	}
	marker := readSnapshotFile(t, r2.Snapshot, config.VersionMarker)
	if !strings.Contains(marker, "T12:00:01") {
		t.Errorf("nudged marker created line does not match its slot:\n%s", marker)
	}
}

// simulatePartialWriteError lets the first staged payload copy through
// and fails every one after it.
func simulatePartialWriteError() func() {
	orig := fsio.WriteFile
	calls := 0
	fsio.WriteFile = func(path string, data []byte, perm os.FileMode) error {
		calls++
		if calls > 1 {
			return errors.New("simulated write error")
		}
		return orig(path, data, perm)
	}
	return func() { fsio.WriteFile = orig }
}

func TestCaptureRollsBackOnWriteFailure(t *testing.T) {
	e := newEnv(t)
	e.writeLive(t, "a.html", "A")
	e.writeLive(t, "b.html", "B")

	restore := simulatePartialWriteError()
	defer restore()

	_, err := e.cap.Capture(capture.Request{Kind: snapshot.KindFull})
	if err == nil {
		t.Fatal("expected an error when a payload copy fails")
	}
	restore()

	// The half-staged directory must be rolled back: nothing listed and
	// nothing on disk, staging dirs included.
	if list := e.snaps.List(); len(list) != 0 {
		t.Errorf("failed capture must not persist anything: %v", list)
	}
	entries, err := os.ReadDir(e.cfg.BackupRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed captures must leave the root empty, found %d entries", len(entries))
	}
}

func TestSanitizeLabel(t *testing.T) {
	cases := []struct{ in, want string }{
		{"v1", "v1"},
		{"release 3!", "release3"},
		{"a/b\\c", "abc"},
		{"ok-2.1_x", "ok-2.1_x"},
		{"###", ""},
	}
	for _, c := range cases {
		if got := capture.SanitizeLabel(c.in); got != c.want {
			t.Errorf("SanitizeLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
