package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"sitevault/internal/config"
	"sitevault/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := &config.Config{
		BackupRoot: filepath.Join(t.TempDir(), "backups"),
		SiteDir:    t.TempDir(),
	}
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return st
}

func TestOpenCreatesRoot(t *testing.T) {
	st := openTestStore(t)
	fi, err := os.Stat(st.Root)
	if err != nil || !fi.IsDir() {
		t.Fatalf("backup root not created: %v", err)
	}
	if st.Targets.Len() == 0 {
		t.Error("registry should carry the default target set")
	}
}

func TestLockIsExclusive(t *testing.T) {
	st := openTestStore(t)

	release, err := st.Lock()
	if err != nil {
		t.Fatalf("first Lock failed: %v", err)
	}

	if _, err := st.Lock(); err == nil {
		t.Fatal("second Lock should fail while held")
	}

	release()
	release2, err := st.Lock()
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	release2()

	if _, err := os.Stat(filepath.Join(st.Root, config.LockFile)); !os.IsNotExist(err) {
		t.Error("released lock file should be removed")
	}
}
