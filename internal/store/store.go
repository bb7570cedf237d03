// Package store wires the snapshot store layers together.
package store

import (
	"fmt"

	"sitevault/internal/config"
	"sitevault/internal/fsio"
	"sitevault/internal/registry"
	"sitevault/internal/store/capture"
	"sitevault/internal/store/migrate"
	"sitevault/internal/store/restore"
	"sitevault/internal/store/snapshot"
	"sitevault/internal/store/sweep"
)

// Store aggregates the per-layer contexts over one backup root.
type Store struct {
	Root    string
	Targets *registry.Registry

	Snapshots *snapshot.Context
	Capture   *capture.Context
	Restore   *restore.Context
	Sweep     *sweep.Context
	Migrate   *migrate.Context
}

// Open builds a Store from the config, creating the backup root if
// needed.
func Open(cfg *config.Config) (*Store, error) {
	if err := fsio.MkdirAll(cfg.BackupRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup root %q: %w", cfg.BackupRoot, err)
	}

	targets := registry.New(cfg)
	snapshots := &snapshot.Context{Root: cfg.BackupRoot}
	capCtx := &capture.Context{Root: cfg.BackupRoot, Targets: targets, Snapshots: snapshots}

	return &Store{
		Root:      cfg.BackupRoot,
		Targets:   targets,
		Snapshots: snapshots,
		Capture:   capCtx,
		Restore:   &restore.Context{Targets: targets, Capture: capCtx},
		Sweep:     &sweep.Context{Root: cfg.BackupRoot},
		Migrate:   &migrate.Context{Root: cfg.BackupRoot},
	}, nil
}
