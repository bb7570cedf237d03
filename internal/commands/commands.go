// Package commands hosts the cli commands; each registers itself on
// import.
package commands

import (
	"fmt"

	"sitevault/internal/config"
	"sitevault/internal/store"
)

// openStore loads the config from the working directory and opens the
// backup store it points at.
func openStore() (*store.Store, *config.Config, error) {
	cfg, err := config.Load(config.ConfigFile)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

// withLock runs fn while holding the store's advisory lock.
func withLock(st *store.Store, fn func() error) error {
	release, err := st.Lock()
	if err != nil {
		return fmt.Errorf("failed to lock backup root: %w", err)
	}
	defer release()
	return fn()
}
