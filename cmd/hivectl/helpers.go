package main

import (
	"context"
	"fmt"

	"github.com/arizkami/aurorahive/hive"
)

// openHive loads a hive file under a fresh manager.
func openHive(path string, readOnly bool) (*hive.Hive, error) {
	mgr := hive.NewManager(hive.Options{})
	h, err := mgr.LoadFile(path, readOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to open hive %s: %w", path, err)
	}
	return h, nil
}

// saveHive flushes and writes the hive back to path.
func saveHive(h *hive.Hive, path string) error {
	if err := h.Backup(context.Background(), path); err != nil {
		return fmt.Errorf("failed to save hive %s: %w", path, err)
	}
	return nil
}
