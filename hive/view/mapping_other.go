//go:build !unix

package view

import (
	"fmt"
	"os"
)

// OpenFile reads the file into memory on platforms without mmap
// support. Flushes write the whole backing back.
func OpenFile(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("view: empty file %q", path)
	}
	m := &Mapping{data: data}
	m.msync = func([]byte) error {
		return os.WriteFile(path, m.data, 0o644)
	}
	return m, nil
}
