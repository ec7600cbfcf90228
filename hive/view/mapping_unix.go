//go:build unix

package view

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// OpenFile memory-maps the file at path read-write and shared, so view
// flushes reach the file through msync.
func OpenFile(path string) (*Mapping, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close() // the mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return nil, fmt.Errorf("view: empty file %q", path)
	}
	if size > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("view: file too large to map (%d bytes)", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &Mapping{
		data: data,
		munmap: func() error {
			err := unix.Munmap(data)
			if errors.Is(err, unix.EINVAL) {
				return nil
			}
			return err
		},
		msync:  func(b []byte) error { return unix.Msync(b, unix.MS_SYNC) },
		mlock:  unix.Mlock,
		munlck: unix.Munlock,
		advise: func(b []byte) error { return unix.Madvise(b, unix.MADV_WILLNEED) },
	}, nil
}
