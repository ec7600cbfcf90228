package hive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arizkami/aurorahive/hive/alloc"
	"github.com/arizkami/aurorahive/internal/checksum"
	"github.com/arizkami/aurorahive/internal/format"
)

// FileVersion is the persisted wrapper format version.
const FileVersion = 1

// nameFromPath derives a hive name from a file path: the base name with
// its extension stripped.
func nameFromPath(p string) string {
	base := filepath.Base(p)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// buildFileImage wraps arena in a persisted file image with the wrapper
// checksum filled in.
func buildFileImage(arena []byte, timestamp uint64, flags uint32) ([]byte, error) {
	image := make([]byte, format.FileHeaderSize+len(arena))
	fh := format.FileHeader{
		Signature: format.HiveSignature,
		Version:   FileVersion,
		HiveSize:  uint32(len(arena)),
		Timestamp: timestamp,
		Flags:     flags,
	}
	if err := fh.Put(image); err != nil {
		return nil, err
	}
	copy(image[format.FileHeaderSize:], arena)
	fh.Checksum = checksum.File(image)
	if err := fh.Put(image); err != nil {
		return nil, err
	}
	return image, nil
}

// writeFileAtomic writes data to path through a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".hive-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Save writes the hive image to path inside the persisted file wrapper.
// The in-memory state is not flushed first; use Backup for
// flush-then-save.
func (h *Hive) Save(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	image, err := buildFileImage(h.arena, h.now(), 0)
	h.mu.Unlock()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, image)
}

// Backup flushes the hive and then saves it to path.
func (h *Hive) Backup(ctx context.Context, path string) error {
	if err := h.Flush(ctx); err != nil {
		return err
	}
	return h.Save(ctx, path)
}

// SaveCompacted writes a minimal copy of the hive to path: allocated
// cells packed behind the header and one block-aligned trailing free
// cell. The live hive is untouched.
func (h *Hive) SaveCompacted(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	work := make([]byte, len(h.arena))
	copy(work, h.arena)
	now := h.now()
	h.mu.Unlock()

	a := alloc.New(work, nil)
	if _, err := a.Compact(); err != nil {
		return err
	}
	used := format.HeaderSize
	err := a.Walk(func(c format.Cell) bool {
		if c.Allocated() {
			used += c.Span()
		}
		return true
	})
	if err != nil {
		return err
	}
	total := (used + format.BlockSize + format.BlockSize - 1) &^ (format.BlockSize - 1)

	out := make([]byte, total)
	copy(out, work[:used])
	format.PutCell(out, format.CellOffset(used), int32(total-used), format.SigFree, 0)
	hdr, err := format.HeaderView(out)
	if err != nil {
		return err
	}
	hdr.SetLength(uint32(total))
	hdr.SetSize(uint32(total))
	hdr.SetLastWriteTime(now)
	hdr.SetChecksum(checksum.Header(out))

	image, err := buildFileImage(out, now, 0)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, image)
}

// loadFileImage validates a persisted file and returns its arena bytes.
func loadFileImage(data []byte) ([]byte, format.FileHeader, error) {
	fh, err := format.ParseFileHeader(data)
	if err != nil {
		return nil, fh, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if fh.Signature != format.HiveSignature {
		return nil, fh, fmt.Errorf("%w: file signature 0x%08X", ErrInvalidSignature, fh.Signature)
	}
	if int(fh.HiveSize) != len(data)-format.FileHeaderSize {
		return nil, fh, fmt.Errorf("%w: wrapper says %d, file holds %d",
			ErrSizeMismatch, fh.HiveSize, len(data)-format.FileHeaderSize)
	}
	if checksum.File(data) != fh.Checksum {
		return nil, fh, fmt.Errorf("%w: file checksum", ErrChecksumMismatch)
	}
	return data[format.FileHeaderSize:], fh, nil
}

// LoadFile reads a persisted hive file and registers it under its file
// name.
func (m *Manager) LoadFile(path string, readOnly bool) (*Hive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	arena, _, err := loadFileImage(data)
	if err != nil {
		return nil, err
	}
	return m.Load(nameFromPath(path), arena, readOnly)
}

// LoadWithBackup tries the primary file first and falls back to the
// backup, marking the hive as loaded from backup on fallback.
func (m *Manager) LoadWithBackup(path, backupPath string, readOnly bool) (*Hive, error) {
	h, primaryErr := m.LoadFile(path, readOnly)
	if primaryErr == nil {
		return h, nil
	}
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return nil, fmt.Errorf("primary: %w; backup: %v", primaryErr, err)
	}
	arena, _, err := loadFileImage(data)
	if err != nil {
		return nil, fmt.Errorf("primary: %w; backup: %v", primaryErr, err)
	}
	h, err = m.Load(nameFromPath(path), arena, readOnly)
	if err != nil {
		return nil, fmt.Errorf("primary: %w; backup: %v", primaryErr, err)
	}
	h.fromBackup = true
	h.hdr.SetFlags(h.hdr.Flags() | format.HiveFlagLoadedFromBackup)
	return h, nil
}
