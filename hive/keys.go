package hive

import (
	"fmt"
	"strings"

	"github.com/arizkami/aurorahive/hive/hint"
	"github.com/arizkami/aurorahive/internal/format"
)

// KeyInfo describes a key without exposing its cell offset.
type KeyInfo struct {
	Name          string
	SubKeys       int
	Values        int
	LastWriteTime uint64
}

// splitPath breaks a backslash path into components. Empty paths and
// empty components are rejected.
func splitPath(path string) ([]string, error) {
	segs := strings.Split(strings.Trim(path, `\`), `\`)
	if len(segs) == 0 || segs[0] == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidParameter)
	}
	for _, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("%w: empty path component in %q", ErrInvalidParameter, path)
		}
		if len(s) > format.MaxNameLength {
			return nil, fmt.Errorf("%w: component %q too long", ErrInvalidParameter, s)
		}
	}
	return segs, nil
}

// keyName decodes the name of the key cell at off.
func (h *Hive) keyName(off format.CellOffset) (string, error) {
	k, err := format.KeyView(h.arena, off)
	if err != nil {
		return "", err
	}
	return k.Name()
}

// findChildLocked scans a key's subkeys list for a child by name,
// case-insensitively.
func (h *Hive) findChildLocked(keyOff format.CellOffset, name string) (format.CellOffset, bool) {
	k, err := format.KeyView(h.arena, keyOff)
	if err != nil || k.SubKeysList().Nil() {
		return 0, false
	}
	l, err := format.ListView(h.arena, k.SubKeysList())
	if err != nil {
		return 0, false
	}
	for _, entry := range l.Entries() {
		childName, err := h.keyName(entry)
		if err != nil {
			continue
		}
		if strings.EqualFold(childName, name) {
			return entry, true
		}
	}
	return 0, false
}

// resolveLocked walks segs from the root key. The first component names
// the root itself.
func (h *Hive) resolveLocked(segs []string) (format.CellOffset, error) {
	root := h.hdr.RootKey()
	if root.Nil() {
		return 0, fmt.Errorf("%w: hive has no root key", ErrNotFound)
	}
	rootName, err := h.keyName(root)
	if err != nil {
		return 0, err
	}
	if !strings.EqualFold(rootName, segs[0]) {
		return 0, fmt.Errorf("%w: root key is %q, not %q", ErrNotFound, rootName, segs[0])
	}
	cur := root
	for _, seg := range segs[1:] {
		child, ok := h.findChildLocked(cur, seg)
		if !ok {
			return 0, fmt.Errorf("%w: key %q", ErrNotFound, seg)
		}
		cur = child
	}
	return cur, nil
}

// createChildLocked allocates a key cell under parent and links it into
// the parent's subkeys list.
func (h *Hive) createChildLocked(parent format.CellOffset, name string) (format.CellOffset, error) {
	child, err := h.allocateKeyCell(name, parent)
	if err != nil {
		return 0, err
	}
	pk, err := format.KeyView(h.arena, parent)
	if err != nil {
		return 0, err
	}
	listOff := pk.SubKeysList()
	if listOff.Nil() {
		listOff, err = h.newList()
		if err != nil {
			_ = h.cells.Free(child)
			return 0, err
		}
	}
	newListOff, err := h.listAppend(listOff, child)
	if err != nil {
		_ = h.cells.Free(child)
		return 0, err
	}
	pk.SetSubKeysList(newListOff)
	pk.SetSubKeysCount(pk.SubKeysCount() + 1)
	if enc, _, err := format.EncodeName(name); err == nil && uint32(len(enc)) > pk.MaxNameLen() {
		pk.SetMaxNameLen(uint32(len(enc)))
	}
	pk.SetLastWriteTime(h.now())
	return child, nil
}

// CreateKey creates the key at path, building intermediate keys as
// needed. The first key ever created becomes the hive's root key.
// Creating an existing key is a no-op.
func (h *Hive) CreateKey(path string) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if h.readOnly {
		return fmt.Errorf("%w: create key in read-only hive", ErrAccessDenied)
	}

	cur := h.hdr.RootKey()
	if cur.Nil() {
		cur, err = h.allocateKeyCell(segs[0], 0)
		if err != nil {
			return err
		}
		h.hdr.SetRootKey(cur)
		h.hdr.SetRootCell(cur)
	} else {
		rootName, err := h.keyName(cur)
		if err != nil {
			return err
		}
		if !strings.EqualFold(rootName, segs[0]) {
			return fmt.Errorf("%w: root key is %q, not %q", ErrNotFound, rootName, segs[0])
		}
	}
	for _, seg := range segs[1:] {
		child, ok := h.findChildLocked(cur, seg)
		if !ok {
			child, err = h.createChildLocked(cur, seg)
			if err != nil {
				return err
			}
		}
		cur = child
	}
	h.markDirty()
	return nil
}

// FindKey resolves path and returns the key's metadata.
func (h *Hive) FindKey(path string) (KeyInfo, error) {
	segs, err := splitPath(path)
	if err != nil {
		return KeyInfo{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return KeyInfo{}, ErrClosed
	}
	off, err := h.resolveLocked(segs)
	if err != nil {
		return KeyInfo{}, err
	}
	k, err := format.KeyView(h.arena, off)
	if err != nil {
		return KeyInfo{}, err
	}
	name, err := k.Name()
	if err != nil {
		return KeyInfo{}, err
	}
	h.noteAccess(hint.KeyAccess, path, off)
	return KeyInfo{
		Name:          name,
		SubKeys:       int(k.SubKeysCount()),
		Values:        int(k.ValuesCount()),
		LastWriteTime: k.LastWriteTime(),
	}, nil
}

// DeleteKey removes the key at path. The key must have no subkeys and
// no values. Deleting the root key clears the hive's root pointers.
func (h *Hive) DeleteKey(path string) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if h.readOnly {
		return fmt.Errorf("%w: delete key in read-only hive", ErrAccessDenied)
	}
	off, err := h.resolveLocked(segs)
	if err != nil {
		return err
	}
	k, err := format.KeyView(h.arena, off)
	if err != nil {
		return err
	}
	if k.SubKeysCount() > 0 || k.ValuesCount() > 0 {
		return fmt.Errorf("%w: key %q has %d subkeys, %d values",
			ErrNotEmpty, segs[len(segs)-1], k.SubKeysCount(), k.ValuesCount())
	}

	if parent := k.Parent(); !parent.Nil() {
		pk, err := format.KeyView(h.arena, parent)
		if err != nil {
			return err
		}
		l, err := format.ListView(h.arena, pk.SubKeysList())
		if err != nil {
			return err
		}
		l.Remove(off)
		if l.Count() == 0 {
			if err := h.cells.Free(pk.SubKeysList()); err != nil {
				return err
			}
			pk.SetSubKeysList(0)
		}
		pk.SetSubKeysCount(pk.SubKeysCount() - 1)
		pk.SetLastWriteTime(h.now())
	} else {
		h.hdr.SetRootKey(0)
		h.hdr.SetRootCell(0)
	}
	if err := h.freeKeyCell(off); err != nil {
		return err
	}
	h.markDirty()
	return nil
}

// EnumerateKeys returns the names of path's immediate subkeys in list
// order.
func (h *Hive) EnumerateKeys(path string) ([]string, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	off, err := h.resolveLocked(segs)
	if err != nil {
		return nil, err
	}
	k, err := format.KeyView(h.arena, off)
	if err != nil {
		return nil, err
	}
	if k.SubKeysList().Nil() {
		return nil, nil
	}
	l, err := format.ListView(h.arena, k.SubKeysList())
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, l.Count())
	for _, entry := range l.Entries() {
		name, err := h.keyName(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// noteAccess records an access hint when the hive belongs to a manager.
func (h *Hive) noteAccess(t hint.Type, path string, off format.CellOffset) {
	if h.mgr != nil {
		h.mgr.hints.Add(h.name, t, path, uint32(off))
	}
}
