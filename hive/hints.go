package hive

import (
	"github.com/arizkami/aurorahive/hive/hint"
	"github.com/arizkami/aurorahive/internal/format"
)

// UpdateHints scans the key tree and seeds frequent-path hints for keys
// with wide fanout. A hive without a manager has nowhere to put hints
// and returns nil.
func (h *Hive) UpdateHints() error {
	if h.mgr == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	root := h.hdr.RootKey()
	if root.Nil() {
		return nil
	}
	rootName, err := h.keyName(root)
	if err != nil {
		return err
	}
	var shapes []hint.KeyShape
	if err := h.collectShapesLocked(root, rootName, &shapes); err != nil {
		return err
	}
	h.mgr.hints.UpdateFrom(h.name, shapes)
	return nil
}

func (h *Hive) collectShapesLocked(off format.CellOffset, path string, out *[]hint.KeyShape) error {
	k, err := format.KeyView(h.arena, off)
	if err != nil {
		return err
	}
	*out = append(*out, hint.KeyShape{
		Path:    path,
		Offset:  uint32(off),
		SubKeys: int(k.SubKeysCount()),
		Values:  int(k.ValuesCount()),
	})
	if k.SubKeysList().Nil() {
		return nil
	}
	l, err := format.ListView(h.arena, k.SubKeysList())
	if err != nil {
		return err
	}
	for _, child := range l.Entries() {
		name, err := h.keyName(child)
		if err != nil {
			return err
		}
		if err := h.collectShapesLocked(child, path+`\`+name, out); err != nil {
			return err
		}
	}
	return nil
}
