package hive

import (
	"fmt"
	"strings"

	"github.com/arizkami/aurorahive/hive/hint"
	"github.com/arizkami/aurorahive/internal/format"
)

// ValueInfo describes one value of a key.
type ValueInfo struct {
	Name string
	Type uint32
	Size int
}

func validValueType(typ uint32) bool {
	switch typ {
	case format.TypeString, format.TypeDword, format.TypeQword,
		format.TypeBinary, format.TypeMultiString:
		return true
	}
	return false
}

// findValueLocked scans a key's values list for a value by name.
func (h *Hive) findValueLocked(keyOff format.CellOffset, name string) (format.CellOffset, bool) {
	k, err := format.KeyView(h.arena, keyOff)
	if err != nil || k.ValuesList().Nil() {
		return 0, false
	}
	l, err := format.ListView(h.arena, k.ValuesList())
	if err != nil {
		return 0, false
	}
	for _, entry := range l.Entries() {
		v, err := format.ValueView(h.arena, entry)
		if err != nil {
			continue
		}
		vn, err := v.Name()
		if err != nil {
			continue
		}
		if strings.EqualFold(vn, name) {
			return entry, true
		}
	}
	return 0, false
}

// SetValue stores data under (path, name), replacing any existing value
// of that name.
func (h *Hive) SetValue(path, name string, typ uint32, data []byte) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	if !validValueType(typ) {
		return fmt.Errorf("%w: value type %d", ErrInvalidParameter, typ)
	}
	if len(name) > format.MaxNameLength {
		return fmt.Errorf("%w: value name too long", ErrInvalidParameter)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if h.readOnly {
		return fmt.Errorf("%w: set value in read-only hive", ErrAccessDenied)
	}
	keyOff, err := h.resolveLocked(segs)
	if err != nil {
		return err
	}
	if old, ok := h.findValueLocked(keyOff, name); ok {
		if err := h.unlinkValueLocked(keyOff, old); err != nil {
			return err
		}
	}

	valOff, err := h.allocateValueCell(name, typ, data)
	if err != nil {
		return err
	}
	k, err := format.KeyView(h.arena, keyOff)
	if err != nil {
		return err
	}
	listOff := k.ValuesList()
	if listOff.Nil() {
		listOff, err = h.newList()
		if err != nil {
			_ = h.freeValueCell(valOff)
			return err
		}
	}
	newListOff, err := h.listAppend(listOff, valOff)
	if err != nil {
		_ = h.freeValueCell(valOff)
		return err
	}
	k.SetValuesList(newListOff)
	k.SetValuesCount(k.ValuesCount() + 1)
	if enc, _, err := format.EncodeName(name); err == nil && uint32(len(enc)) > k.MaxValueNameLen() {
		k.SetMaxValueNameLen(uint32(len(enc)))
	}
	if uint32(len(data)) > k.MaxValueDataLen() {
		k.SetMaxValueDataLen(uint32(len(data)))
	}
	k.SetLastWriteTime(h.now())
	h.markDirty()
	return nil
}

// unlinkValueLocked removes valOff from the key's values list and frees
// it. The list cell itself is freed when it empties.
func (h *Hive) unlinkValueLocked(keyOff, valOff format.CellOffset) error {
	k, err := format.KeyView(h.arena, keyOff)
	if err != nil {
		return err
	}
	l, err := format.ListView(h.arena, k.ValuesList())
	if err != nil {
		return err
	}
	l.Remove(valOff)
	if l.Count() == 0 {
		if err := h.cells.Free(k.ValuesList()); err != nil {
			return err
		}
		k.SetValuesList(0)
	}
	k.SetValuesCount(k.ValuesCount() - 1)
	return h.freeValueCell(valOff)
}

// GetValue returns the type and a copy of the data stored under
// (path, name).
func (h *Hive) GetValue(path, name string) (uint32, []byte, error) {
	segs, err := splitPath(path)
	if err != nil {
		return 0, nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, nil, ErrClosed
	}
	keyOff, err := h.resolveLocked(segs)
	if err != nil {
		return 0, nil, err
	}
	valOff, ok := h.findValueLocked(keyOff, name)
	if !ok {
		return 0, nil, fmt.Errorf("%w: value %q", ErrNotFound, name)
	}
	v, err := format.ValueView(h.arena, valOff)
	if err != nil {
		return 0, nil, err
	}
	data, err := h.valueData(valOff)
	if err != nil {
		return 0, nil, err
	}
	h.noteAccess(hint.ValueAccess, path+`\`+name, valOff)
	return v.Type(), data, nil
}

// GetValueInto copies the value data into dst. Returns the value type
// and the data length. A short dst fails with ErrBufferTooSmall and
// still reports the needed length.
func (h *Hive) GetValueInto(path, name string, dst []byte) (uint32, int, error) {
	typ, data, err := h.GetValue(path, name)
	if err != nil {
		return 0, 0, err
	}
	if len(dst) < len(data) {
		return typ, len(data), fmt.Errorf("%w: need %d bytes, have %d",
			ErrBufferTooSmall, len(data), len(dst))
	}
	copy(dst, data)
	return typ, len(data), nil
}

// DeleteValue removes the value stored under (path, name).
func (h *Hive) DeleteValue(path, name string) error {
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
		return fmt.Errorf("%w: delete value in read-only hive", ErrAccessDenied)
	}
	keyOff, err := h.resolveLocked(segs)
	if err != nil {
		return err
	}
	valOff, ok := h.findValueLocked(keyOff, name)
	if !ok {
		return fmt.Errorf("%w: value %q", ErrNotFound, name)
	}
	if err := h.unlinkValueLocked(keyOff, valOff); err != nil {
		return err
	}
	k, err := format.KeyView(h.arena, keyOff)
	if err != nil {
		return err
	}
	k.SetLastWriteTime(h.now())
	h.markDirty()
	return nil
}

// EnumerateValues returns metadata for every value of the key at path,
// in list order.
func (h *Hive) EnumerateValues(path string) ([]ValueInfo, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	keyOff, err := h.resolveLocked(segs)
	if err != nil {
		return nil, err
	}
	k, err := format.KeyView(h.arena, keyOff)
	if err != nil {
		return nil, err
	}
	if k.ValuesList().Nil() {
		return nil, nil
	}
	l, err := format.ListView(h.arena, k.ValuesList())
	if err != nil {
		return nil, err
	}
	out := make([]ValueInfo, 0, l.Count())
	for _, entry := range l.Entries() {
		v, err := format.ValueView(h.arena, entry)
		if err != nil {
			return nil, err
		}
		name, err := v.Name()
		if err != nil {
			return nil, err
		}
		out = append(out, ValueInfo{Name: name, Type: v.Type(), Size: int(v.DataLength())})
	}
	return out, nil
}
