package hive

import (
	"fmt"
	"strings"

	"github.com/arizkami/aurorahive/internal/buf"
	"github.com/arizkami/aurorahive/internal/format"
)

// Typed accessors over SetValue/GetValue. Getters fail with ErrBadType
// when the stored value has a different type.

// SetString stores s as a string value.
func (h *Hive) SetString(path, name, s string) error {
	return h.SetValue(path, name, format.TypeString, []byte(s))
}

// GetString reads a string value.
func (h *Hive) GetString(path, name string) (string, error) {
	typ, data, err := h.GetValue(path, name)
	if err != nil {
		return "", err
	}
	if typ != format.TypeString {
		return "", fmt.Errorf("%w: %q is type %d", ErrBadType, name, typ)
	}
	return string(data), nil
}

// SetDword stores v as a 32-bit value.
func (h *Hive) SetDword(path, name string, v uint32) error {
	var b [4]byte
	buf.PutU32LE(b[:], v)
	return h.SetValue(path, name, format.TypeDword, b[:])
}

// GetDword reads a 32-bit value.
func (h *Hive) GetDword(path, name string) (uint32, error) {
	typ, data, err := h.GetValue(path, name)
	if err != nil {
		return 0, err
	}
	if typ != format.TypeDword || len(data) != 4 {
		return 0, fmt.Errorf("%w: %q is type %d", ErrBadType, name, typ)
	}
	return buf.U32LE(data), nil
}

// SetQword stores v as a 64-bit value.
func (h *Hive) SetQword(path, name string, v uint64) error {
	var b [8]byte
	buf.PutU64LE(b[:], v)
	return h.SetValue(path, name, format.TypeQword, b[:])
}

// GetQword reads a 64-bit value.
func (h *Hive) GetQword(path, name string) (uint64, error) {
	typ, data, err := h.GetValue(path, name)
	if err != nil {
		return 0, err
	}
	if typ != format.TypeQword || len(data) != 8 {
		return 0, fmt.Errorf("%w: %q is type %d", ErrBadType, name, typ)
	}
	return buf.U64LE(data), nil
}

// SetBinary stores raw bytes.
func (h *Hive) SetBinary(path, name string, data []byte) error {
	return h.SetValue(path, name, format.TypeBinary, data)
}

// GetBinary reads raw bytes.
func (h *Hive) GetBinary(path, name string) ([]byte, error) {
	typ, data, err := h.GetValue(path, name)
	if err != nil {
		return nil, err
	}
	if typ != format.TypeBinary {
		return nil, fmt.Errorf("%w: %q is type %d", ErrBadType, name, typ)
	}
	return data, nil
}

// SetMultiString stores values as a NUL-joined, double-NUL-terminated
// list.
func (h *Hive) SetMultiString(path, name string, values []string) error {
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(v)
		sb.WriteByte(0)
	}
	sb.WriteByte(0)
	return h.SetValue(path, name, format.TypeMultiString, []byte(sb.String()))
}

// GetMultiString reads a NUL-joined string list.
func (h *Hive) GetMultiString(path, name string) ([]string, error) {
	typ, data, err := h.GetValue(path, name)
	if err != nil {
		return nil, err
	}
	if typ != format.TypeMultiString {
		return nil, fmt.Errorf("%w: %q is type %d", ErrBadType, name, typ)
	}
	trimmed := strings.TrimRight(string(data), "\x00")
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "\x00"), nil
}
