package format

import (
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/arizkami/aurorahive/internal/buf"
)

// EncodeName encodes a key or value name for storage. Names that fit
// Windows-1252 are stored as single bytes with NameFlagCompressed set;
// anything else is stored as UTF-16LE.
func EncodeName(name string) ([]byte, uint16, error) {
	if name == "" {
		return nil, NameFlagCompressed, nil
	}
	if enc, err := charmap.Windows1252.NewEncoder().Bytes([]byte(name)); err == nil {
		if len(enc) > MaxNameLength {
			return nil, 0, fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(enc))
		}
		return enc, NameFlagCompressed, nil
	}
	units := utf16.Encode([]rune(name))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		buf.PutU16LE(out[i*2:], u)
	}
	if len(out) > MaxNameLength {
		return nil, 0, fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(out))
	}
	return out, 0, nil
}

// DecodeName reverses EncodeName using the stored flag bits.
func DecodeName(raw []byte, flags uint16) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if flags&NameFlagCompressed != 0 {
		dec, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadName, err)
		}
		return string(dec), nil
	}
	if len(raw)%2 != 0 {
		return "", fmt.Errorf("%w: odd UTF-16 length %d", ErrBadName, len(raw))
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = buf.U16LE(raw[i*2:])
	}
	return string(utf16.Decode(units)), nil
}
