// Package format defines the on-disk layout of hive images: the hive
// header, cell headers, key and value cell payloads, list cells, and the
// persisted file wrapper. All integers are little-endian and all offsets
// are absolute within the hive arena.
package format

// Hive header.
const (
	// HiveSignature is "regf" as a little-endian uint32.
	HiveSignature = 0x66676572

	// HeaderSize is the fixed size of the hive header block.
	HeaderSize = 4096

	// BlockSize is the allocation granularity of hive images.
	BlockSize = 4096

	HdrSignatureOffset         = 0x00
	HdrPrimarySequenceOffset   = 0x04
	HdrSecondarySequenceOffset = 0x08
	HdrLastWriteTimeOffset     = 0x0C
	HdrTimestampOffset         = 0x14
	HdrMajorVersionOffset      = 0x1C
	HdrMinorVersionOffset      = 0x20
	HdrVersionOffset           = 0x24
	HdrTypeOffset              = 0x28
	HdrFormatOffset            = 0x2C
	HdrFlagsOffset             = 0x30
	HdrRootCellOffset          = 0x34
	HdrRootKeyOffset           = 0x38
	HdrLengthOffset            = 0x3C
	HdrSizeOffset              = 0x40
	HdrClusterOffset           = 0x44
	HdrFileNameOffset          = 0x48
	HdrFileNameLen             = 64
	HdrChecksumOffset          = 0x88
	HdrReservedOffset          = 0x8C
)

// Cell header.
const (
	CellHeaderSize = 8

	CellSizeOffset      = 0x00
	CellSignatureOffset = 0x04
	CellFlagsOffset     = 0x06

	// CellAlignment is the required alignment of cell spans.
	CellAlignment = 8
)

// Cell signatures.
const (
	SigFree     uint16 = 0x0000
	SigKey      uint16 = 0x6B6E // "nk"
	SigValue    uint16 = 0x6B76 // "vk"
	SigList     uint16 = 0x666C // "lf"
	SigData     uint16 = 0x6264 // "db"
	SigSecurity uint16 = 0x6B73 // "sk"
)

// Key cell payload offsets (relative to the end of the cell header).
const (
	KeyFlagsOffset           = 0x00
	KeyLastWriteTimeOffset   = 0x02
	KeyParentOffset          = 0x0A
	KeySubKeysCountOffset    = 0x0E
	KeyVolatileCountOffset   = 0x12
	KeySubKeysListOffset     = 0x16
	KeyVolatileListOffset    = 0x1A
	KeyValuesCountOffset     = 0x1E
	KeyValuesListOffset      = 0x22
	KeySecurityOffset        = 0x26
	KeySecurityCellOffset    = 0x2A
	KeyClassOffset           = 0x2E
	KeyClassCellOffset       = 0x32
	KeyMaxNameLenOffset      = 0x36
	KeyMaxClassLenOffset     = 0x3A
	KeyMaxValueNameLenOffset = 0x3E
	KeyMaxValueDataLenOffset = 0x42
	KeyNameLengthOffset      = 0x46
	KeyClassLengthOffset     = 0x48
	KeyNameOffset            = 0x4A
	KeyFixedSize             = 0x4A
)

// Value cell payload offsets.
const (
	ValueNameLengthOffset = 0x00
	ValueDataLengthOffset = 0x02
	ValueDataOffsetOffset = 0x06
	ValueTypeOffset       = 0x0A
	ValueFlagsOffset      = 0x0E
	ValueNameOffset       = 0x10
	ValueFixedSize        = 0x10

	// ValueInlineMax is the largest data length stored inline in the
	// DataOffset field instead of a separate data cell.
	ValueInlineMax = 4
)

// List cell payload offsets.
const (
	ListCountOffset    = 0x00
	ListCapacityOffset = 0x02
	ListEntriesOffset  = 0x04
	ListEntrySize      = 4

	// ListInitialCapacity is the entry capacity of a freshly allocated list.
	ListInitialCapacity = 4
)

// Persisted file wrapper header.
const (
	FileHeaderSize = 32

	FileSignatureOffset = 0x00
	FileVersionOffset   = 0x04
	FileHiveSizeOffset  = 0x08
	FileChecksumOffset  = 0x0C
	FileTimestampOffset = 0x10
	FileFlagsOffset     = 0x18
	FileReservedOffset  = 0x1C
)

// Limits.
const (
	MaxNameLength = 255
	MaxValueSize  = 1 << 20
	MaxClassSize  = 255
)

// Name flag bits.
const (
	// NameFlagCompressed marks a name stored as single-byte Windows-1252
	// rather than UTF-16LE.
	NameFlagCompressed uint16 = 0x0020
)

// Value types.
const (
	TypeString      uint32 = 1
	TypeDword       uint32 = 2
	TypeQword       uint32 = 3
	TypeBinary      uint32 = 4
	TypeMultiString uint32 = 5
)

// Hive flags.
const (
	HiveFlagDirty            uint32 = 0x0001
	HiveFlagReadOnly         uint32 = 0x0002
	HiveFlagLoadedFromBackup uint32 = 0x0004
)
