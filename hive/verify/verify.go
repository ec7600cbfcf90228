// Package verify runs integrity checks over a hive arena: header
// sanity, the structural cell walk, per-cell key and value checks,
// parent-chain cycle detection, and a coarse health score.
package verify

import (
	"fmt"

	"github.com/arizkami/aurorahive/internal/checksum"
	"github.com/arizkami/aurorahive/internal/format"
)

// Finding is one detected problem.
type Finding struct {
	Kind    string
	Message string
	Offset  int
}

func (f Finding) String() string {
	if f.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", f.Kind, f.Offset, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Report is the outcome of a full check.
type Report struct {
	Findings     []Finding
	CellsChecked int
	HealthScore  int
}

// Healthy reports whether no problems were found.
func (r Report) Healthy() bool { return len(r.Findings) == 0 }

// HealthScore buckets an error count into a 0-100 score.
func HealthScore(errorCount int) int {
	switch {
	case errorCount == 0:
		return 100
	case errorCount < 5:
		return 80
	case errorCount < 20:
		return 60
	case errorCount < 50:
		return 40
	default:
		return 0
	}
}

const (
	maxVisitedParents = 256
	maxParentDepth    = 256
)

// CheckHeader validates the hive header fields.
func CheckHeader(arena []byte) []Finding {
	var out []Finding
	if len(arena) < format.HeaderSize {
		return []Finding{{
			Kind:    "Header",
			Message: fmt.Sprintf("image too small: %d bytes", len(arena)),
			Offset:  -1,
		}}
	}
	hdr, err := format.HeaderView(arena)
	if err != nil {
		return []Finding{{Kind: "Header", Message: err.Error(), Offset: -1}}
	}
	if hdr.Signature() != format.HiveSignature {
		out = append(out, Finding{
			Kind:    "Header",
			Message: fmt.Sprintf("bad signature 0x%08X", hdr.Signature()),
			Offset:  format.HdrSignatureOffset,
		})
		return out
	}
	if v := hdr.MajorVersion(); v < 1 || v > 10 {
		out = append(out, Finding{
			Kind:    "Header",
			Message: fmt.Sprintf("major version %d out of range", v),
			Offset:  format.HdrMajorVersionOffset,
		})
	}
	if hdr.Length() == 0 || hdr.Length() > hdr.Size() {
		out = append(out, Finding{
			Kind:    "Header",
			Message: fmt.Sprintf("length %d vs size %d", hdr.Length(), hdr.Size()),
			Offset:  format.HdrLengthOffset,
		})
	}
	if int(hdr.Size()) != len(arena) {
		out = append(out, Finding{
			Kind:    "Header",
			Message: fmt.Sprintf("size field %d, image %d", hdr.Size(), len(arena)),
			Offset:  format.HdrSizeOffset,
		})
	}
	if rc := hdr.RootCell(); !rc.Nil() {
		if uint32(rc) >= hdr.Length() || rc < format.HeaderSize {
			out = append(out, Finding{
				Kind:    "Header",
				Message: fmt.Sprintf("root cell 0x%X outside arena", rc),
				Offset:  format.HdrRootCellOffset,
			})
		}
	}
	if !checksum.VerifyHeader(arena) {
		out = append(out, Finding{
			Kind:    "Header",
			Message: "checksum mismatch",
			Offset:  format.HdrChecksumOffset,
		})
	}
	return out
}

// CheckKeyCell validates one key cell's payload and references.
func CheckKeyCell(arena []byte, off format.CellOffset) []Finding {
	var out []Finding
	k, err := format.KeyView(arena, off)
	if err != nil {
		return []Finding{{Kind: "KeyCell", Message: err.Error(), Offset: int(off)}}
	}
	if n := int(k.NameLength()); n == 0 || n > format.MaxNameLength {
		out = append(out, Finding{
			Kind:    "KeyCell",
			Message: fmt.Sprintf("name length %d", n),
			Offset:  int(off),
		})
	}
	if _, err := k.Name(); err != nil {
		out = append(out, Finding{Kind: "KeyCell", Message: err.Error(), Offset: int(off)})
	}
	for _, ref := range []struct {
		what string
		off  format.CellOffset
	}{
		{"parent", k.Parent()},
		{"subkeys list", k.SubKeysList()},
		{"values list", k.ValuesList()},
		{"security", k.Security()},
	} {
		if ref.off.Nil() {
			continue
		}
		if ref.off < format.HeaderSize || int(ref.off) >= len(arena) {
			out = append(out, Finding{
				Kind:    "KeyCell",
				Message: fmt.Sprintf("%s reference 0x%X outside arena", ref.what, ref.off),
				Offset:  int(off),
			})
		}
	}
	return out
}

// CheckValueCell validates one value cell's payload and data reference.
func CheckValueCell(arena []byte, off format.CellOffset) []Finding {
	var out []Finding
	v, err := format.ValueView(arena, off)
	if err != nil {
		return []Finding{{Kind: "ValueCell", Message: err.Error(), Offset: int(off)}}
	}
	if n := int(v.NameLength()); n > format.MaxNameLength {
		out = append(out, Finding{
			Kind:    "ValueCell",
			Message: fmt.Sprintf("name length %d", n),
			Offset:  int(off),
		})
	}
	if v.DataLength() > format.MaxValueSize {
		out = append(out, Finding{
			Kind:    "ValueCell",
			Message: fmt.Sprintf("data length %d over limit", v.DataLength()),
			Offset:  int(off),
		})
	}
	if !v.Inline() {
		d := format.CellOffset(v.DataOffset())
		if d.Nil() || d < format.HeaderSize || int(d) >= len(arena) {
			out = append(out, Finding{
				Kind:    "ValueCell",
				Message: fmt.Sprintf("data reference 0x%X outside arena", d),
				Offset:  int(off),
			})
		}
	}
	return out
}

// CheckCircularParents walks the parent chain from off looking for a
// cycle, bounded by a visited set and a depth cap.
func CheckCircularParents(arena []byte, off format.CellOffset) *Finding {
	visited := make(map[format.CellOffset]struct{}, maxVisitedParents)
	cur := off
	for depth := 0; depth < maxParentDepth; depth++ {
		if cur.Nil() {
			return nil
		}
		if _, seen := visited[cur]; seen {
			return &Finding{
				Kind:    "ParentChain",
				Message: fmt.Sprintf("cycle through 0x%X", cur),
				Offset:  int(off),
			}
		}
		if len(visited) >= maxVisitedParents {
			return nil
		}
		visited[cur] = struct{}{}
		k, err := format.KeyView(arena, cur)
		if err != nil {
			return &Finding{Kind: "ParentChain", Message: err.Error(), Offset: int(cur)}
		}
		cur = k.Parent()
	}
	return &Finding{
		Kind:    "ParentChain",
		Message: fmt.Sprintf("depth over %d", maxParentDepth),
		Offset:  int(off),
	}
}

// Run performs the full integrity check: header first (a bad signature
// aborts immediately), then the structural walk, which stops at the
// first broken cell while per-cell findings accumulate.
func Run(arena []byte) Report {
	var r Report
	r.Findings = CheckHeader(arena)
	if len(arena) < format.HeaderSize {
		r.HealthScore = HealthScore(len(r.Findings))
		return r
	}
	hdr, _ := format.HeaderView(arena)
	if hdr.Signature() != format.HiveSignature {
		r.HealthScore = HealthScore(len(r.Findings))
		return r
	}

	off := format.CellOffset(format.HeaderSize)
	end := format.CellOffset(len(arena))
	for off < end {
		c, err := format.ParseCell(arena, off)
		if err != nil {
			r.Findings = append(r.Findings, Finding{
				Kind:    "Structure",
				Message: err.Error(),
				Offset:  int(off),
			})
			break
		}
		r.CellsChecked++
		if c.Allocated() {
			switch c.Signature {
			case format.SigKey:
				r.Findings = append(r.Findings, CheckKeyCell(arena, off)...)
				if f := CheckCircularParents(arena, off); f != nil {
					r.Findings = append(r.Findings, *f)
				}
			case format.SigValue:
				r.Findings = append(r.Findings, CheckValueCell(arena, off)...)
			}
		}
		off = c.End()
	}
	r.HealthScore = HealthScore(len(r.Findings))
	return r
}
