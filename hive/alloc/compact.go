package alloc

import (
	"github.com/arizkami/aurorahive/internal/format"
)

// Compact slides every allocated cell toward the header, leaving one
// free cell spanning the remainder of the arena, and rewrites every
// stored offset (root pointers, parent links, list entries, external
// data references) to the cells' new homes. Returns the number of cells
// that moved.
func (a *Allocator) Compact() (int, error) {
	var cells []format.Cell
	err := a.Walk(func(c format.Cell) bool {
		if c.Allocated() {
			cells = append(cells, c)
		}
		return true
	})
	if err != nil {
		return 0, err
	}

	remap := make(map[format.CellOffset]format.CellOffset)
	moved := 0
	w := format.CellOffset(format.HeaderSize)
	for _, c := range cells {
		span := c.Span()
		if c.Offset != w {
			copy(a.arena[w:int(w)+span], a.arena[c.Offset:int(c.Offset)+span])
			remap[c.Offset] = w
			moved++
		}
		w += format.CellOffset(span)
	}
	rewroteTail := false
	if w < a.end() {
		c, err := format.ParseCell(a.arena, w)
		if err != nil || c.Allocated() || format.CellOffset(c.Span()) != a.end()-w {
			format.PutCell(a.arena, w, int32(a.end()-w), format.SigFree, 0)
			rewroteTail = true
		}
	}

	if moved > 0 {
		if err := a.remapReferences(remap); err != nil {
			return moved, err
		}
	}
	if moved > 0 || rewroteTail {
		a.mutated()
	}
	return moved, nil
}

// CompactedSize returns the image size a compacted copy of the arena
// would occupy: the header, every allocated cell, and one trailing free
// block.
func (a *Allocator) CompactedSize() (int, error) {
	used := format.HeaderSize
	err := a.Walk(func(c format.Cell) bool {
		if c.Allocated() {
			used += c.Span()
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	return used + format.BlockSize, nil
}

func mapped(remap map[format.CellOffset]format.CellOffset, o format.CellOffset) format.CellOffset {
	if n, ok := remap[o]; ok {
		return n
	}
	return o
}

// remapReferences rewrites every stored cell offset after a compaction
// move.
func (a *Allocator) remapReferences(remap map[format.CellOffset]format.CellOffset) error {
	hdr, err := format.HeaderView(a.arena)
	if err != nil {
		return err
	}
	hdr.SetRootCell(mapped(remap, hdr.RootCell()))
	hdr.SetRootKey(mapped(remap, hdr.RootKey()))

	return a.Walk(func(c format.Cell) bool {
		if !c.Allocated() {
			return true
		}
		switch c.Signature {
		case format.SigKey:
			k, err := format.KeyView(a.arena, c.Offset)
			if err != nil {
				return true
			}
			k.SetParent(mapped(remap, k.Parent()))
			k.SetSubKeysList(mapped(remap, k.SubKeysList()))
			k.SetValuesList(mapped(remap, k.ValuesList()))
		case format.SigValue:
			v, err := format.ValueView(a.arena, c.Offset)
			if err != nil {
				return true
			}
			if !v.Inline() && v.DataOffset() != 0 {
				v.SetDataOffset(uint32(mapped(remap, format.CellOffset(v.DataOffset()))))
			}
		case format.SigList:
			l, err := format.ListView(a.arena, c.Offset)
			if err != nil {
				return true
			}
			for i := 0; i < int(l.Count()); i++ {
				old := l.Entry(i)
				if n, ok := remap[old]; ok {
					l.SetEntry(i, n)
				}
			}
		}
		return true
	})
}
