package alloc

import "github.com/arizkami/aurorahive/internal/format"

// FreeSpaceStats summarizes the free cells of an arena.
type FreeSpaceStats struct {
	Blocks       int
	TotalBytes   int
	LargestBytes int
}

// Extent is one contiguous free region.
type Extent struct {
	Offset format.CellOffset
	Size   int
}

// FreeSpace walks the arena and summarizes its free cells.
func (a *Allocator) FreeSpace() (FreeSpaceStats, error) {
	var s FreeSpaceStats
	err := a.Walk(func(c format.Cell) bool {
		if !c.Allocated() {
			s.Blocks++
			s.TotalBytes += c.Span()
			if c.Span() > s.LargestBytes {
				s.LargestBytes = c.Span()
			}
		}
		return true
	})
	return s, err
}

// FreeSpaceMap returns every free extent in arena order.
func (a *Allocator) FreeSpaceMap() ([]Extent, error) {
	var out []Extent
	err := a.Walk(func(c format.Cell) bool {
		if !c.Allocated() {
			out = append(out, Extent{Offset: c.Offset, Size: c.Span()})
		}
		return true
	})
	return out, err
}

// FragmentationLevel scores free-space fragmentation from 0 (none) to
// 100 (severe). The score weighs the free block count against the free
// volume and penalizes a small largest block.
func (a *Allocator) FragmentationLevel() (int, error) {
	s, err := a.FreeSpace()
	if err != nil {
		return 0, err
	}
	if s.TotalBytes == 0 {
		return 0, nil
	}
	freeKB := s.TotalBytes / 1024
	score := s.Blocks * 100 / (freeKB + 1)
	largestPct := s.LargestBytes * 100 / s.TotalBytes
	score += 100 - largestPct
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score, nil
}

// Defragment merges adjacent free cells until no merge is possible.
// Returns the number of merges performed.
func (a *Allocator) Defragment() (int, error) {
	merged := 0
	for {
		n, err := a.defragPass()
		if err != nil {
			return merged, err
		}
		if n == 0 {
			break
		}
		merged += n
	}
	if merged > 0 {
		a.mutated()
	}
	return merged, nil
}

func (a *Allocator) defragPass() (int, error) {
	n := 0
	off := format.CellOffset(format.HeaderSize)
	for off < a.end() {
		c, err := format.ParseCell(a.arena, off)
		if err != nil {
			return n, err
		}
		if !c.Allocated() && c.End() < a.end() {
			nc, err := format.ParseCell(a.arena, c.End())
			if err != nil {
				return n, err
			}
			if !nc.Allocated() {
				format.PutCell(a.arena, off, int32(c.Span()+nc.Span()), format.SigFree, 0)
				n++
				continue
			}
		}
		off = c.End()
	}
	return n, nil
}

// Optimize defragments the free space and then compacts the arena.
func (a *Allocator) Optimize() error {
	if _, err := a.Defragment(); err != nil {
		return err
	}
	_, err := a.Compact()
	return err
}
