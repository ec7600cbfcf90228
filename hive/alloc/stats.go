package alloc

import "github.com/arizkami/aurorahive/internal/format"

// Stats summarizes cell usage across an arena.
type Stats struct {
	TotalCells     int
	AllocatedCells int
	FreeCells      int
	AllocatedBytes int
	FreeBytes      int
	LargestFree    int
	KeyCells       int
	ValueCells     int
	DataCells      int
	ListCells      int
}

// Stats walks the arena and counts cells by state and signature.
func (a *Allocator) Stats() (Stats, error) {
	var s Stats
	err := a.Walk(func(c format.Cell) bool {
		s.TotalCells++
		if c.Allocated() {
			s.AllocatedCells++
			s.AllocatedBytes += c.Span()
			switch c.Signature {
			case format.SigKey:
				s.KeyCells++
			case format.SigValue:
				s.ValueCells++
			case format.SigData:
				s.DataCells++
			case format.SigList:
				s.ListCells++
			}
		} else {
			s.FreeCells++
			s.FreeBytes += c.Span()
			if c.Span() > s.LargestFree {
				s.LargestFree = c.Span()
			}
		}
		return true
	})
	return s, err
}
