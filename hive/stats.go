package hive

// Statistics is a point-in-time summary of a hive's space usage.
type Statistics struct {
	Name           string
	Size           int
	AllocatedBytes int
	FreeBytes      int
	TotalCells     int
	AllocatedCells int
	FreeCells      int
	KeyCells       int
	ValueCells     int
	DataCells      int
	ListCells      int
	LargestFree    int

	// FragmentationPercent is the share of cells that are free. The
	// weighted free-space score lives on FragmentationLevel.
	FragmentationPercent int

	Dirty    bool
	ReadOnly bool
}

// Statistics walks the arena and summarizes it.
func (h *Hive) Statistics() (Statistics, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return Statistics{}, ErrClosed
	}
	cs, err := h.cells.Stats()
	if err != nil {
		return Statistics{}, err
	}
	s := Statistics{
		Name:           h.name,
		Size:           len(h.arena),
		AllocatedBytes: cs.AllocatedBytes,
		FreeBytes:      cs.FreeBytes,
		TotalCells:     cs.TotalCells,
		AllocatedCells: cs.AllocatedCells,
		FreeCells:      cs.FreeCells,
		KeyCells:       cs.KeyCells,
		ValueCells:     cs.ValueCells,
		DataCells:      cs.DataCells,
		ListCells:      cs.ListCells,
		LargestFree:    cs.LargestFree,
		Dirty:          h.dirty,
		ReadOnly:       h.readOnly,
	}
	if cs.TotalCells > 0 {
		s.FragmentationPercent = cs.FreeCells * 100 / cs.TotalCells
	}
	return s, nil
}
