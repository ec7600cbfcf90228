package hive

import "github.com/arizkami/aurorahive/hive/verify"

// CheckIntegrity runs the full verification pass over the hive arena.
// The stored header checksum is only current after a flush, so a dirty
// hive reports a checksum finding until flushed.
func (h *Hive) CheckIntegrity() (verify.Report, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return verify.Report{}, ErrClosed
	}
	return verify.Run(h.arena), nil
}
