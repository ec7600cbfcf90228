// Package alloc manages the cell arena of a hive image.
//
// The arena begins after the 4096-byte hive header and is tiled edge to
// edge with cells. Each cell starts with an 8-byte header whose signed
// size field encodes both span and state: negative for allocated cells,
// positive for free ones. Allocation is first-fit with block splitting;
// freeing coalesces with both neighbors so adjacent free cells never
// persist across an operation.
//
// The package also provides the maintenance passes built on the same
// walk: compaction (slide allocated cells toward the header and leave a
// single trailing free cell, remapping every stored offset),
// defragmentation (coalesce to a fixed point), free-space statistics,
// and the fragmentation score.
//
// Allocator instances are not safe for concurrent use. Callers
// synchronize externally, normally through the owning hive handle.
package alloc
