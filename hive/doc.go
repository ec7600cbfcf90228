// Package hive implements a registry-style hierarchical store over a
// single contiguous arena: a 4096-byte header followed by a cell heap
// holding key, value, list, and data cells.
//
// A Manager owns the set of loaded hives and hands out reference-counted
// *Hive handles. The handle exposes the full lifecycle (create, load,
// flush, close), path-level key and value operations, statistics, and
// persistence to wrapper files on disk.
//
// Paths use backslash separators and resolve case-insensitively from the
// hive's root key, whose name is the first path component:
//
//	h, _ := mgr.Create("SYSTEM", 64*1024)
//	_, _ = h.CreateKey(`NTCore\Drivers`)
//	_ = h.SetString(`NTCore\Drivers`, "BootPath", `\Boot`)
//
// Hive handles serialize their own arena access and are safe for
// concurrent use. Cross-operation consistency (read a value, decide,
// write it back) is the job of the tx package.
package hive
