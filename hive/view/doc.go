// Package view manages windowed access to hive images: page-granular,
// reference-counted views over a backing that is either an in-memory
// arena or a memory-mapped hive file.
//
// A Mapping holds at most MaxViews concurrent views. Requesting a range
// already covered by a live view bumps that view's reference count;
// otherwise the range is aligned down/up to the page granularity and a
// new view is created. Unmapping the last reference flushes a dirty
// view, which for file-backed mappings is a real msync of the aligned
// range.
//
// The Registry deduplicates mappings by path so mapping the same hive
// file twice yields the same Mapping.
package view
