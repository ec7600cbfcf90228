package hive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arizkami/aurorahive/hive/hint"
	"github.com/arizkami/aurorahive/internal/format"
)

// Options configures a Manager. Zero values pick defaults.
type Options struct {
	// DefaultSize is the arena size used by Create when the caller
	// passes 0. Defaults to DefaultSize (64 KiB).
	DefaultSize int

	// Clock supplies timestamps. Defaults to wall-clock nanoseconds.
	Clock func() uint64

	// Hints is the shared access-hint cache. Defaults to a fresh cache.
	Hints *hint.Cache
}

// Manager owns the set of loaded hives, keyed case-insensitively by
// name, and the shared hint cache.
type Manager struct {
	mu          sync.Mutex
	hives       map[string]*Hive
	defaultSize int
	clock       func() uint64
	hints       *hint.Cache
}

// NewManager returns an empty manager.
func NewManager(opts Options) *Manager {
	m := &Manager{
		hives:       make(map[string]*Hive),
		defaultSize: opts.DefaultSize,
		clock:       opts.Clock,
		hints:       opts.Hints,
	}
	if m.defaultSize == 0 {
		m.defaultSize = DefaultSize
	}
	if m.clock == nil {
		m.clock = func() uint64 { return uint64(time.Now().UnixNano()) }
	}
	if m.hints == nil {
		m.hints = hint.NewCache(hint.DefaultCapacity, nil)
	}
	return m
}

// Hints returns the manager's hint cache.
func (m *Manager) Hints() *hint.Cache { return m.hints }

func nameKey(name string) string { return strings.ToLower(name) }

// Create builds a fresh hive of the given size (0 means the manager
// default) and registers it under name.
func (m *Manager) Create(name string, size int) (*Hive, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty hive name", ErrInvalidParameter)
	}
	if size == 0 {
		size = m.defaultSize
	}
	arena, err := createArena(name, size, m.clock)
	if err != nil {
		return nil, err
	}
	h, err := newHive(name, arena, false, m.clock)
	if err != nil {
		return nil, err
	}
	return m.register(h)
}

// Load validates image (signature, size, checksum, structure, in that
// order) and registers the hive under name. The image is used in place.
// An image whose header carries the read-only flag always loads
// read-only, whatever the caller asked for.
func (m *Manager) Load(name string, image []byte, readOnly bool) (*Hive, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty hive name", ErrInvalidParameter)
	}
	if err := validateImage(image); err != nil {
		return nil, err
	}
	if hdr, err := format.HeaderView(image); err == nil &&
		hdr.Flags()&format.HiveFlagReadOnly != 0 {
		readOnly = true
	}
	h, err := newHive(name, image, readOnly, m.clock)
	if err != nil {
		return nil, err
	}
	return m.register(h)
}

func (m *Manager) register(h *Hive) (*Hive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := nameKey(h.name)
	if _, ok := m.hives[key]; ok {
		return nil, fmt.Errorf("%w: hive %q", ErrExists, h.name)
	}
	h.mgr = m
	m.hives[key] = h
	return h, nil
}

// FindByName returns the loaded hive with the given name, taking a new
// reference the caller must Close.
func (m *Manager) FindByName(name string) (*Hive, error) {
	m.mu.Lock()
	h, ok := m.hives[nameKey(name)]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: hive %q", ErrNotFound, name)
	}
	h.Ref()
	return h, nil
}

// Enumerate returns the names of all loaded hives, sorted.
func (m *Manager) Enumerate() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.hives))
	for _, h := range m.hives {
		out = append(out, h.name)
	}
	sort.Strings(out)
	return out
}

// remove unregisters a fully closed hive and drops its hints.
func (m *Manager) remove(h *Hive) {
	m.mu.Lock()
	if cur, ok := m.hives[nameKey(h.name)]; ok && cur == h {
		delete(m.hives, nameKey(h.name))
	}
	m.mu.Unlock()
	m.hints.RemoveOwner(h.name)
}

// Shutdown force-closes every hive regardless of reference count,
// flushing dirty writable ones. Errors are collected, not short
// circuited.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	all := make([]*Hive, 0, len(m.hives))
	for _, h := range m.hives {
		all = append(all, h)
	}
	m.mu.Unlock()

	var errs []error
	for _, h := range all {
		h.mu.Lock()
		h.refs = 1
		h.mu.Unlock()
		if err := h.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("hive %q: %w", h.name, err))
		}
	}
	return errors.Join(errs...)
}
