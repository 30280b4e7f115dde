package broadphase

import (
	"sort"
	"sync"
)

// cellKey hashes an integer (Y,Z) cell coordinate into an ascending-
// ordering-friendly key, per spec section 4.B:
// H(Y,Z) = Y*15485863 + Z*32452843 (mod 2^32).
func cellKey(y, z int32) uint64 {

	const py = 15485863
	const pz = 32452843
	h := uint64(uint32(y))*py + uint64(uint32(z))*pz
	return h & 0xFFFFFFFF
}

// gridEntry is a Grid2DEntry (spec section 3): a Collidable plus the
// last-observed integer cell range it was registered into.
type gridEntry struct {
	c                      Collidable
	minY, maxY, minZ, maxZ int32
	hasRange               bool
}

// cell holds the entries currently occupying one grid square, kept
// sorted by AABB.Min.X between sweeps.
type cell struct {
	entries []*gridEntry
}

// SortedGrid2DSet is the ordered sparse set of occupied cells keyed by
// cellKey(Y,Z). Guarded by mu during entry-side Add/Remove so
// concurrent per-entry updates (dispatched via a parallel-for) don't
// race on a shared cell's slice; the cell-update/sweep pass takes no
// lock because each worker only reads and writes cells it owns.
//
// Go has no native spinlock primitive; mu plays that role here,
// matching the spec's "serialized by a spin lock" requirement in
// spirit if not in literal implementation.
type SortedGrid2DSet struct {
	mu    sync.Mutex
	cells map[uint64]*cell
}

func newSortedGrid2DSet() *SortedGrid2DSet {

	return &SortedGrid2DSet{cells: make(map[uint64]*cell)}
}

// add inserts e into the cell at (y,z), keeping the cell's entries
// sorted by AABB.Min.X.
func (s *SortedGrid2DSet) add(y, z int32, e *gridEntry) {

	s.mu.Lock()
	defer s.mu.Unlock()
	k := cellKey(y, z)
	c := s.cells[k]
	if c == nil {
		c = &cell{}
		s.cells[k] = c
	}
	x := e.c.AABB().Min.X
	pos := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].c.AABB().Min.X >= x
	})
	c.entries = append(c.entries, nil)
	copy(c.entries[pos+1:], c.entries[pos:])
	c.entries[pos] = e
}

// remove deletes e from the cell at (y,z). Removes the cell entirely
// once it becomes empty so the occupied-cell set stays sparse.
func (s *SortedGrid2DSet) remove(y, z int32, e *gridEntry) {

	s.mu.Lock()
	defer s.mu.Unlock()
	k := cellKey(y, z)
	c := s.cells[k]
	if c == nil {
		return
	}
	for i, other := range c.entries {
		if other == e {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
	}
	if len(c.entries) == 0 {
		delete(s.cells, k)
	}
}

// sortedKeys returns the occupied cell keys in ascending order, the
// "cells are kept in ascending hash order" invariant of spec section 3
// realized at sweep time rather than maintained continuously.
func (s *SortedGrid2DSet) sortedKeys() []uint64 {

	keys := make([]uint64, 0, len(s.cells))
	for k := range s.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
