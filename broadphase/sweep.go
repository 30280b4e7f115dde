package broadphase

import (
	"github.com/anomalousmedical/rigidphysics/logging"
	"github.com/anomalousmedical/rigidphysics/parallel"
)

// Grid2DSortAndSweep is the kernel's broad phase: a 2D grid on (Y,Z)
// with per-cell sort-and-sweep on X, per spec section 4.B.
type Grid2DSortAndSweep struct {
	CellSize    float32
	invCellSize float32

	set     *SortedGrid2DSet
	entries map[uint64]*gridEntry

	forLoop parallel.ForLoop

	pairs      []Pair
	emitted    map[pairID]struct{}
	log        *logging.Logger
}

type pairID struct{ a, b uint64 }

func orderedPairID(a, b uint64) pairID {

	if a < b {
		return pairID{a, b}
	}
	return pairID{b, a}
}

// New creates a broad phase with the given cell size and parallel-for
// dispatcher. A nil forLoop defaults to parallel.Sequential.
func New(cellSize float32, forLoop parallel.ForLoop) *Grid2DSortAndSweep {

	if forLoop == nil {
		forLoop = parallel.Sequential
	}
	return &Grid2DSortAndSweep{
		CellSize:    cellSize,
		invCellSize: 1 / cellSize,
		set:         newSortedGrid2DSet(),
		entries:     make(map[uint64]*gridEntry),
		forLoop:     forLoop,
		emitted:     make(map[pairID]struct{}),
		log:         logging.New("broadphase", logging.Default),
	}
}

// Add registers a collidable with the broad phase. Its AABB is not
// consulted until the next Update call.
func (g *Grid2DSortAndSweep) Add(c Collidable) {

	g.entries[c.ID()] = &gridEntry{c: c}
}

// Remove deregisters a collidable from the broad phase and every cell
// it currently occupies (spec section 3 lifecycle: "destroyed on
// removal, which must deregister from all cells").
func (g *Grid2DSortAndSweep) Remove(c Collidable) {

	e, ok := g.entries[c.ID()]
	if !ok {
		return
	}
	if e.hasRange {
		g.forEachCell(e, func(y, z int32) { g.set.remove(y, z, e) })
	}
	delete(g.entries, c.ID())
}

func (g *Grid2DSortAndSweep) forEachCell(e *gridEntry, fn func(y, z int32)) {

	for y := e.minY; y <= e.maxY; y++ {
		for z := e.minZ; z <= e.maxZ; z++ {
			fn(y, z)
		}
	}
}

func (g *Grid2DSortAndSweep) cellCoords(e *gridEntry) (minY, maxY, minZ, maxZ int32) {

	box := e.c.AABB()
	if !box.Valid() {
		g.log.Fatal("broadphase: collidable %d has an invalid AABB (min must be <= max, no NaNs)", e.c.ID())
	}
	minY = int32(floorf(box.Min.Y * g.invCellSize))
	maxY = int32(floorf(box.Max.Y * g.invCellSize))
	minZ = int32(floorf(box.Min.Z * g.invCellSize))
	maxZ = int32(floorf(box.Max.Z * g.invCellSize))
	return
}

func floorf(v float32) float32 {

	i := float32(int32(v))
	if v < 0 && i != v {
		return i - 1
	}
	return i
}

// updateEntry is the per-tick entry-side update (spec section 4.B):
// recompute cell occupancy, remove from stale cells, insert into new
// ones. Safe to run concurrently across distinct entries since each
// entry only ever touches its own gridEntry state; cross-entry
// mutation of shared cells is serialized by SortedGrid2DSet's lock.
func (g *Grid2DSortAndSweep) updateEntry(e *gridEntry) {

	newMinY, newMaxY, newMinZ, newMaxZ := g.cellCoords(e)

	if e.hasRange {
		g.forEachCell(e, func(y, z int32) {
			if y < newMinY || y > newMaxY || z < newMinZ || z > newMaxZ {
				g.set.remove(y, z, e)
			}
		})
	}

	oldMinY, oldMaxY, oldMinZ, oldMaxZ := e.minY, e.maxY, e.minZ, e.maxZ
	oldHasRange := e.hasRange
	for y := newMinY; y <= newMaxY; y++ {
		for z := newMinZ; z <= newMaxZ; z++ {
			inOld := oldHasRange && y >= oldMinY && y <= oldMaxY && z >= oldMinZ && z <= oldMaxZ
			if !inOld {
				g.set.add(y, z, e)
			}
		}
	}

	e.minY, e.maxY, e.minZ, e.maxZ = newMinY, newMaxY, newMinZ, newMaxZ
	e.hasRange = true
}

// Update runs one broad-phase tick: refreshes every entry's cell
// occupancy (parallel across entries), then sweeps every occupied
// cell on X (parallel across cells), returning the set of candidate
// overlapping pairs. The returned slice is reused across calls and
// must not be retained past the next Update.
func (g *Grid2DSortAndSweep) Update() []Pair {

	all := make([]*gridEntry, 0, len(g.entries))
	for _, e := range g.entries {
		all = append(all, e)
	}
	g.forLoop(0, len(all), func(i int) {
		g.updateEntry(all[i])
	})

	keys := g.set.sortedKeys()
	g.pairs = g.pairs[:0]
	for k := range g.emitted {
		delete(g.emitted, k)
	}

	type bucket []Pair
	buckets := make([]bucket, len(keys))
	g.forLoop(0, len(keys), func(i int) {
		buckets[i] = g.sweepCell(g.set.cells[keys[i]])
	})

	for _, b := range buckets {
		for _, p := range b {
			if p.A.ID() > p.B.ID() {
				p.A, p.B = p.B, p.A
			}
			id := orderedPairID(p.A.ID(), p.B.ID())
			if _, dup := g.emitted[id]; dup {
				continue
			}
			g.emitted[id] = struct{}{}
			g.pairs = append(g.pairs, p)
		}
	}
	return g.pairs
}

// sweepCell runs sort-and-sweep on X within one cell, per spec
// section 4.B. Insertion sort is used because entries are expected to
// already be nearly sorted frame-to-frame (temporal coherence).
func (g *Grid2DSortAndSweep) sweepCell(c *cell) []Pair {

	if c == nil {
		return nil
	}
	insertionSortByMinX(c.entries)

	var out []Pair
	for i := 0; i < len(c.entries); i++ {
		ei := c.entries[i]
		boxI := ei.c.AABB()
		for j := i + 1; j < len(c.entries); j++ {
			ej := c.entries[j]
			boxJ := ej.c.AABB()
			if boxJ.Min.X > boxI.Max.X {
				break
			}
			if !needTest(ei.c, ej.c) {
				continue
			}
			if boxJ.Min.Y > boxI.Max.Y || boxJ.Max.Y < boxI.Min.Y {
				continue
			}
			if boxJ.Min.Z > boxI.Max.Z || boxJ.Max.Z < boxI.Min.Z {
				continue
			}
			out = append(out, Pair{A: ei.c, B: ej.c})
		}
	}
	return out
}

func insertionSortByMinX(entries []*gridEntry) {

	for i := 1; i < len(entries); i++ {
		cur := entries[i]
		x := cur.c.AABB().Min.X
		j := i - 1
		for j >= 0 && entries[j].c.AABB().Min.X > x {
			entries[j+1] = entries[j]
			j--
		}
		entries[j+1] = cur
	}
}
