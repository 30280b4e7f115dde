package solver

import (
	"github.com/anomalousmedical/rigidphysics/body"
	"github.com/anomalousmedical/rigidphysics/constraint"
	"github.com/anomalousmedical/rigidphysics/parallel"
)

// bodyPair is implemented by constraints that couple two bodies and
// can therefore bridge two islands together; single-body constraints
// (SingleBoneConstraint) still implement it but return a nil B.
type bodyPair interface {
	Bodies() (a, b *body.RigidBody)
}

// Island is one connected component of the body-constraint graph: a
// set of constraints that only ever touch each other's bodies, so it
// can be solved on its own worker with no cross-island locking (spec
// section 4.F: "Parallel solve uses an island decomposition... each
// island runs on its own worker, with no cross-island body touches").
type Island struct {
	Constraints []constraint.Constraint
}

// BuildIslands partitions constraints into islands via union-find over
// the bodies they reference. A constraint whose Bodies() isn't
// available (doesn't implement bodyPair) is placed in its own
// singleton island, conservatively, rather than guessed at.
func BuildIslands(constraints []constraint.Constraint) []Island {

	parent := make(map[*body.RigidBody]*body.RigidBody)

	var find func(b *body.RigidBody) *body.RigidBody
	find = func(b *body.RigidBody) *body.RigidBody {
		root := b
		for parent[root] != nil && parent[root] != root {
			root = parent[root]
		}
		for parent[b] != nil && parent[b] != root {
			next := parent[b]
			parent[b] = root
			b = next
		}
		return root
	}
	union := func(a, b *body.RigidBody) {
		if a == nil || b == nil {
			return
		}
		if parent[a] == nil {
			parent[a] = a
		}
		if parent[b] == nil {
			parent[b] = b
		}
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	type edge struct {
		a, b *body.RigidBody
		c    constraint.Constraint
	}
	var edges []edge
	var singletons []constraint.Constraint

	for _, c := range constraints {
		pair, ok := c.(bodyPair)
		if !ok {
			singletons = append(singletons, c)
			continue
		}
		a, b := pair.Bodies()
		if a != nil {
			if parent[a] == nil {
				parent[a] = a
			}
		}
		if b != nil {
			if parent[b] == nil {
				parent[b] = b
			}
			union(a, b)
		}
		edges = append(edges, edge{a: a, b: b, c: c})
	}

	buckets := make(map[*body.RigidBody][]constraint.Constraint)
	for _, e := range edges {
		var root *body.RigidBody
		if e.a != nil {
			root = find(e.a)
		} else if e.b != nil {
			root = find(e.b)
		}
		buckets[root] = append(buckets[root], e.c)
	}

	islands := make([]Island, 0, len(buckets)+len(singletons))
	for _, cs := range buckets {
		islands = append(islands, Island{Constraints: cs})
	}
	for _, c := range singletons {
		islands = append(islands, Island{Constraints: []constraint.Constraint{c}})
	}
	return islands
}

// SolveIslands runs BuildIslands then solves each island independently
// via forLoop, each with its own VelocityIterations count — the
// parallel counterpart to PGS.Solve for a step with many disjoint
// contact/constraint clusters.
func SolveIslands(constraints []constraint.Constraint, velocityIterations int, forLoop parallel.ForLoop) {

	islands := BuildIslands(constraints)
	if forLoop == nil {
		forLoop = parallel.Sequential
	}
	forLoop(0, len(islands), func(i int) {
		s := NewPGS(velocityIterations)
		s.constraints = islands[i].Constraints
		s.Solve()
	})
}
