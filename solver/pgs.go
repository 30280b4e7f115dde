// Package solver implements the kernel's projected Gauss-Seidel
// constraint solver (spec section 4.F): warm start, K velocity
// iterations in deterministic insertion order. It has no
// position-iteration pass. Grounded on
// g3n-engine/physics/solver/{solver,gs}.go for the overall shape — an
// ordered equation slice run through Gauss-Seidel iterations — adapted
// from the teacher's literal per-equation SPOOK math (now owned by
// constraint.Constraint implementations) to simply sequencing
// constraint.Constraint's contract.
package solver

import "github.com/anomalousmedical/rigidphysics/constraint"

// PGS is a projected-Gauss-Seidel solver over an ordered, insertion-
// stable list of constraints, matching the teacher's Solver's
// AddEquation/RemoveEquation/ClearEquations equation-list management.
type PGS struct {
	constraints []constraint.Constraint

	// VelocityIterations is K (spec: "K ≈ 10").
	VelocityIterations int
}

// NewPGS creates a solver with the given number of velocity iterations.
func NewPGS(velocityIterations int) *PGS {

	return &PGS{VelocityIterations: velocityIterations}
}

// Add appends c to the solver's constraint list. Order is preserved
// and never rebalanced mid-iteration, per spec section 4.F's
// determinism requirement.
func (s *PGS) Add(c constraint.Constraint) {

	s.constraints = append(s.constraints, c)
}

// Remove deletes c from the list if present. Returns true if found.
func (s *PGS) Remove(c constraint.Constraint) bool {

	for i, cur := range s.constraints {
		if cur == c {
			copy(s.constraints[i:], s.constraints[i+1:])
			s.constraints[len(s.constraints)-1] = nil
			s.constraints = s.constraints[:len(s.constraints)-1]
			return true
		}
	}
	return false
}

// Clear removes every constraint from the solver.
func (s *PGS) Clear() {

	s.constraints = s.constraints[:0]
}

// Len returns the number of constraints currently in the solver.
func (s *PGS) Len() int {

	return len(s.constraints)
}

// Solve runs one full solve: ComputeEffectiveMass + WarmStart once per
// constraint, then VelocityIterations passes of SolveVelocityIteration
// in insertion order (spec section 4.F, steps 2-4).
func (s *PGS) Solve() {

	for _, c := range s.constraints {
		c.ComputeEffectiveMass()
	}
	for _, c := range s.constraints {
		c.WarmStart()
	}
	for iter := 0; iter < s.VelocityIterations; iter++ {
		for _, c := range s.constraints {
			c.SolveVelocityIteration()
		}
	}
}
