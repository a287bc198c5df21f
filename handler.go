package impulse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// CollisionHandling selects the impulse resolution strategy.
type CollisionHandling int

const (
	// Solve every contact as one coupled system. Accurate for balanced
	// collisions (a block landing flat) but couples independent events,
	// which is wrong for chained collisions.
	HANDLING_SIMULTANEOUS CollisionHandling = iota
	// Serial resolution of the focus contact together with its joint
	// closure and any currently-large contacts on the same bodies.
	HANDLING_HYBRID
	// Serial resolution of one focus contact at a time.
	HANDLING_SERIAL_SEPARATE
	// Serial resolution of the focus contact plus its joint closure.
	HANDLING_SERIAL_GROUPED
	HANDLING_SERIAL_SEPARATE_LASTPASS
	HANDLING_SERIAL_GROUPED_LASTPASS
)

func (h CollisionHandling) String() string {
	switch h {
	case HANDLING_SIMULTANEOUS:
		return "simultaneous"
	case HANDLING_HYBRID:
		return "hybrid"
	case HANDLING_SERIAL_SEPARATE:
		return "serialSeparate"
	case HANDLING_SERIAL_GROUPED:
		return "serialGrouped"
	case HANDLING_SERIAL_SEPARATE_LASTPASS:
		return "serialSeparateLastPass"
	case HANDLING_SERIAL_GROUPED_LASTPASS:
		return "serialGroupedLastPass"
	}
	return fmt.Sprintf("CollisionHandling(%d)", int(h))
}

const (
	// PANIC_LIMIT_FACTOR·n serial iterations without quiescence doubles the
	// working velocity tolerance, trading accuracy for progress on
	// ill-conditioned contact sets.
	PANIC_LIMIT_FACTOR = 20
	// ITERATION_CEILING bounds a single serial resolution outright.
	ITERATION_CEILING = 100000
)

type serialOptions struct {
	grouped  bool
	hybrid   bool
	lastPass bool
}

func (h CollisionHandling) serialOptions() serialOptions {
	switch h {
	case HANDLING_HYBRID:
		return serialOptions{grouped: true, hybrid: true}
	case HANDLING_SERIAL_GROUPED:
		return serialOptions{grouped: true}
	case HANDLING_SERIAL_SEPARATE_LASTPASS:
		return serialOptions{lastPass: true}
	case HANDLING_SERIAL_GROUPED_LASTPASS:
		return serialOptions{grouped: true, lastPass: true}
	}
	return serialOptions{}
}

// handle_simultaneous assembles the full influence matrix, solves the coupled
// complementarity problem once and applies the resulting impulses.
func (space *Space) handle_simultaneous(contacts []*Contact, totals *Totals) (bool, error) {
	n := len(contacts)
	A := influence_matrix(contacts)
	b := make([]float64, n)
	j := make([]float64, n)
	joints := make([]bool, n)
	for k, con := range contacts {
		if con.Joint {
			b[k] = con.NormalVelocity
		} else {
			b[k] = con.NormalVelocity * (1 + con.Elasticity)
		}
		joints[k] = con.Joint
	}

	status := space.Solver.Solve(A, j, b, joints, space.SimulationTime)
	if err := space.verify_solve(A, j, b, joints, status); err != nil {
		return false, err
	}
	if totals != nil {
		totals.Iterations++
	}

	applied := false
	for k, con := range contacts {
		if apply_contact_impulse(con, j[k]) {
			space.discontinuous = true
		}
		if j[k] > TINY_IMPULSE {
			applied = true
		}
	}
	return applied, nil
}

// handle_serial simulates a rapid sequence of binary collisions, as if every
// contact were separated by an infinitesimal gap, until the system is quiet.
// Each iteration picks a focus contact with residual approach velocity,
// resolves it (together with its coupled neighbourhood when grouping is on)
// against the precomputed influence matrix, and folds the sub-solve impulses
// into the running totals. Body velocities are only touched once, at the end.
func (space *Space) handle_serial(contacts []*Contact, totals *Totals, opts serialOptions) (bool, error) {
	n := len(contacts)
	A := influence_matrix(contacts)

	b := make([]float64, n)  // current normal velocity per contact
	e := make([]float64, n)  // effective elasticity per contact
	j2 := make([]float64, n) // cumulative impulse per contact
	for k, con := range contacts {
		b[k] = con.NormalVelocity
		if opts.grouped && con.Joint {
			e[k] = 0
		} else {
			e[k] = con.Elasticity
		}
	}

	// sub-system scratch, reused every iteration
	js := make([]float64, n)
	bs := make([]float64, n)
	joints := make([]bool, n)

	tol := space.params.SmallVelocity
	panicLimit := PANIC_LIMIT_FACTOR * n

	iterations := 0
	lastPassDone := false
	for {
		iterations++
		if iterations > ITERATION_CEILING {
			space.Logger.Error("serial impulse resolution hit the iteration ceiling",
				"contacts", n, "tolerance", tol, "time", space.SimulationTime)
			return false, fmt.Errorf("%w: %d contacts at t=%g",
				ErrIterationCeiling, n, space.SimulationTime)
		}
		if space.params.Panic && iterations%panicLimit == 0 {
			tol *= 2
			space.Logger.Warn("relaxing velocity tolerance",
				"iteration", iterations, "tolerance", tol, "time", space.SimulationTime)
		}

		focus, found := space.select_focus(contacts, b, tol)
		last := false
		if !found {
			if !opts.lastPass || lastPassDone {
				break
			}
			// one final inelastic sweep over every contact
			lastPassDone = true
			last = true
		}

		var subset []int
		switch {
		case last:
			subset = make([]int, n)
			for k := range subset {
				subset[k] = k
			}
		case opts.grouped || opts.hybrid:
			subset = joint_closure(contacts, b, focus, opts.hybrid, tol)
		default:
			subset = []int{focus}
		}

		m := len(subset)
		sub := mat.NewSymDense(m, nil)
		for row, g := range subset {
			for col := row; col < m; col++ {
				sub.SetSym(row, col, A.At(g, subset[col]))
			}
			bs[row] = b[g]
			if !last {
				bs[row] *= 1 + e[g]
			}
			joints[row] = contacts[g].Joint
		}

		status := space.Solver.Solve(sub, js[:m], bs[:m], joints[:m], space.SimulationTime)
		if err := space.verify_solve(sub, js[:m], bs[:m], joints[:m], status); err != nil {
			return false, err
		}

		for row, g := range subset {
			j2[g] += js[row]
		}
		for i := 0; i < n; i++ {
			for row, g := range subset {
				b[i] += A.At(i, g) * js[row]
			}
		}
	}

	if totals != nil {
		totals.Iterations += iterations
	}

	applied := false
	collision := false
	for k, con := range contacts {
		if apply_contact_impulse(con, j2[k]) {
			space.discontinuous = true
		}
		if !con.Joint {
			collision = true
		}
		if j2[k] > TINY_IMPULSE {
			applied = true
		}
	}
	return applied && collision, nil
}

// select_focus walks the contacts in a fresh random order and returns the
// first one with residual approach velocity (or, for a joint, any residual
// velocity). The permutation changes every iteration so no contact can be
// starved by a fixed visiting order.
func (space *Space) select_focus(contacts []*Contact, b []float64, tol float64) (int, bool) {
	for _, f := range space.rng.Perm(len(contacts)) {
		if contacts[f].Joint {
			if math.Abs(b[f]) > tol {
				return f, true
			}
		} else if b[f] < -tol {
			return f, true
		}
	}
	return 0, false
}

// joint_closure collects the contacts that must be solved together with the
// focus: every joint sharing a movable body with the growing set, iterated to
// fixpoint, plus (in hybrid mode) any currently-large non-joint contact on
// those bodies. Immovable bodies transmit no influence and do not link
// contacts.
func joint_closure(contacts []*Contact, b []float64, focus int, hybrid bool, tol float64) []int {
	included := make([]bool, len(contacts))
	bodies := map[*Body]bool{}
	include := func(k int) {
		included[k] = true
		for _, body := range []*Body{contacts[k].PrimaryBody, contacts[k].NormalBody} {
			if !body.IsStatic() {
				bodies[body] = true
			}
		}
	}
	include(focus)

	for changed := true; changed; {
		changed = false
		for k, con := range contacts {
			if included[k] {
				continue
			}
			if !bodies[con.PrimaryBody] && !bodies[con.NormalBody] {
				continue
			}
			if con.Joint || (hybrid && math.Abs(b[k]) > tol) {
				include(k)
				changed = true
			}
		}
	}

	subset := make([]int, 0, len(contacts))
	for k, in := range included {
		if in {
			subset = append(subset, k)
		}
	}
	return subset
}

// verify_solve re-checks the solver's result against the complementarity
// contract: rows that must be at rest (joints, and unilateral rows carrying
// impulse) may not exceed RESIDUAL_TOLERANCE. A solver status that reports a
// bad row whose residual is actually inside tolerance is only worth a warning.
func (space *Space) verify_solve(A mat.Symmetric, j, b []float64, joints []bool, status int) error {
	for i := range j {
		if !joints[i] && j[i] <= 0 {
			continue
		}
		a := residual(A, j, b, i)
		if math.Abs(a) > RESIDUAL_TOLERANCE {
			return fmt.Errorf("%w: row %d residual %g at t=%g",
				ErrResidual, i, a, space.SimulationTime)
		}
	}
	if status != SOLVE_OK {
		space.Logger.Warn("solver reported a failure inside tolerance",
			"row", status, "time", space.SimulationTime)
	}
	return nil
}
