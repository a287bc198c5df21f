package impulse

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// SOLVE_OK is returned by a Solver when every row satisfies its
	// constraint within tolerance.
	SOLVE_OK = -1

	// RESIDUAL_TOLERANCE bounds |A·j + b| on rows that must come to rest:
	// joint rows, and unilateral rows carrying a positive impulse.
	RESIDUAL_TOLERANCE = 1e-4
)

// Solver computes impulses for a mixed linear complementarity problem. Given
// the influence matrix A and the pre-impulse velocities b, it writes impulses
// into j such that for the post-solve velocities a = A·j + b:
//
//   - non-joint rows: j[i] ≥ 0, a[i] ≥ 0 and j[i]·a[i] = 0
//   - joint rows: a[i] = 0, j[i] unconstrained in sign
//
// Solve returns SOLVE_OK on full success, or the index of the row with the
// worst residual. The time argument is a simulation-time hint carried through
// for diagnostics only.
type Solver interface {
	Solve(A mat.Symmetric, j, b []float64, joint []bool, time float64) int
}

// ProjectedGaussSeidel is the default Solver: Gauss-Seidel sweeps with the
// impulse projected onto j ≥ 0 for unilateral rows. The influence matrix of
// any physical contact set is symmetric positive semidefinite, for which the
// projected iteration converges.
type ProjectedGaussSeidel struct {
	// MaxSweeps bounds the iteration; 0 means 64·n sweeps.
	MaxSweeps int
	// Tolerance is the termination residual; 0 means 1e-9. The default is
	// well inside RESIDUAL_TOLERANCE so that rows this solver settles also
	// pass the serial loop's much finer quiescence test instead of being
	// re-selected as focus forever.
	Tolerance float64
}

func (solver *ProjectedGaussSeidel) Solve(A mat.Symmetric, j, b []float64, joint []bool, time float64) int {
	n := len(b)
	for i := range j {
		j[i] = 0
	}
	if n == 0 {
		return SOLVE_OK
	}

	tol := solver.Tolerance
	if tol == 0 {
		tol = 1e-9
	}
	maxSweeps := solver.MaxSweeps
	if maxSweeps == 0 {
		maxSweeps = 64 * n
	}

	worstRow := 0
	for sweep := 0; sweep < maxSweeps; sweep++ {
		for i := 0; i < n; i++ {
			d := A.At(i, i)
			if d <= 0 {
				// degenerate row, leave it to the caller's residual policy
				continue
			}
			a := residual(A, j, b, i)
			ji := j[i] - a/d
			if !joint[i] && ji < 0 {
				ji = 0
			}
			j[i] = ji
		}

		worst := 0.0
		worstRow = 0
		for i := 0; i < n; i++ {
			v := row_violation(residual(A, j, b, i), j[i], joint[i])
			if v > worst {
				worst = v
				worstRow = i
			}
		}
		if worst <= tol {
			return SOLVE_OK
		}
	}
	return worstRow
}

// residual computes a[i] = (A·j + b)[i].
func residual(A mat.Symmetric, j, b []float64, i int) float64 {
	a := b[i]
	for k := range j {
		a += A.At(i, k) * j[k]
	}
	return a
}

// row_violation measures how far a row is from satisfying its constraint:
// joints must be at rest, unilateral rows must not approach, and a unilateral
// row carrying impulse must be at rest (complementarity).
func row_violation(a, j float64, joint bool) float64 {
	if joint {
		return math.Abs(a)
	}
	v := math.Max(0, -a)
	if j > 0 {
		v = math.Max(v, math.Abs(a))
	}
	return v
}
