package impulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestSolveSingleContact(t *testing.T) {
	A := mat.NewSymDense(1, []float64{2})
	j := make([]float64, 1)
	solver := &ProjectedGaussSeidel{}

	status := solver.Solve(A, j, []float64{-4}, []bool{false}, 0)
	assert.Equal(t, SOLVE_OK, status)
	assert.InDelta(t, 2.0, j[0], 1e-12)
}

func TestSolveSeparatingContact(t *testing.T) {
	// already separating: complementarity demands zero impulse
	A := mat.NewSymDense(1, []float64{2})
	j := make([]float64, 1)
	solver := &ProjectedGaussSeidel{}

	status := solver.Solve(A, j, []float64{3}, []bool{false}, 0)
	assert.Equal(t, SOLVE_OK, status)
	assert.Equal(t, 0.0, j[0])
}

func TestSolveJointRowAllowsNegativeImpulse(t *testing.T) {
	A := mat.NewSymDense(1, []float64{2})
	j := make([]float64, 1)
	solver := &ProjectedGaussSeidel{}

	status := solver.Solve(A, j, []float64{4}, []bool{true}, 0)
	assert.Equal(t, SOLVE_OK, status)
	assert.InDelta(t, -2.0, j[0], 1e-12)
}

func TestSolveCoupledContacts(t *testing.T) {
	A := mat.NewSymDense(2, []float64{
		2.5, -0.5,
		-0.5, 2.5,
	})
	b := []float64{-1.5, -1.5}
	j := make([]float64, 2)
	solver := &ProjectedGaussSeidel{}

	status := solver.Solve(A, j, b, []bool{false, false}, 0)
	assert.Equal(t, SOLVE_OK, status)
	assert.InDelta(t, 0.75, j[0], 1e-4)
	assert.InDelta(t, 0.75, j[1], 1e-4)

	for i := range j {
		a := residual(A, j, b, i)
		assert.InDelta(t, 0.0, a, RESIDUAL_TOLERANCE)
	}
}

func TestSolveComplementarity(t *testing.T) {
	// one approaching, one separating: only the first may carry impulse
	A := mat.NewSymDense(2, []float64{
		2, 0.1,
		0.1, 2,
	})
	b := []float64{-2, 1}
	j := make([]float64, 2)
	solver := &ProjectedGaussSeidel{}

	status := solver.Solve(A, j, b, []bool{false, false}, 0)
	assert.Equal(t, SOLVE_OK, status)
	assert.Greater(t, j[0], 0.0)
	assert.Equal(t, 0.0, j[1])
	assert.GreaterOrEqual(t, residual(A, j, b, 1), -RESIDUAL_TOLERANCE)
}

func TestSolveDegenerateRowReportsWorst(t *testing.T) {
	// zero diagonal with residual approach velocity cannot be solved
	A := mat.NewSymDense(1, []float64{0})
	j := make([]float64, 1)
	solver := &ProjectedGaussSeidel{MaxSweeps: 8}

	status := solver.Solve(A, j, []float64{-1}, []bool{false}, 0)
	assert.Equal(t, 0, status)
	assert.Equal(t, 0.0, j[0])
}

func TestRowViolation(t *testing.T) {
	assert.Equal(t, 0.5, row_violation(-0.5, 0, false))
	assert.Equal(t, 0.0, row_violation(0.5, 0, false))
	assert.Equal(t, 0.5, row_violation(0.5, 1, false))
	assert.Equal(t, 0.5, row_violation(0.5, 0, true))
	assert.Equal(t, 0.5, row_violation(-0.5, 0, true))
}
