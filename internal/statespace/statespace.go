// Package statespace builds the continuous-time linear model of the two-mass
// quarter car.
//
// States are relative to static equilibrium:
//
//	x1 unsprung displacement   x2 unsprung velocity
//	x3 sprung displacement     x4 sprung velocity
//
// The single input is the road height under the tire; the outputs are the
// unsprung and sprung displacements.
package statespace

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mohammadijoo/quarter_car_go/internal/params"
)

// ErrDegenerate is returned when a mass is not strictly positive.
var ErrDegenerate = errors.New("statespace: degenerate model (mass must be positive)")

// Output row indices of C and D.
const (
	OutUnsprung = 0
	OutSprung   = 1
)

// Model is the (A, B, C, D) quadruple of a linear time-invariant system.
// It is never mutated after construction.
type Model struct {
	A *mat.Dense
	B *mat.Dense
	C *mat.Dense
	D *mat.Dense
}

// New constructs the quarter car model for p.
func New(p params.Set) (*Model, error) {
	M, m := p.SprungMass, p.UnsprungMass
	if !(M > 0) || !(m > 0) {
		return nil, fmt.Errorf("%w: M=%g, m=%g", ErrDegenerate, M, m)
	}
	Ks, Cs, Kt := p.Ks, p.Cs, p.Kt

	A := mat.NewDense(4, 4, []float64{
		0, 1, 0, 0,
		-(Ks + Kt) / m, -Cs / m, Ks / m, Cs / m,
		0, 0, 0, 1,
		Ks / M, Cs / M, -Ks / M, -Cs / M,
	})
	B := mat.NewDense(4, 1, []float64{0, Kt / m, 0, 0})
	C := mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 0, 1, 0,
	})
	D := mat.NewDense(2, 1, nil)

	return &Model{A: A, B: B, C: C, D: D}, nil
}

// Dims returns the number of states, inputs and outputs.
func (m *Model) Dims() (states, inputs, outputs int) {
	states, _ = m.A.Dims()
	_, inputs = m.B.Dims()
	outputs, _ = m.C.Dims()
	return states, inputs, outputs
}

// Check verifies the matrix shapes agree with each other.
func (m *Model) Check() error {
	n, k, p := m.Dims()
	if r, c := m.A.Dims(); r != c {
		return fmt.Errorf("statespace: A is %dx%d, want square", r, c)
	}
	if r, _ := m.B.Dims(); r != n {
		return fmt.Errorf("statespace: B has %d rows, want %d", r, n)
	}
	if _, c := m.C.Dims(); c != n {
		return fmt.Errorf("statespace: C has %d columns, want %d", c, n)
	}
	if r, c := m.D.Dims(); r != p || c != k {
		return fmt.Errorf("statespace: D is %dx%d, want %dx%d", r, c, p, k)
	}
	return nil
}

// DCGain returns the steady-state output for a unit constant input,
// -C A^-1 B + D.
func (m *Model) DCGain() (*mat.Dense, error) {
	var aInvB mat.Dense
	if err := aInvB.Solve(m.A, m.B); err != nil {
		return nil, fmt.Errorf("statespace: A is singular: %w", err)
	}
	var g mat.Dense
	g.Mul(m.C, &aInvB)
	g.Scale(-1, &g)
	g.Add(&g, m.D)
	return &g, nil
}
