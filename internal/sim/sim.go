// Package sim drives a linear state-space model with a sampled input signal
// and turns the quarter car outputs into absolute heights.
package sim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mohammadijoo/quarter_car_go/internal/statespace"
)

var (
	// ErrDimension indicates mismatched grid, input or model dimensions.
	ErrDimension = errors.New("sim: dimension mismatch")

	// ErrUnstable indicates the response contains NaN or Inf.
	ErrUnstable = errors.New("sim: simulation unstable (NaN or Inf in output)")
)

// SimulationError wraps a failure with the sample where it was detected.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("at step %d (t=%.4f s): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error { return e.Wrapped }

// Result is the sampled output trajectory of one simulation.
// Output[k] holds every model output at Time[k].
type Result struct {
	Time   []float64
	Output [][]float64
}

// Len returns the number of samples.
func (r *Result) Len() int { return len(r.Time) }

// Series returns output channel i as its own slice.
func (r *Result) Series(i int) []float64 {
	out := make([]float64, len(r.Output))
	for k, row := range r.Output {
		out[k] = row[i]
	}
	return out
}

// Grid is the fixed time base of a run. Samples per simulated second are
// FrameRate/PlaybackSpeed, so a playback speed of 0.5 yields a 2x slow-motion
// animation when frames are shown at FrameRate.
type Grid struct {
	FrameRate     float64 `mapstructure:"frameRate"`     // nominal display rate (frames/s)
	PlaybackSpeed float64 `mapstructure:"playbackSpeed"` // playback multiplier
	Duration      float64 `mapstructure:"duration"`      // simulated time (s)
}

// DefaultGrid returns 30 fps at half speed over 10 s.
func DefaultGrid() Grid {
	return Grid{FrameRate: 30, PlaybackSpeed: 0.5, Duration: 10}
}

// Step returns the sample spacing in seconds.
func (g Grid) Step() float64 { return g.PlaybackSpeed / g.FrameRate }

// Len returns the number of samples.
func (g Grid) Len() int {
	return int(math.Round(g.Duration * g.FrameRate / g.PlaybackSpeed))
}

// Validate rejects grids that cannot produce at least two samples.
func (g Grid) Validate() error {
	if !(g.FrameRate > 0) || !(g.PlaybackSpeed > 0) || !(g.Duration > 0) || g.Len() < 2 {
		return fmt.Errorf("%w: grid %+v yields fewer than two samples", ErrDimension, g)
	}
	return nil
}

// Times returns t_i = i*Step for every sample.
func (g Grid) Times() []float64 {
	n, dt := g.Len(), g.Step()
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) * dt
	}
	return t
}

// Simulate integrates m from a zero initial state over the uniform grid t,
// with u[k] the input at t[k]. The input is treated as piecewise linear
// between samples (first-order hold), which is exact for the road signal the
// tire sees between two frames.
func Simulate(m *statespace.Model, t, u []float64) (*Result, error) {
	if err := m.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDimension, err)
	}
	n, k, p := m.Dims()
	if k != 1 {
		return nil, fmt.Errorf("%w: model has %d inputs, want 1", ErrDimension, k)
	}
	if len(t) != len(u) || len(t) < 2 {
		return nil, fmt.Errorf("%w: %d timestamps, %d inputs", ErrDimension, len(t), len(u))
	}
	dt := t[1] - t[0]
	if !(dt > 0) {
		return nil, fmt.Errorf("%w: non-increasing time grid", ErrDimension)
	}
	for i := 2; i < len(t); i++ {
		if math.Abs((t[i]-t[i-1])-dt) > 1e-9*math.Max(1, dt) {
			return nil, fmt.Errorf("%w: time grid not uniform at sample %d", ErrDimension, i)
		}
	}

	phi, g0, g1 := discretize(m, dt)

	res := &Result{
		Time:   append([]float64(nil), t...),
		Output: make([][]float64, len(t)),
	}

	x := mat.NewVecDense(n, nil)
	next := mat.NewVecDense(n, nil)
	y := mat.NewVecDense(p, nil)
	for i := range t {
		y.MulVec(m.C, x)
		row := make([]float64, p)
		for j := 0; j < p; j++ {
			v := y.AtVec(j) + m.D.At(j, 0)*u[i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &SimulationError{Step: i, Time: t[i], Wrapped: ErrUnstable}
			}
			row[j] = v
		}
		res.Output[i] = row

		if i == len(t)-1 {
			break
		}
		// x[k+1] = Phi x[k] + G0 u[k] + G1 u[k+1]
		next.MulVec(phi, x)
		next.AddScaledVec(next, u[i], g0)
		next.AddScaledVec(next, u[i+1], g1)
		x, next = next, x
	}
	return res, nil
}

// discretize returns the first-order-hold matrices for step dt from the
// exponential of the block matrix
//
//	| A*dt  B*dt  0 |
//	|  0     0    I |
//	|  0     0    0 |
func discretize(m *statespace.Model, dt float64) (phi *mat.Dense, g0, g1 *mat.VecDense) {
	n, _, _ := m.Dims()
	big := mat.NewDense(n+2, n+2, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			big.Set(i, j, m.A.At(i, j)*dt)
		}
		big.Set(i, n, m.B.At(i, 0)*dt)
	}
	big.Set(n, n+1, 1)

	var e mat.Dense
	e.Exp(big)

	phi = mat.DenseCopyOf(e.Slice(0, n, 0, n))
	gamma1 := mat.NewVecDense(n, nil)
	gamma2 := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		gamma1.SetVec(i, e.At(i, n))
		gamma2.SetVec(i, e.At(i, n+1))
	}

	g0 = mat.NewVecDense(n, nil)
	g0.SubVec(gamma1, gamma2)
	return phi, g0, gamma2
}
