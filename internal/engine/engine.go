// Package engine runs one quarter car simulation and streams its frames.
//
// A run goes through fixed stages:
//
//  1. Snapshot and validate the parameter set.
//  2. Build the road profile and the state-space model.
//  3. Simulate the response to the road height under the moving tire over
//     the whole time grid, before any frame is produced.
//  4. Stream one Frame per sample, then hand out the displacement Chart.
//
// Only one run may be active per Engine; Start refuses new runs until the
// active one completes, fails, is canceled or is closed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mohammadijoo/quarter_car_go/internal/geometry"
	"github.com/mohammadijoo/quarter_car_go/internal/params"
	"github.com/mohammadijoo/quarter_car_go/internal/road"
	"github.com/mohammadijoo/quarter_car_go/internal/sim"
	"github.com/mohammadijoo/quarter_car_go/internal/statespace"
)

var (
	// ErrRunInProgress is returned by Start while another run is active.
	ErrRunInProgress = errors.New("engine: a run is already in progress")

	// ErrCanceled is returned when a run stops before its last frame.
	ErrCanceled = errors.New("engine: run canceled")

	// ErrRunClosed is returned when streaming a run that was already streamed or closed.
	ErrRunClosed = errors.New("engine: run already finished")
)

// Options are the engine-level constants shared by every run.
type Options struct {
	Road     road.Config
	Grid     sim.Grid
	Geometry geometry.Config
}

// DefaultOptions returns the constants of the reference animation.
func DefaultOptions() Options {
	return Options{
		Road:     road.DefaultConfig(),
		Grid:     sim.DefaultGrid(),
		Geometry: geometry.DefaultConfig(),
	}
}

// Engine builds and streams runs. It is safe for concurrent use; runs
// themselves are not.
type Engine struct {
	opts Options
	log  zerolog.Logger
	calc *geometry.Calculator
	busy atomic.Bool
}

// New returns an Engine with the given constants and logger.
func New(opts Options, log zerolog.Logger) *Engine {
	return &Engine{
		opts: opts,
		log:  log.With().Str("component", "engine").Logger(),
		calc: geometry.NewCalculator(opts.Geometry),
	}
}

// Options returns the engine constants.
func (e *Engine) Options() Options { return e.opts }

// Busy reports whether a run is active. A control panel disables its start
// button while this is true.
func (e *Engine) Busy() bool { return e.busy.Load() }

// Simulate computes the full response for p and returns the frame sequencer
// for it. It does not take the run guard.
func (e *Engine) Simulate(p params.Set) (*Sequencer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := e.opts.Grid.Validate(); err != nil {
		return nil, err
	}

	prof, err := road.Build(e.opts.Road)
	if err != nil {
		return nil, fmt.Errorf("building road profile: %w", err)
	}

	model, err := statespace.New(p)
	if err != nil {
		return nil, fmt.Errorf("building model: %w", err)
	}

	t := e.opts.Grid.Times()
	lon := make([]float64, len(t))
	for i, ti := range t {
		lon[i] = p.Vel * ti
	}
	u := prof.HeightsAt(lon)

	start := time.Now()
	res, err := sim.Simulate(model, t, u)
	if err != nil {
		return nil, fmt.Errorf("simulating: %w", err)
	}

	rest := sim.RestLengths{Unsprung: e.opts.Geometry.RestUnsprung, Sprung: e.opts.Geometry.RestSprung}
	kin, err := sim.NewKinematics(res, lon, u, rest)
	if err != nil {
		return nil, fmt.Errorf("kinematics: %w", err)
	}

	e.log.Debug().
		Int("samples", res.Len()).
		Float64("dt", e.opts.Grid.Step()).
		Int("roadSamples", prof.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("simulation complete")

	return NewSequencer(kin, prof, e.calc, p.Kt), nil
}

// Start snapshots p and prepares a run. While the returned Run is active,
// further calls fail with ErrRunInProgress. Failed starts release the guard
// immediately.
func (e *Engine) Start(p params.Set) (*Run, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}

	e.log.Info().Stringer("params", p).Msg("run requested")

	seq, err := e.Simulate(p)
	if err != nil {
		e.busy.Store(false)
		e.log.Error().Err(err).Msg("run rejected")
		return nil, err
	}

	r := &Run{params: p, seq: seq, log: e.log}
	r.release = func() {
		r.once.Do(func() { e.busy.Store(false) })
	}
	return r, nil
}

// Run is one started simulation. Its frames can be streamed once.
type Run struct {
	params  params.Set
	seq     *Sequencer
	log     zerolog.Logger
	once    sync.Once
	release func()
	done    atomic.Bool
}

// Params returns the parameter snapshot of the run.
func (r *Run) Params() params.Set { return r.params }

// Len returns the number of frames the run will emit.
func (r *Run) Len() int { return r.seq.Len() }

// Sequencer gives random access to the frames of the run.
func (r *Run) Sequencer() *Sequencer { return r.seq }

// Stream emits every frame in time order and then returns the displacement
// chart. ctx is checked between frames; an error from emit stops the run.
// The engine guard is released when Stream returns.
func (r *Run) Stream(ctx context.Context, emit func(Frame) error) (Chart, error) {
	if !r.done.CompareAndSwap(false, true) {
		return Chart{}, ErrRunClosed
	}
	defer r.release()

	n := r.seq.Len()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			r.log.Warn().Int("frame", i).Int("frames", n).Msg("run canceled")
			return Chart{}, fmt.Errorf("%w at frame %d/%d: %w", ErrCanceled, i, n, err)
		}
		if err := emit(r.seq.Frame(i)); err != nil {
			return Chart{}, fmt.Errorf("emitting frame %d: %w", i, err)
		}
	}

	r.log.Info().Int("frames", n).Msg("run complete")
	return r.seq.Chart(), nil
}

// Close abandons the run without streaming it. It is safe to call after
// Stream.
func (r *Run) Close() {
	r.done.Store(true)
	r.release()
}
