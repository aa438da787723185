package engine

import (
	"fmt"
	"iter"

	"github.com/mohammadijoo/quarter_car_go/internal/geometry"
	"github.com/mohammadijoo/quarter_car_go/internal/road"
	"github.com/mohammadijoo/quarter_car_go/internal/sim"
)

// RoadWindow is the stretch of road visible around the contact point.
type RoadWindow struct {
	XMin float64
	XMax float64
	Line geometry.Polyline
}

// Frame is everything a renderer needs to draw one instant.
type Frame struct {
	Index int
	Time  float64
	Label string
	X     float64 // contact point longitudinal position (m)

	U  float64 // road height under the tire (m)
	Zu float64 // unsprung height (m)
	Zs float64 // sprung height (m)

	Body             geometry.Block
	Wheel            geometry.Block
	TireSpring       geometry.Spring
	SuspensionSpring geometry.Spring
	Damper           geometry.Damper
	Road             RoadWindow
	Contact          geometry.Point
}

// Series is one labelled curve of the displacement chart.
type Series struct {
	Label  string
	Values []float64
}

// Chart is the displacement-vs-time series emitted once after the last frame.
type Chart struct {
	Time     []float64
	Sprung   Series
	Unsprung Series
}

// Chart curve labels.
const (
	SprungLabel   = "Sprung mass"
	UnsprungLabel = "Unsprung mass"
)

// Sequencer assembles frames for one run. It is finite and can only be
// replayed from the beginning.
type Sequencer struct {
	kin  *sim.Kinematics
	prof *road.Profile
	calc *geometry.Calculator
	kt   float64
}

// NewSequencer returns a Sequencer over kin. kt is the tire stiffness of the
// run, used for the tire spring color.
func NewSequencer(kin *sim.Kinematics, prof *road.Profile, calc *geometry.Calculator, kt float64) *Sequencer {
	return &Sequencer{kin: kin, prof: prof, calc: calc, kt: kt}
}

// Len returns the number of frames.
func (s *Sequencer) Len() int { return s.kin.Len() }

// Kinematics returns a copy of the heights the frames are built from.
func (s *Sequencer) Kinematics() *sim.Kinematics {
	k := *s.kin
	k.Time = append([]float64(nil), k.Time...)
	k.Lon = append([]float64(nil), k.Lon...)
	k.U = append([]float64(nil), k.U...)
	k.Zu = append([]float64(nil), k.Zu...)
	k.Zs = append([]float64(nil), k.Zs...)
	return &k
}

// Frame assembles frame i. It panics if i is out of range, like a slice index.
func (s *Sequencer) Frame(i int) Frame {
	k := s.kin
	x, u, zu, zs := k.Lon[i], k.U[i], k.Zu[i], k.Zs[i]
	half := s.calc.Config().WindowWidth / 2

	win := s.prof.Window(x-half, x+half)
	line := make(geometry.Polyline, len(win))
	for j, p := range win {
		line[j] = geometry.Point{X: p.X, Z: p.Z}
	}

	return Frame{
		Index:            i,
		Time:             k.Time[i],
		Label:            fmt.Sprintf("t = %.2f s", k.Time[i]),
		X:                x,
		U:                u,
		Zu:               zu,
		Zs:               zs,
		Body:             s.calc.Body(x, zs),
		Wheel:            s.calc.Wheel(x, zu),
		TireSpring:       s.calc.TireSpring(x, u, zu, s.kt),
		SuspensionSpring: s.calc.SuspensionSpring(x, zu, zs),
		Damper:           s.calc.Damper(x, zu, zs),
		Road:             RoadWindow{XMin: x - half, XMax: x + half, Line: line},
		Contact:          geometry.Point{X: x, Z: u},
	}
}

// Frames yields every frame in time order.
func (s *Sequencer) Frames() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for i := 0; i < s.Len(); i++ {
			if !yield(s.Frame(i)) {
				return
			}
		}
	}
}

// Chart returns the full displacement series.
func (s *Sequencer) Chart() Chart {
	k := s.kin
	return Chart{
		Time:     append([]float64(nil), k.Time...),
		Sprung:   Series{Label: SprungLabel, Values: append([]float64(nil), k.Zs...)},
		Unsprung: Series{Label: UnsprungLabel, Values: append([]float64(nil), k.Zu...)},
	}
}
