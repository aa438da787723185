// Package params holds the physical and tunable inputs of one quarter car run,
// together with the operating ranges a control panel is allowed to expose.
package params

import (
	"errors"
	"fmt"
	"math"
)

// ErrParameterBounds is returned when a parameter lies outside its operating range.
var ErrParameterBounds = errors.New("params: parameter out of valid bounds")

// Fixed masses; they are not exposed as controls.
const (
	SprungMass   = 1500.0 // (kg)
	UnsprungMass = 150.0  // (kg)
)

// Set is one snapshot of the simulation inputs.
type Set struct {
	SprungMass   float64 `json:"-" mapstructure:"-"`     // body mass (kg), fixed
	UnsprungMass float64 `json:"-" mapstructure:"-"`     // wheel/tire mass (kg), fixed
	Ks           float64 `json:"ks" mapstructure:"ks"`   // suspension stiffness (N/m)
	Cs           float64 `json:"cs" mapstructure:"cs"`   // suspension damping (Ns/m)
	Kt           float64 `json:"kt" mapstructure:"kt"`   // tire stiffness (N/m)
	Vel          float64 `json:"vel" mapstructure:"vel"` // vehicle speed (m/s)
}

// Range describes one user-tunable control.
type Range struct {
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// Contains reports whether v lies inside [Min, Max].
func (r Range) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= r.Min && v <= r.Max
}

// Clamp bounds v into [Min, Max]. NaN maps to the default.
func (r Range) Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return r.Default
	case v < r.Min:
		return r.Min
	case v > r.Max:
		return r.Max
	}
	return v
}

// Normalize maps v linearly onto [0, 1] over the range, clamped.
func (r Range) Normalize(v float64) float64 {
	n := (v - r.Min) / (r.Max - r.Min)
	return math.Min(math.Max(n, 0), 1)
}

// Operating ranges, matching the sliders of the control panel.
var (
	KsRange  = Range{Name: "Ks", Unit: "N/m", Min: 1e4, Max: 1e5, Step: 1000, Default: 48000}
	CsRange  = Range{Name: "Cs", Unit: "Ns/m", Min: 100, Max: 5000, Step: 100, Default: 1000}
	VelRange = Range{Name: "vel", Unit: "m/s", Min: 0.5, Max: 5, Step: 0.1, Default: 2}
	KtRange  = Range{Name: "Kt", Unit: "N/m", Min: 5e4, Max: 5e5, Step: 10000, Default: 200000}
)

// Bounds lists the tunable ranges in control-panel order.
func Bounds() []Range {
	return []Range{KsRange, CsRange, VelRange, KtRange}
}

// Default returns the parameter set the control panel starts with.
func Default() Set {
	return Set{
		SprungMass:   SprungMass,
		UnsprungMass: UnsprungMass,
		Ks:           KsRange.Default,
		Cs:           CsRange.Default,
		Kt:           KtRange.Default,
		Vel:          VelRange.Default,
	}
}

func (s Set) tunables() []float64 {
	return []float64{s.Ks, s.Cs, s.Vel, s.Kt}
}

// Validate refuses masses that are not strictly positive and any tunable
// outside its operating range.
func (s Set) Validate() error {
	if !(s.SprungMass > 0) || !(s.UnsprungMass > 0) {
		return fmt.Errorf("%w: masses must be positive (M=%g, m=%g)", ErrParameterBounds, s.SprungMass, s.UnsprungMass)
	}
	for i, r := range Bounds() {
		v := s.tunables()[i]
		if !r.Contains(v) {
			return fmt.Errorf("%w: %s=%g outside [%g, %g] %s", ErrParameterBounds, r.Name, v, r.Min, r.Max, r.Unit)
		}
	}
	return nil
}

// Clamp returns a copy with every tunable moved to its nearest bound.
// Masses are left untouched; Validate still guards them.
func (s Set) Clamp() Set {
	s.Ks = KsRange.Clamp(s.Ks)
	s.Cs = CsRange.Clamp(s.Cs)
	s.Vel = VelRange.Clamp(s.Vel)
	s.Kt = KtRange.Clamp(s.Kt)
	return s
}

func (s Set) String() string {
	return fmt.Sprintf("Ks=%g, Cs=%g, Kt=%g, v=%g", s.Ks, s.Cs, s.Kt, s.Vel)
}
