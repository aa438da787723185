// Package road builds the fixed road elevation curve the tire travels over:
// a flat run-up, a semicircular bump and a flat run-out.
package road

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInvalidConfig is returned for non-physical profile dimensions.
	ErrInvalidConfig = errors.New("road: invalid profile configuration")

	// ErrNotIncreasing is returned when the built x samples are not strictly increasing.
	ErrNotIncreasing = errors.New("road: profile x samples not strictly increasing")
)

// Config holds the geometric constants of the profile.
type Config struct {
	Step       float64 `mapstructure:"step"`       // flat sample spacing (m)
	RunUp      float64 `mapstructure:"runUp"`      // flat length before the bump (m)
	Radius     float64 `mapstructure:"radius"`     // bump radius (m)
	ArcSamples int     `mapstructure:"arcSamples"` // samples over the semicircle, both ends included
	RunOut     float64 `mapstructure:"runOut"`     // flat length after the bump (m)
}

// DefaultConfig returns the bump used by the control panel.
func DefaultConfig() Config {
	return Config{
		Step:       0.1,
		RunUp:      1.1,
		Radius:     0.1,
		ArcSamples: 50,
		RunOut:     5.0,
	}
}

// BumpStart is the x where the semicircle begins.
func (c Config) BumpStart() float64 { return c.RunUp }

// BumpEnd is the x where the semicircle ends.
func (c Config) BumpEnd() float64 { return c.RunUp + 2*c.Radius }

// Apex is the x of the top of the bump.
func (c Config) Apex() float64 { return c.RunUp + c.Radius }

func (c Config) validate() error {
	if !(c.Step > 0) || !(c.Radius > 0) || c.RunUp < 0 || c.RunOut < 0 || c.ArcSamples < 3 {
		return fmt.Errorf("%w: %+v", ErrInvalidConfig, c)
	}
	return nil
}

// Point is one (x, z) road sample.
type Point struct {
	X float64
	Z float64
}

// Profile is an immutable, strictly increasing sequence of road samples.
type Profile struct {
	x []float64
	z []float64
}

// Build constructs the flat-bump-flat profile. Segments share boundary
// points, which are emitted once.
func Build(c Config) (*Profile, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	nUp := int(math.Round(c.RunUp / c.Step))
	if c.RunUp > 0 {
		// keep the bump start sample even for a run-up shorter than half a step
		nUp = max(nUp, 1)
	}
	nOut := int(math.Round(c.RunOut / c.Step))
	size := nUp + 1 + (c.ArcSamples - 1) + nOut

	xs := make([]float64, 0, size)
	zs := make([]float64, 0, size)

	// flat run-up, ending at the bump start
	for i := 0; i <= nUp; i++ {
		xs = append(xs, c.RunUp*(float64(i)/float64(max(nUp, 1))))
		zs = append(zs, 0)
	}

	// semicircle, theta = 0 is the shared run-up point
	for k := 1; k < c.ArcSamples; k++ {
		th := math.Pi * float64(k) / float64(c.ArcSamples-1)
		xs = append(xs, -c.Radius*math.Cos(th)+c.RunUp+c.Radius)
		zs = append(zs, c.Radius*math.Sin(th))
	}
	zs[len(zs)-1] = 0

	// flat run-out
	x0 := c.BumpEnd()
	for i := 1; i <= nOut; i++ {
		xs = append(xs, x0+float64(i)*c.Step)
		zs = append(zs, 0)
	}

	return NewProfile(xs, zs)
}

// NewProfile wraps existing samples, verifying they form a valid profile.
// The slices are copied.
func NewProfile(xs, zs []float64) (*Profile, error) {
	if len(xs) != len(zs) || len(xs) < 2 {
		return nil, fmt.Errorf("%w: need at least two paired samples, got %d/%d", ErrInvalidConfig, len(xs), len(zs))
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("%w: x[%d]=%g after x[%d]=%g", ErrNotIncreasing, i, xs[i], i-1, xs[i-1])
		}
	}
	p := &Profile{
		x: append([]float64(nil), xs...),
		z: append([]float64(nil), zs...),
	}
	return p, nil
}

// Len returns the number of samples.
func (p *Profile) Len() int { return len(p.x) }

// X returns a copy of the longitudinal samples.
func (p *Profile) X() []float64 { return append([]float64(nil), p.x...) }

// Z returns a copy of the elevation samples.
func (p *Profile) Z() []float64 { return append([]float64(nil), p.z...) }

// Points returns the samples as (x, z) pairs.
func (p *Profile) Points() []Point {
	out := make([]Point, len(p.x))
	for i := range p.x {
		out[i] = Point{X: p.x[i], Z: p.z[i]}
	}
	return out
}

// segment returns i such that [x[i], x[i+1]] is the segment used for x.
// Outside the sampled domain the nearest boundary segment is used.
func (p *Profile) segment(x float64) int {
	i := sort.SearchFloat64s(p.x, x) - 1
	if i < 0 {
		return 0
	}
	if i > len(p.x)-2 {
		return len(p.x) - 2
	}
	return i
}

// HeightAt returns the road elevation at longitudinal position x. Between
// samples the height is linearly interpolated; outside the sampled range the
// nearest boundary segment is continued linearly.
func (p *Profile) HeightAt(x float64) float64 {
	i := p.segment(x)
	x0, x1 := p.x[i], p.x[i+1]
	z0, z1 := p.z[i], p.z[i+1]
	return z0 + (z1-z0)*(x-x0)/(x1-x0)
}

// HeightsAt evaluates HeightAt for every position in xs.
func (p *Profile) HeightsAt(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = p.HeightAt(x)
	}
	return out
}

// Window returns the visible road between xmin and xmax: both window edges
// plus every sample strictly inside.
func (p *Profile) Window(xmin, xmax float64) []Point {
	if xmax < xmin {
		xmin, xmax = xmax, xmin
	}
	out := []Point{{X: xmin, Z: p.HeightAt(xmin)}}
	start := sort.Search(len(p.x), func(i int) bool { return p.x[i] > xmin })
	for i := start; i < len(p.x) && p.x[i] < xmax; i++ {
		out = append(out, Point{X: p.x[i], Z: p.z[i]})
	}
	return append(out, Point{X: xmax, Z: p.HeightAt(xmax)})
}
