// Package geometry turns the heights of one instant into drawable polylines:
// tire and suspension springs, the damper assembly and the body and wheel
// blocks. Every proportion lives in Config.
package geometry

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mohammadijoo/quarter_car_go/internal/params"
)

// Point is a position in the vertical plane of the car (m).
type Point struct {
	X float64
	Z float64
}

// Polyline is an ordered list of points drawn as connected segments.
type Polyline []Point

// Config holds rest lengths, block sizes, drawing proportions and colors.
type Config struct {
	RestUnsprung float64 // tire spring natural length L0_u (m)
	RestSprung   float64 // suspension spring natural length L0_s (m)
	WheelHeight  float64 // unsprung block height h_u (m)
	BodyHeight   float64 // sprung block height h_s (m)
	BlockWidth   float64 // width a of both blocks (m)

	RodPct      float64 // fraction of L0 drawn as a rigid rod at each spring end
	SpringPct   float64 // fraction of the coil length per zig-zag segment
	SpringWidth float64 // zig-zag half-amplitude w (m)

	SuspensionOffset float64 // suspension spring x offset from the contact point (m)
	DamperOffset     float64 // damper x offset from the contact point (m)

	DamperLowerRodPct float64 // lower rod length as a fraction of L0_s
	DamperCylPct      float64 // cylinder length as a fraction of L0_s
	DamperUpperRodPct float64 // upper rod length as a fraction of L0_s
	DamperWidth       float64 // cylinder half-width (m)
	PistonPct         float64 // piston half-width as a fraction of DamperWidth

	KtColorRange    params.Range
	SoftColor       color.RGBA
	StiffColor      color.RGBA
	SuspensionColor color.RGBA
	DamperColor     color.RGBA
	BodyColor       color.RGBA
	WheelColor      color.RGBA
	RoadColor       color.RGBA

	WindowWidth float64 // visible road length centered on the contact point (m)
}

// DefaultConfig returns the proportions of the animation.
func DefaultConfig() Config {
	return Config{
		RestUnsprung: 0.3,
		RestSprung:   0.4,
		WheelHeight:  0.1,
		BodyHeight:   0.2,
		BlockWidth:   0.8,

		RodPct:      0.11,
		SpringPct:   1.0 / 3.0,
		SpringWidth: 0.1,

		SuspensionOffset: -0.2,
		DamperOffset:     0.2,

		DamperLowerRodPct: 0.1,
		DamperCylPct:      0.4,
		DamperUpperRodPct: 0.4,
		DamperWidth:       0.05,
		PistonPct:         0.8,

		KtColorRange:    params.KtRange,
		SoftColor:       color.RGBA{R: 255, A: 255},
		StiffColor:      color.RGBA{B: 255, A: 255},
		SuspensionColor: color.RGBA{A: 255},
		DamperColor:     color.RGBA{A: 255},
		BodyColor:       color.RGBA{R: 148, G: 103, B: 189, A: 255},
		WheelColor:      color.RGBA{R: 44, G: 160, B: 196, A: 255},
		RoadColor:       color.RGBA{A: 255},

		WindowWidth: 2,
	}
}

// Segments returns the number of zig-zag segments of a coil.
func (c Config) Segments() int {
	return max(1, int(math.Round(1/c.SpringPct)))
}

// Spring is a coil polyline and the color to stroke it with.
type Spring struct {
	Line  Polyline
	Color color.RGBA
}

// Damper is the rod/cylinder/piston assembly between wheel and body.
type Damper struct {
	LowerRod Polyline
	Cylinder Polyline // open at the top
	UpperRod Polyline
	Piston   Polyline
}

// Block is a closed rectangle with its fill color.
type Block struct {
	Outline Polyline
	Fill    color.RGBA
}

// Calculator computes geometry from a fixed Config.
type Calculator struct {
	cfg Config
}

// NewCalculator returns a Calculator for cfg.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Config returns the configuration in use.
func (c *Calculator) Config() Config { return c.cfg }

// Coil returns the spring polyline between bottom and top. A rod of
// RodPct*rest is kept at each end and the remaining length is split into
// zig-zag segments of SpringPct each, alternating between +w and -w.
func (c *Calculator) Coil(center, bottom, top, rest float64) Polyline {
	rod := c.cfg.RodPct * rest
	n := c.cfg.Segments()
	seg := ((top - bottom) - 2*rod) / float64(n)
	w := c.cfg.SpringWidth

	line := make(Polyline, 0, 2*n+4)
	line = append(line, Point{center, bottom}, Point{center, bottom + rod})
	z := bottom + rod
	line = append(line, Point{center + w, z})
	for i := 0; i < n; i++ {
		z = bottom + rod + float64(i+1)*seg
		line = append(line, Point{center - w, z})
		if i < n-1 {
			line = append(line, Point{center + w, z})
		}
	}
	return append(line, Point{center, z}, Point{center, top})
}

// TireSpring returns the coil between the road and the wheel block.
func (c *Calculator) TireSpring(x, u, zu, kt float64) Spring {
	return Spring{
		Line:  c.Coil(x, u, zu, c.cfg.RestUnsprung),
		Color: c.TireSpringColor(kt),
	}
}

// SuspensionSpring returns the coil between the top of the wheel block and
// the body.
func (c *Calculator) SuspensionSpring(x, zu, zs float64) Spring {
	return Spring{
		Line:  c.Coil(x+c.cfg.SuspensionOffset, zu+c.cfg.WheelHeight, zs, c.cfg.RestSprung),
		Color: c.cfg.SuspensionColor,
	}
}

// TireSpringColor blends SoftColor to StiffColor in RGB as Kt goes across
// its operating range.
func (c *Calculator) TireSpringColor(kt float64) color.RGBA {
	t := c.cfg.KtColorRange.Normalize(kt)
	soft, _ := colorful.MakeColor(c.cfg.SoftColor)
	stiff, _ := colorful.MakeColor(c.cfg.StiffColor)
	r, g, b := soft.BlendRgb(stiff, t).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Damper returns the damper drawn at x between the wheel block top and the
// body bottom. The cylinder rides on the wheel, the rod and piston hang
// from the body.
func (c *Calculator) Damper(x, zu, zs float64) Damper {
	cx := x + c.cfg.DamperOffset
	bottom := zu + c.cfg.WheelHeight
	l0 := c.cfg.RestSprung
	w := c.cfg.DamperWidth

	cylBase := bottom + c.cfg.DamperLowerRodPct*l0
	cylTop := cylBase + c.cfg.DamperCylPct*l0
	piston := zs - c.cfg.DamperUpperRodPct*l0
	pw := c.cfg.PistonPct * w

	return Damper{
		LowerRod: Polyline{{cx, bottom}, {cx, cylBase}},
		Cylinder: Polyline{{cx - w, cylTop}, {cx - w, cylBase}, {cx + w, cylBase}, {cx + w, cylTop}},
		UpperRod: Polyline{{cx, zs}, {cx, piston}},
		Piston:   Polyline{{cx - pw, piston}, {cx + pw, piston}},
	}
}

// Rect returns a closed rectangle of the block width centered on x, with its
// base at z.
func (c *Calculator) Rect(x, z, height float64) Polyline {
	h := c.cfg.BlockWidth / 2
	return Polyline{
		{x - h, z}, {x + h, z},
		{x + h, z + height}, {x - h, z + height},
		{x - h, z},
	}
}

// Body returns the sprung block resting at zs.
func (c *Calculator) Body(x, zs float64) Block {
	return Block{Outline: c.Rect(x, zs, c.cfg.BodyHeight), Fill: c.cfg.BodyColor}
}

// Wheel returns the unsprung block resting at zu.
func (c *Calculator) Wheel(x, zu float64) Block {
	return Block{Outline: c.Rect(x, zu, c.cfg.WheelHeight), Fill: c.cfg.WheelColor}
}
