package geometry

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoil_Shape(t *testing.T) {
	cfg := DefaultConfig()
	calc := NewCalculator(cfg)

	const (
		x      = 2.0
		bottom = 0.02
		top    = 0.31
		rest   = 0.3
	)
	line := calc.Coil(x, bottom, top, rest)

	require.Equal(t, 3, cfg.Segments())
	require.Len(t, line, 2*cfg.Segments()+4)

	assert.Equal(t, Point{x, bottom}, line[0])
	assert.Equal(t, Point{x, top}, line[len(line)-1])

	rod := cfg.RodPct * rest
	assert.InDelta(t, bottom+rod, line[1].Z, 1e-12)
	assert.InDelta(t, top-rod, line[len(line)-2].Z, 1e-12)

	coil := (top - bottom) - 2*rod
	// the zig-zag rises one third of the coil per diagonal
	assert.InDelta(t, coil/3, line[3].Z-line[2].Z, 1e-12)
	assert.InDelta(t, coil/3, line[5].Z-line[4].Z, 1e-12)
	assert.InDelta(t, coil/3, line[7].Z-line[6].Z, 1e-12)

	for _, p := range line {
		assert.LessOrEqual(t, p.X, x+cfg.SpringWidth+1e-12)
		assert.GreaterOrEqual(t, p.X, x-cfg.SpringWidth-1e-12)
	}
	for i := 1; i < len(line); i++ {
		assert.GreaterOrEqual(t, line[i].Z, line[i-1].Z-1e-12)
	}
}

func TestTireSpring_AnchorsAndColor(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	s := calc.TireSpring(1.5, 0.05, 0.33, 2e5)

	assert.Equal(t, 0.05, s.Line[0].Z)
	assert.Equal(t, 0.33, s.Line[len(s.Line)-1].Z)
	assert.Equal(t, 1.5, s.Line[0].X)
	assert.Equal(t, calc.TireSpringColor(2e5), s.Color)
}

func TestSuspensionSpring_Anchors(t *testing.T) {
	cfg := DefaultConfig()
	calc := NewCalculator(cfg)
	s := calc.SuspensionSpring(1, 0.3, 0.7)

	assert.InDelta(t, 0.3+cfg.WheelHeight, s.Line[0].Z, 1e-12)
	assert.Equal(t, 0.7, s.Line[len(s.Line)-1].Z)
	assert.InDelta(t, 1+cfg.SuspensionOffset, s.Line[0].X, 1e-12)
	assert.Equal(t, cfg.SuspensionColor, s.Color)
}

func TestTireSpringColor(t *testing.T) {
	cfg := DefaultConfig()
	calc := NewCalculator(cfg)

	assert.Equal(t, cfg.SoftColor, calc.TireSpringColor(5e4))
	assert.Equal(t, cfg.StiffColor, calc.TireSpringColor(5e5))

	mid := calc.TireSpringColor((5e4 + 5e5) / 2)
	assert.Equal(t, mid.R, mid.B)
	assert.Equal(t, uint8(0), mid.G)
	assert.Equal(t, uint8(255), mid.A)

	// out-of-range values saturate at the endpoints
	assert.Equal(t, cfg.SoftColor, calc.TireSpringColor(1))
	assert.Equal(t, cfg.StiffColor, calc.TireSpringColor(1e9))
}

func TestTireSpringColor_Monotonic(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	prev := calc.TireSpringColor(5e4)
	for kt := 6e4; kt <= 5e5; kt += 1e4 {
		c := calc.TireSpringColor(kt)
		assert.LessOrEqual(t, c.R, prev.R)
		assert.GreaterOrEqual(t, c.B, prev.B)
		prev = c
	}
}

func TestDamper(t *testing.T) {
	cfg := DefaultConfig()
	calc := NewCalculator(cfg)

	const x, zu, zs = 3.0, 0.3, 0.7
	d := calc.Damper(x, zu, zs)
	cx := x + cfg.DamperOffset
	bottom := zu + cfg.WheelHeight
	l0 := cfg.RestSprung

	assert.Equal(t, Polyline{{cx, bottom}, {cx, bottom + cfg.DamperLowerRodPct*l0}}, d.LowerRod)

	require.Len(t, d.Cylinder, 4)
	assert.InDelta(t, bottom+cfg.DamperLowerRodPct*l0, d.Cylinder[1].Z, 1e-12)
	assert.InDelta(t, bottom+(cfg.DamperLowerRodPct+cfg.DamperCylPct)*l0, d.Cylinder[0].Z, 1e-12)
	assert.InDelta(t, cx-cfg.DamperWidth, d.Cylinder[0].X, 1e-12)
	assert.InDelta(t, cx+cfg.DamperWidth, d.Cylinder[3].X, 1e-12)

	piston := zs - cfg.DamperUpperRodPct*l0
	assert.Equal(t, Point{cx, zs}, d.UpperRod[0])
	assert.InDelta(t, piston, d.UpperRod[1].Z, 1e-12)
	require.Len(t, d.Piston, 2)
	assert.InDelta(t, piston, d.Piston[0].Z, 1e-12)
	assert.InDelta(t, 2*cfg.PistonPct*cfg.DamperWidth, d.Piston[1].X-d.Piston[0].X, 1e-12)
}

func TestBlocks(t *testing.T) {
	cfg := DefaultConfig()
	calc := NewCalculator(cfg)

	body := calc.Body(1, 0.7)
	require.Len(t, body.Outline, 5)
	assert.Equal(t, body.Outline[0], body.Outline[4])
	assert.InDelta(t, cfg.BlockWidth, body.Outline[1].X-body.Outline[0].X, 1e-12)
	assert.InDelta(t, 0.7+cfg.BodyHeight, body.Outline[2].Z, 1e-12)
	assert.Equal(t, cfg.BodyColor, body.Fill)

	wheel := calc.Wheel(1, 0.3)
	assert.Equal(t, 0.3, wheel.Outline[0].Z)
	assert.InDelta(t, 0.3+cfg.WheelHeight, wheel.Outline[3].Z, 1e-12)
	assert.Equal(t, color.RGBA{R: 44, G: 160, B: 196, A: 255}, wheel.Fill)
}
