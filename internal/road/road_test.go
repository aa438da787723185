package road

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDefault(t *testing.T) *Profile {
	t.Helper()
	p, err := Build(DefaultConfig())
	require.NoError(t, err)
	return p
}

func TestBuild_StrictlyIncreasing(t *testing.T) {
	configs := []Config{
		DefaultConfig(),
		{Step: 0.05, RunUp: 0.5, Radius: 0.3, ArcSamples: 7, RunOut: 2},
		{Step: 0.1, RunUp: 0, Radius: 0.1, ArcSamples: 3, RunOut: 0},
		{Step: 0.3, RunUp: 1.0, Radius: 0.02, ArcSamples: 200, RunOut: 0.9},
		{Step: 0.1, RunUp: 0.04, Radius: 0.1, ArcSamples: 50, RunOut: 1},
	}
	for _, c := range configs {
		p, err := Build(c)
		require.NoError(t, err)
		x := p.X()
		for i := 1; i < len(x); i++ {
			require.Greater(t, x[i], x[i-1], "config %+v index %d", c, i)
		}
	}
}

func TestBuild_DefaultShape(t *testing.T) {
	c := DefaultConfig()
	p := buildDefault(t)

	// 12 run-up samples, 49 arc samples, 50 run-out samples
	assert.Equal(t, 12+49+50, p.Len())

	x, z := p.X(), p.Z()
	assert.Equal(t, 0.0, x[0])
	assert.InDelta(t, c.BumpEnd()+c.RunOut, x[len(x)-1], 1e-9)
	assert.Equal(t, 0.0, z[0])
	assert.Equal(t, 0.0, z[len(z)-1])

	for i := range x {
		if x[i] <= c.BumpStart() || x[i] >= c.BumpEnd() {
			assert.Equal(t, 0.0, z[i], "flat sample at x=%g", x[i])
		} else {
			assert.Greater(t, z[i], 0.0)
			assert.LessOrEqual(t, z[i], c.Radius)
		}
	}
}

func TestBuild_InvalidConfig(t *testing.T) {
	bad := []Config{
		{Step: 0, RunUp: 1, Radius: 0.1, ArcSamples: 50, RunOut: 1},
		{Step: 0.1, RunUp: 1, Radius: 0, ArcSamples: 50, RunOut: 1},
		{Step: 0.1, RunUp: 1, Radius: 0.1, ArcSamples: 2, RunOut: 1},
		{Step: 0.1, RunUp: -1, Radius: 0.1, ArcSamples: 50, RunOut: 1},
	}
	for _, c := range bad {
		_, err := Build(c)
		assert.ErrorIs(t, err, ErrInvalidConfig, "%+v", c)
	}
}

func TestNewProfile_RejectsDuplicateX(t *testing.T) {
	_, err := NewProfile([]float64{0, 1, 1, 2}, []float64{0, 0, 0, 0})
	require.ErrorIs(t, err, ErrNotIncreasing)

	_, err = NewProfile([]float64{0, 1}, []float64{0})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestHeightAt_Apex(t *testing.T) {
	c := DefaultConfig()
	p := buildDefault(t)
	assert.InDelta(t, c.Radius, p.HeightAt(c.Apex()), 1e-3)
}

func TestHeightAt_Interpolates(t *testing.T) {
	p, err := NewProfile([]float64{0, 1, 3}, []float64{0, 2, 0})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, p.HeightAt(0.5), 1e-12)
	assert.InDelta(t, 2.0, p.HeightAt(1), 1e-12)
	assert.InDelta(t, 1.0, p.HeightAt(2), 1e-12)
}

func TestHeightAt_Extrapolates(t *testing.T) {
	p, err := NewProfile([]float64{0, 1, 3}, []float64{1, 2, 0})
	require.NoError(t, err)

	// continues the first segment slope (+1) to the left
	assert.InDelta(t, 0.0, p.HeightAt(-1), 1e-12)
	// continues the last segment slope (-1) to the right
	assert.InDelta(t, -1.0, p.HeightAt(4), 1e-12)
}

func TestHeightAt_DefaultProfileFlatOutsideDomain(t *testing.T) {
	p := buildDefault(t)
	for _, x := range []float64{-5, -0.3, 0, 0.7, 7, 20} {
		assert.InDelta(t, 0.0, p.HeightAt(x), 1e-12, "x=%g", x)
		assert.False(t, math.IsNaN(p.HeightAt(x)))
	}
}

func TestWindow(t *testing.T) {
	c := DefaultConfig()
	p := buildDefault(t)

	w := p.Window(c.Apex()-1, c.Apex()+1)
	require.GreaterOrEqual(t, len(w), 2)
	assert.InDelta(t, c.Apex()-1, w[0].X, 1e-12)
	assert.InDelta(t, c.Apex()+1, w[len(w)-1].X, 1e-12)
	for i := 1; i < len(w); i++ {
		assert.Greater(t, w[i].X, w[i-1].X)
	}

	// a window fully before the profile still yields its two edges
	w = p.Window(-3, -1)
	assert.Len(t, w, 2)
	assert.Equal(t, 0.0, w[0].Z)
}

func TestAccessorsReturnCopies(t *testing.T) {
	p := buildDefault(t)
	x := p.X()
	x[0] = 42
	assert.Equal(t, 0.0, p.X()[0])
}

func TestBuild_ShortRunUpKeepsBumpStart(t *testing.T) {
	c := Config{Step: 0.1, RunUp: 0.03, Radius: 0.1, ArcSamples: 5, RunOut: 0.5}
	p, err := Build(c)
	require.NoError(t, err)

	x, z := p.X(), p.Z()
	require.GreaterOrEqual(t, len(x), 3)
	assert.Equal(t, []float64{0, c.RunUp}, x[:2])
	assert.Equal(t, []float64{0, 0}, z[:2])
	assert.Equal(t, 0.0, p.HeightAt(0.02))
	assert.Greater(t, p.HeightAt(c.RunUp+0.01), 0.0)
}
