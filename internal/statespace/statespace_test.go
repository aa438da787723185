package statespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammadijoo/quarter_car_go/internal/params"
)

func TestNew_Matrices(t *testing.T) {
	p := params.Default()
	m, err := New(p)
	require.NoError(t, err)
	require.NoError(t, m.Check())

	n, k, out := m.Dims()
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, k)
	assert.Equal(t, 2, out)

	M, mu := p.SprungMass, p.UnsprungMass
	want := [4][4]float64{
		{0, 1, 0, 0},
		{-(p.Ks + p.Kt) / mu, -p.Cs / mu, p.Ks / mu, p.Cs / mu},
		{0, 0, 0, 1},
		{p.Ks / M, p.Cs / M, -p.Ks / M, -p.Cs / M},
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, want[i][j], m.A.At(i, j), 1e-12, "A[%d][%d]", i, j)
		}
	}

	assert.Equal(t, 0.0, m.B.At(0, 0))
	assert.InDelta(t, p.Kt/mu, m.B.At(1, 0), 1e-12)
	assert.Equal(t, 0.0, m.B.At(2, 0))
	assert.Equal(t, 0.0, m.B.At(3, 0))

	assert.Equal(t, 1.0, m.C.At(OutUnsprung, 0))
	assert.Equal(t, 1.0, m.C.At(OutSprung, 2))
	assert.Equal(t, 0.0, m.D.At(0, 0))
	assert.Equal(t, 0.0, m.D.At(1, 0))
}

func TestNew_DegenerateMass(t *testing.T) {
	p := params.Default()
	p.SprungMass = 0
	_, err := New(p)
	require.ErrorIs(t, err, ErrDegenerate)

	p = params.Default()
	p.UnsprungMass = -150
	_, err = New(p)
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestDCGain_FollowsRoad(t *testing.T) {
	m, err := New(params.Default())
	require.NoError(t, err)

	g, err := m.DCGain()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, g.At(OutUnsprung, 0), 1e-9)
	assert.InDelta(t, 1.0, g.At(OutSprung, 0), 1e-9)
}
