package sim

import (
	"fmt"

	"github.com/mohammadijoo/quarter_car_go/internal/statespace"
)

// RestLengths are the static lengths used to turn relative displacements
// into absolute heights.
type RestLengths struct {
	Unsprung float64 // tire spring natural length L0_u (m)
	Sprung   float64 // suspension spring natural length L0_s (m)
}

// Kinematics holds the absolute heights of one run, aligned index for index
// with the simulation time grid.
type Kinematics struct {
	Time []float64
	Lon  []float64 // tire contact longitudinal position (m)
	U    []float64 // road height under the tire (m)
	Zu   []float64 // absolute unsprung height (m)
	Zs   []float64 // absolute sprung height (m)
}

// NewKinematics offsets the simulated outputs by the rest lengths:
// z_u = y_u + L0_u and z_s = y_s + L0_u + L0_s. The input slices are copied.
func NewKinematics(res *Result, lon, u []float64, rest RestLengths) (*Kinematics, error) {
	n := res.Len()
	if len(lon) != n || len(u) != n || len(res.Output) != n {
		return nil, fmt.Errorf("%w: %d samples, %d positions, %d inputs", ErrDimension, n, len(lon), len(u))
	}
	k := &Kinematics{
		Time: append([]float64(nil), res.Time...),
		Lon:  append([]float64(nil), lon...),
		U:    append([]float64(nil), u...),
		Zu:   make([]float64, n),
		Zs:   make([]float64, n),
	}
	for i, row := range res.Output {
		if len(row) <= statespace.OutSprung {
			return nil, fmt.Errorf("%w: output row %d has %d channels", ErrDimension, i, len(row))
		}
		k.Zu[i] = row[statespace.OutUnsprung] + rest.Unsprung
		k.Zs[i] = row[statespace.OutSprung] + rest.Unsprung + rest.Sprung
	}
	return k, nil
}

// Len returns the number of samples.
func (k *Kinematics) Len() int { return len(k.Time) }
