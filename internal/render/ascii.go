package render

import (
	"errors"

	"github.com/guptarohit/asciigraph"

	"github.com/mohammadijoo/quarter_car_go/internal/engine"
)

// ASCIIChart renders both displacement series as a terminal line chart of
// the given size in character cells.
func ASCIIChart(c engine.Chart, width, height int) (string, error) {
	if len(c.Sprung.Values) == 0 || len(c.Unsprung.Values) == 0 {
		return "", errors.New("chart: no samples")
	}
	return asciigraph.PlotMany(
		[][]float64{c.Sprung.Values, c.Unsprung.Values},
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(3),
		asciigraph.Caption("Vertical Displacement (m)"),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.DarkOrange),
		asciigraph.SeriesLegends(c.Sprung.Label, c.Unsprung.Label),
	), nil
}
