// Package render draws frames and the displacement chart with gonum/plot
// and writes the run artifacts: PNG frames, CSV log, MP4 and a terminal
// chart.
package render

import (
	"bufio"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mohammadijoo/quarter_car_go/internal/engine"
	"github.com/mohammadijoo/quarter_car_go/internal/geometry"
)

// Vertical extent of the animation window (m). The horizontal extent is the
// road window of each frame.
const (
	SceneZMin = -0.1
	SceneZMax = 1.9
)

// Chart line colors.
var (
	SprungColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	UnsprungColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	ContactColor  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// ------------------------------------------------------------
// Plot styling
// ------------------------------------------------------------

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot, labelFmt string) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)

	p.X.Label.TextStyle.Font.Size = vg.Points(13)
	p.Y.Label.TextStyle.Font.Size = vg.Points(13)
	p.X.Label.Padding = vg.Points(6)
	p.Y.Label.Padding = vg.Points(6)

	p.X.LineStyle.Width = vg.Points(1.5)
	p.Y.LineStyle.Width = vg.Points(1.5)
	p.X.Padding = vg.Points(10)
	p.Y.Padding = vg.Points(10)

	p.X.Tick.LineStyle.Width = vg.Points(1.2)
	p.Y.Tick.LineStyle.Width = vg.Points(1.2)
	p.X.Tick.Length = vg.Points(5)
	p.Y.Tick.Length = vg.Points(5)

	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)

	p.X.Tick.Marker = limitedTicker(5, labelFmt)
	p.Y.Tick.Marker = limitedTicker(5, labelFmt)
}

func xys(line geometry.Polyline) plotter.XYs {
	pts := make(plotter.XYs, len(line))
	for i, p := range line {
		pts[i].X = p.X
		pts[i].Y = p.Z
	}
	return pts
}

func addLine(p *plot.Plot, line geometry.Polyline, c color.Color, width float64) error {
	l, err := plotter.NewLine(xys(line))
	if err != nil {
		return err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(width)
	p.Add(l)
	return nil
}

func addBlock(p *plot.Plot, b geometry.Block) error {
	poly, err := plotter.NewPolygon(xys(b.Outline))
	if err != nil {
		return err
	}
	poly.Color = b.Fill
	poly.LineStyle.Color = color.Black
	poly.LineStyle.Width = vg.Points(1)
	p.Add(poly)
	return nil
}

// ------------------------------------------------------------
// Frames and chart
// ------------------------------------------------------------

// FramePlot draws one animation frame: road, wheel and body blocks, both
// springs, the damper and the contact marker.
func FramePlot(f engine.Frame, geo geometry.Config) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Label
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "z (m)"
	stylePlot(p, "%.1f")

	p.X.Min, p.X.Max = f.Road.XMin, f.Road.XMax
	p.Y.Min, p.Y.Max = SceneZMin, SceneZMax

	if err := addLine(p, f.Road.Line, geo.RoadColor, 2); err != nil {
		return nil, fmt.Errorf("road: %w", err)
	}
	if err := addBlock(p, f.Wheel); err != nil {
		return nil, fmt.Errorf("wheel: %w", err)
	}
	if err := addBlock(p, f.Body); err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	if err := addLine(p, f.TireSpring.Line, f.TireSpring.Color, 2); err != nil {
		return nil, fmt.Errorf("tire spring: %w", err)
	}
	if err := addLine(p, f.SuspensionSpring.Line, f.SuspensionSpring.Color, 2); err != nil {
		return nil, fmt.Errorf("suspension spring: %w", err)
	}

	d := f.Damper
	for _, part := range []struct {
		line  geometry.Polyline
		width float64
	}{
		{d.LowerRod, 2},
		{d.Cylinder, 2},
		{d.UpperRod, 2},
		{d.Piston, 4},
	} {
		if err := addLine(p, part.line, geo.DamperColor, part.width); err != nil {
			return nil, fmt.Errorf("damper: %w", err)
		}
	}

	contact, err := plotter.NewScatter(plotter.XYs{{X: f.Contact.X, Y: f.Contact.Z}})
	if err != nil {
		return nil, fmt.Errorf("contact: %w", err)
	}
	contact.GlyphStyle.Shape = draw.CircleGlyph{}
	contact.GlyphStyle.Color = ContactColor
	contact.GlyphStyle.Radius = vg.Points(3)
	p.Add(contact)

	return p, nil
}

// ChartPlot draws both displacement series against time with a legend.
func ChartPlot(c engine.Chart) (*plot.Plot, error) {
	if len(c.Time) == 0 {
		return nil, fmt.Errorf("chart: no samples")
	}

	p := plot.New()
	p.Title.Text = "Vertical Displacement"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Displacement (m)"
	stylePlot(p, "%.2f")
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(11)

	for _, s := range []struct {
		series engine.Series
		color  color.Color
	}{
		{c.Sprung, SprungColor},
		{c.Unsprung, UnsprungColor},
	} {
		if len(s.series.Values) != len(c.Time) {
			return nil, fmt.Errorf("chart: %s has %d values for %d samples", s.series.Label, len(s.series.Values), len(c.Time))
		}
		pts := make(plotter.XYs, len(c.Time))
		for i := range c.Time {
			pts[i].X = c.Time[i]
			pts[i].Y = s.series.Values[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = s.color
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.series.Label, line)
	}
	return p, nil
}

// FrameHeight returns the canvas height that keeps one meter the same length
// on both axes of f when the canvas is widthIn wide.
func FrameHeight(f engine.Frame, widthIn float64) float64 {
	span := f.Road.XMax - f.Road.XMin
	if !(span > 0) {
		return widthIn
	}
	return widthIn * (SceneZMax - SceneZMin) / span
}

// SaveFramePNG renders a frame plot at widthIn, deriving the height from
// the frame's scene extent.
func SaveFramePNG(p *plot.Plot, f engine.Frame, widthIn float64, dpi int, filename string) error {
	return SavePNG(p, widthIn, FrameHeight(f, widthIn), dpi, filename)
}

// SavePNG renders p on a widthIn x heightIn inch canvas at dpi and writes it
// to filename, creating the directory if needed.
func SavePNG(p *plot.Plot, widthIn, heightIn float64, dpi int, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	w := vg.Length(widthIn) * vg.Inch
	h := vg.Length(heightIn) * vg.Inch

	c := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(dpi),
	)
	dc := draw.New(c)
	p.Draw(dc)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
