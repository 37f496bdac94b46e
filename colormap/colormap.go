// Package colormap turns a parsed .pal color table into a linear colormap
// and a value normalizer.
//
// Colormap stops are evenly spaced by their index in the table, not by
// their data value. The Normalizer maps data values onto [0, 1] using the
// true minimum and maximum, and renderers compose the two.
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"slices"

	"hstin/palcolormap/parser"
)

var (
	ErrNoColors       = errors.New("colormap needs at least one color")
	ErrLengthMismatch = errors.New("colors and values differ in length")
	ErrRange          = errors.New("value range not representable")
)

// MaxResolution bounds the number of bins Build allocates.
const MaxResolution = 1 << 20

// RGB is a color with channels in [0, 1]. Channels are not range checked.
type RGB struct {
	R, G, B float64
}

func ExtractColors(table *parser.ColorTable) []RGB {
	colors := make([]RGB, len(table.Entries))
	for i, e := range table.Entries {
		colors[i] = RGB{
			R: float64(e.Red) / 255.0,
			G: float64(e.Green) / 255.0,
			B: float64(e.Blue) / 255.0,
		}
	}
	return colors
}

// Colormap maps a position in [0, 1] to a color. Lookups are quantized to
// Resolution() bins. Use Build, Load or FromTable to create one; the zero
// value has no colors and maps every position to the zero RGB.
type Colormap struct {
	name   string
	colors []RGB
	lut    []RGB
}

// Build creates the colormap and normalizer for colors keyed by values.
// The number of bins is round(max-min), at least 1.
func Build(colors []RGB, values []float64) (*Colormap, *Normalizer, error) {
	if len(colors) == 0 {
		return nil, nil, ErrNoColors
	}
	if len(colors) != len(values) {
		return nil, nil, ErrLengthMismatch
	}

	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, fmt.Errorf("%w: value %v", ErrRange, v)
		}
	}

	vmin, vmax := slices.Min(values), slices.Max(values)
	if vmin == vmax {
		Logger().Warn("degenerate value range", "value", vmin)
	}

	span := math.Round(vmax - vmin)
	if math.IsInf(span, 0) || span > MaxResolution {
		return nil, nil, fmt.Errorf("%w: %g to %g needs more than %d bins", ErrRange, vmin, vmax, MaxResolution)
	}
	n := int(span)
	if n < 1 {
		n = 1
	}

	cm := &Colormap{colors: slices.Clone(colors)}
	cm.lut = make([]RGB, n)
	if n == 1 {
		cm.lut[0] = cm.colors[len(cm.colors)-1]
	} else {
		for i := range cm.lut {
			cm.lut[i] = cm.Interpolate(float64(i) / float64(n-1))
		}
	}

	Logger().Debug("built colormap", "colors", len(colors), "bins", n, "min", vmin, "max", vmax)

	return cm, &Normalizer{Min: vmin, Max: vmax}, nil
}

func (c *Colormap) Name() string {
	return c.name
}

func (c *Colormap) Resolution() int {
	return len(c.lut)
}

// Stops returns the position of every input color.
func (c *Colormap) Stops() []float64 {
	if len(c.colors) == 0 {
		return nil
	}
	if len(c.colors) == 1 {
		return []float64{0}
	}
	stops := make([]float64, len(c.colors))
	for i := range stops {
		stops[i] = float64(i) / float64(len(c.colors)-1)
	}
	return stops
}

// Colors returns a copy of the lookup table.
func (c *Colormap) Colors() []RGB {
	return slices.Clone(c.lut)
}

// Interpolate returns the unquantized color at position t. t is clamped
// to [0, 1].
func (c *Colormap) Interpolate(t float64) RGB {
	last := len(c.colors) - 1
	if last < 0 {
		return RGB{}
	}
	if last == 0 || t <= 0 || math.IsNaN(t) {
		return c.colors[0]
	}
	if t >= 1 {
		return c.colors[last]
	}

	idx := t * float64(last)
	lower := int(idx)
	if lower >= last {
		return c.colors[last]
	}

	return lerp(c.colors[lower], c.colors[lower+1], idx-float64(lower))
}

// At returns the lookup-table color for position t. Positions below 0
// map to the first bin and above 1 to the last. NaN gives the zero RGB.
func (c *Colormap) At(t float64) RGB {
	n := len(c.lut)
	switch {
	case n == 0, math.IsNaN(t):
		return RGB{}
	case t < 0:
		return c.lut[0]
	case t >= 1:
		return c.lut[n-1]
	}

	idx := int(t * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return c.lut[idx]
}

// RGBA is At with 8-bit channels. NaN gives a transparent color.
func (c *Colormap) RGBA(t float64) color.RGBA {
	if len(c.lut) == 0 || math.IsNaN(t) {
		return color.RGBA{}
	}
	rgb := c.At(t)
	return color.RGBA{
		R: to8(rgb.R),
		G: to8(rgb.G),
		B: to8(rgb.B),
		A: 255,
	}
}

func lerp(c1, c2 RGB, t float64) RGB {
	return RGB{
		R: c1.R + t*(c2.R-c1.R),
		G: c1.G + t*(c2.G-c1.G),
		B: c1.B + t*(c2.B-c1.B),
	}
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Normalizer scales data values linearly between Min and Max.
type Normalizer struct {
	Min float64
	Max float64
}

// Normalize maps v to [0, 1], clamping values outside the range. It
// returns NaN when Min == Max or v is NaN.
func (n *Normalizer) Normalize(v float64) float64 {
	if math.IsNaN(v) || n.Max == n.Min {
		return math.NaN()
	}

	t := (v - n.Min) / (n.Max - n.Min)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
