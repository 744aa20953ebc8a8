// Package colour provides colour extraction, naming and style tagging.
package colour

import (
	"encoding/json"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
)

// lumaWeights are the channel weights used for palette ordering.
var lumaWeights = []float64{0.299, 0.587, 0.114}

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Luminance returns 0.299R + 0.587G + 0.114B on the 0-255 scale.
// It is only used for palette ordering, never for tagging.
func (rgb RGB) Luminance() float64 {
	return floats.Dot(rgb.vector(), lumaWeights)
}

func (rgb RGB) vector() []float64 {
	return []float64{float64(rgb.R), float64(rgb.G), float64(rgb.B)}
}

// ToRGB converts a color.Color to RGB, dropping alpha without premultiplying.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// Palette is an ordered set of colours, darkest first.
// A Palette is never modified after construction.
type Palette struct {
	colours []RGB
}

// NewPalette creates a Palette from colours, ordering them by ascending
// luminance. Equal luminances keep their input order.
func NewPalette(colours []RGB) *Palette {
	lum := make([]float64, len(colours))
	for i, c := range colours {
		lum[i] = c.Luminance()
	}
	inds := make([]int, len(colours))
	floats.ArgsortStable(lum, inds)

	sorted := make([]RGB, len(colours))
	for i, idx := range inds {
		sorted[i] = colours[idx]
	}
	return &Palette{colours: sorted}
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.colours)
}

// Colours returns a copy of the palette colours.
func (p *Palette) Colours() []RGB {
	out := make([]RGB, len(p.colours))
	copy(out, p.colours)
	return out
}

// ToHex converts the palette colours to hex strings.
func (p *Palette) ToHex() []string {
	hexColours := make([]string, len(p.colours))
	for i, c := range p.colours {
		hexColours[i] = c.Hex()
	}
	return hexColours
}

// All returns an iterator over all colours in the palette.
func (p *Palette) All() func(func(int, RGB) bool) {
	return func(yield func(int, RGB) bool) {
		for i, c := range p.colours {
			if !yield(i, c) {
				return
			}
		}
	}
}

// ColourJSON represents a colour in JSON output format.
type ColourJSON struct {
	Hex       string  `json:"hex"`
	RGB       RGB     `json:"rgb"`
	Luminance float64 `json:"luminance"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count   int          `json:"count"`
	Colours []ColourJSON `json:"colours"`
}

// MarshalJSON implements json.Marshaler.
func (p *Palette) MarshalJSON() ([]byte, error) {
	colours := make([]ColourJSON, len(p.colours))
	for i, c := range p.colours {
		colours[i] = ColourJSON{Hex: c.Hex(), RGB: c, Luminance: c.Luminance()}
	}
	return json.Marshal(PaletteJSON{Count: len(colours), Colours: colours})
}

// String returns a human-readable string representation of the palette.
func (p *Palette) String() string {
	if len(p.colours) == 0 {
		return "Empty palette"
	}

	result := fmt.Sprintf("Palette with %d colours:\n", len(p.colours))
	for i, c := range p.colours {
		result += fmt.Sprintf("  %2d: %s (%s)\n", i+1, c.Hex(), c.String())
	}
	return result
}
