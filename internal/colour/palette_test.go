package colour

import (
	"encoding/json"
	"image/color"
	"math"
	"testing"
)

func TestNewPaletteSortsByLuminance(t *testing.T) {
	palette := NewPalette([]RGB{
		{R: 255, G: 255, B: 255},
		{R: 0, G: 0, B: 0},
		{R: 0, G: 0, B: 255},
		{R: 255, G: 0, B: 0},
	})

	want := []string{"#000000", "#0000ff", "#ff0000", "#ffffff"}
	got := palette.ToHex()
	if len(got) != len(want) {
		t.Fatalf("Expected %d colours, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("colour %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNewPaletteStableForEqualLuminance(t *testing.T) {
	a := RGB{R: 10, G: 10, B: 10}
	b := RGB{R: 10, G: 10, B: 10}
	c := RGB{R: 5, G: 5, B: 5}
	palette := NewPalette([]RGB{a, b, c})
	if palette.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", palette.Len())
	}
	if first := palette.Colours()[0]; first != c {
		t.Errorf("first colour = %v, want %v", first, c)
	}
}

func TestRGBLuminance(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want float64
	}{
		{name: "black", rgb: RGB{}, want: 0},
		{name: "white", rgb: RGB{R: 255, G: 255, B: 255}, want: 255},
		{name: "red", rgb: RGB{R: 255}, want: 76.245},
		{name: "green", rgb: RGB{G: 100}, want: 58.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rgb.Luminance(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Luminance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{name: "opaque", color: color.RGBA{R: 255, G: 0, B: 0, A: 255}, want: RGB{R: 255}},
		{name: "nrgba keeps channels", color: color.NRGBA{R: 200, G: 100, B: 50, A: 128}, want: RGB{R: 200, G: 100, B: 50}},
		{name: "gray", color: color.Gray{Y: 128}, want: RGB{R: 128, G: 128, B: 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.color); got != tt.want {
				t.Errorf("ToRGB() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRGBHex(t *testing.T) {
	tests := []struct {
		rgb  RGB
		want string
	}{
		{rgb: RGB{R: 255}, want: "#ff0000"},
		{rgb: RGB{R: 128, G: 128, B: 128}, want: "#808080"},
		{rgb: RGB{R: 1, G: 2, B: 3}, want: "#010203"},
	}
	for _, tt := range tests {
		if got := tt.rgb.Hex(); got != tt.want {
			t.Errorf("Hex() = %s, want %s", got, tt.want)
		}
	}
}

func TestPaletteColoursIsCopy(t *testing.T) {
	palette := NewPalette([]RGB{{R: 1}, {R: 2}})
	colours := palette.Colours()
	colours[0] = RGB{R: 99}
	if c := palette.Colours()[0]; c.R == 99 {
		t.Error("Palette was modified through Colours()")
	}
}

func TestPaletteMarshalJSON(t *testing.T) {
	palette := NewPalette([]RGB{{R: 255, G: 255, B: 255}, {}})
	data, err := json.Marshal(palette)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded PaletteJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Count != 2 {
		t.Errorf("Count = %d, want 2", decoded.Count)
	}
	if decoded.Colours[0].Hex != "#000000" {
		t.Errorf("first colour = %s, want #000000", decoded.Colours[0].Hex)
	}
}
