package colour

import (
	"fmt"
	"image"
)

const (
	// MinColours is the smallest palette size a caller may request.
	MinColours = 3
	// MaxColours is the largest palette size a caller may request.
	MaxColours = 10
	// DefaultColours is the palette size used when none is given.
	DefaultColours = 5

	// DefaultSeed seeds k-means so repeated runs agree.
	DefaultSeed int64 = 42
)

// Extractor defines the interface for colour extraction algorithms.
type Extractor interface {
	// Extract extracts a colour palette from an image.
	Extract(img image.Image, count int) (*Palette, error)
	// ExtractPixels extracts a colour palette from already flattened pixels.
	ExtractPixels(pixels []RGB, count int) (*Palette, error)
}

// ExtractorConfig holds configuration for colour extraction.
type ExtractorConfig struct {
	ColourCount int
	Seed        int64
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		ColourCount: DefaultColours,
		Seed:        DefaultSeed,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if c.ColourCount < MinColours || c.ColourCount > MaxColours {
		return fmt.Errorf("colour count must be between %d and %d, got %d", MinColours, MaxColours, c.ColourCount)
	}
	return nil
}

// ClampCount clamps a requested palette size into [MinColours, MaxColours].
func ClampCount(count int) int {
	return min(max(count, MinColours), MaxColours)
}
