package colour

// NamedColour is a palette colour with its catalog name and style tags.
type NamedColour struct {
	RGB  RGB    `json:"rgb"`
	Hex  string `json:"hex"`
	Name string `json:"name"`
	Tags []Tag  `json:"tags"`
}

// Describer derives NamedColours. It holds no mutable state.
type Describer struct {
	namer  *Namer
	tagger *Tagger
}

// NewDescriber creates a Describer from a namer and tagger.
func NewDescriber(namer *Namer, tagger *Tagger) *Describer {
	return &Describer{namer: namer, tagger: tagger}
}

// DefaultDescriber uses DefaultCatalog and DefaultTagThresholds.
func DefaultDescriber() *Describer {
	return NewDescriber(NewNamer(nil), NewTagger(DefaultTagThresholds()))
}

// Describe names and tags a single colour.
func (d *Describer) Describe(rgb RGB) NamedColour {
	return NamedColour{
		RGB:  rgb,
		Hex:  rgb.Hex(),
		Name: d.namer.Name(rgb),
		Tags: d.tagger.Tags(rgb),
	}
}

// DescribePalette describes every colour in palette order.
func (d *Describer) DescribePalette(p *Palette) []NamedColour {
	out := make([]NamedColour, 0, p.Len())
	for _, c := range p.All() {
		out = append(out, d.Describe(c))
	}
	return out
}
