package colour

// Tag is a descriptive style label derived from a colour.
type Tag string

// Style tags. Exactly one temperature tag is produced for every colour.
const (
	TagCool    Tag = "cool"
	TagWarm    Tag = "warm"
	TagNeutral Tag = "neutral"
	TagBright  Tag = "bright"
	TagDark    Tag = "dark"
	TagVivid   Tag = "vivid"
	TagMuted   Tag = "muted"
	TagLuxury  Tag = "luxury"
	TagNatural Tag = "natural"
)

// TagThresholds holds the cut-offs used by Tagger. The defaults are
// empirical and reproduce the reference behaviour exactly.
type TagThresholds struct {
	// Bright fires when mean brightness is above this value.
	Bright float64
	// Dark fires when mean brightness is below this value.
	Dark float64
	// Vivid fires when chroma (max-min channel) is above this value.
	Vivid int
	// Muted fires when chroma is below this value.
	Muted int

	// Luxury fires when brightness < LuxuryBrightness and chroma < LuxuryChroma.
	LuxuryBrightness float64
	LuxuryChroma     int

	// Natural fires when R > NaturalMinR, G > NaturalMinG, B < NaturalMaxB
	// and chroma > NaturalMinChroma.
	NaturalMinR      uint8
	NaturalMinG      uint8
	NaturalMaxB      uint8
	NaturalMinChroma int
}

// DefaultTagThresholds returns the reference thresholds.
func DefaultTagThresholds() TagThresholds {
	return TagThresholds{
		Bright:           200,
		Dark:             60,
		Vivid:            100,
		Muted:            30,
		LuxuryBrightness: 120,
		LuxuryChroma:     50,
		NaturalMinR:      120,
		NaturalMinG:      100,
		NaturalMaxB:      80,
		NaturalMinChroma: 20,
	}
}

// Tagger derives style tags from colours.
type Tagger struct {
	t TagThresholds
}

// NewTagger creates a Tagger with the given thresholds.
func NewTagger(t TagThresholds) *Tagger {
	return &Tagger{t: t}
}

// Brightness returns the mean of the three channels.
func Brightness(rgb RGB) float64 {
	return (float64(rgb.R) + float64(rgb.G) + float64(rgb.B)) / 3
}

// Chroma returns the spread between the largest and smallest channel.
func Chroma(rgb RGB) int {
	hi := max(rgb.R, rgb.G, rgb.B)
	lo := min(rgb.R, rgb.G, rgb.B)
	return int(hi) - int(lo)
}

// Tags evaluates the rules in order: temperature, brightness, chroma,
// luxury, natural.
func (tg *Tagger) Tags(rgb RGB) []Tag {
	r, g, b := rgb.R, rgb.G, rgb.B
	brightness := Brightness(rgb)
	chroma := Chroma(rgb)

	tags := make([]Tag, 0, 5)

	switch {
	case b > r && b > g:
		tags = append(tags, TagCool)
	case r > b && g > b:
		tags = append(tags, TagWarm)
	default:
		tags = append(tags, TagNeutral)
	}

	switch {
	case brightness > tg.t.Bright:
		tags = append(tags, TagBright)
	case brightness < tg.t.Dark:
		tags = append(tags, TagDark)
	}

	switch {
	case chroma > tg.t.Vivid:
		tags = append(tags, TagVivid)
	case chroma < tg.t.Muted:
		tags = append(tags, TagMuted)
	}

	if brightness < tg.t.LuxuryBrightness && chroma < tg.t.LuxuryChroma {
		tags = append(tags, TagLuxury)
	}

	if r > tg.t.NaturalMinR && g > tg.t.NaturalMinG && b < tg.t.NaturalMaxB && chroma > tg.t.NaturalMinChroma {
		tags = append(tags, TagNatural)
	}

	return tags
}

// TagStrings converts tags to plain strings.
func TagStrings(tags []Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
