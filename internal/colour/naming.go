package colour

import (
	"math"
	"strings"
	"unicode"
)

// CatalogEntry is a named reference colour.
type CatalogEntry struct {
	Name string
	RGB  RGB
}

// DefaultCatalog is the reference palette used for naming. Order matters:
// when two entries are equally close the earlier one wins.
var DefaultCatalog = []CatalogEntry{
	{Name: "white", RGB: RGB{R: 255, G: 255, B: 255}},
	{Name: "black", RGB: RGB{R: 0, G: 0, B: 0}},
	{Name: "gray", RGB: RGB{R: 128, G: 128, B: 128}},
	{Name: "red", RGB: RGB{R: 220, G: 20, B: 60}},
	{Name: "orange", RGB: RGB{R: 255, G: 140, B: 0}},
	{Name: "yellow", RGB: RGB{R: 255, G: 215, B: 0}},
	{Name: "green", RGB: RGB{R: 34, G: 139, B: 34}},
	{Name: "blue", RGB: RGB{R: 30, G: 144, B: 255}},
	{Name: "purple", RGB: RGB{R: 147, G: 112, B: 219}},
	{Name: "pink", RGB: RGB{R: 255, G: 182, B: 193}},
	{Name: "brown", RGB: RGB{R: 139, G: 69, B: 19}},
	{Name: "beige", RGB: RGB{R: 245, G: 245, B: 220}},
	{Name: "navy", RGB: RGB{R: 0, G: 0, B: 128}},
	{Name: "olive", RGB: RGB{R: 85, G: 107, B: 47}},
}

// Namer maps colours to the closest catalog name.
type Namer struct {
	catalog []CatalogEntry
}

// NewNamer creates a Namer over the given catalog, or DefaultCatalog if nil.
func NewNamer(catalog []CatalogEntry) *Namer {
	if len(catalog) == 0 {
		catalog = DefaultCatalog
	}
	return &Namer{catalog: catalog}
}

// Name returns the catalog name with the smallest squared RGB distance.
func (n *Namer) Name(rgb RGB) string {
	minDist := math.MaxInt
	closest := ""
	for _, entry := range n.catalog {
		if d := squaredDistance(rgb, entry.RGB); d < minDist {
			minDist = d
			closest = entry.Name
		}
	}
	return closest
}

// Lookup returns the catalog colour for name.
func (n *Namer) Lookup(name string) (RGB, bool) {
	for _, entry := range n.catalog {
		if entry.Name == name {
			return entry.RGB, true
		}
	}
	return RGB{}, false
}

func squaredDistance(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// DisplayName capitalises a catalog name for presentation ("navy" -> "Navy").
func DisplayName(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(strings.ToLower(name))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
