package colour

import (
	"fmt"
	"image"
	"math"
	"math/rand"
)

// KMeansExtractor implements colour extraction using k-means clustering.
// Every call uses a fresh random source seeded with the configured seed, so
// the same pixels and count always produce the same palette.
type KMeansExtractor struct {
	seed          int64
	maxIterations int
	convergence   float64
	maxSamples    int
}

// KMeansOption configures a KMeansExtractor.
type KMeansOption func(*KMeansExtractor)

// WithSeed sets the random seed.
func WithSeed(seed int64) KMeansOption {
	return func(e *KMeansExtractor) { e.seed = seed }
}

// WithMaxSamples limits how many pixels Extract reads from an image.
// Zero reads every pixel.
func WithMaxSamples(n int) KMeansOption {
	return func(e *KMeansExtractor) {
		if n >= 0 {
			e.maxSamples = n
		}
	}
}

// NewKMeansExtractor creates a new KMeansExtractor with default settings.
func NewKMeansExtractor(opts ...KMeansOption) *KMeansExtractor {
	e := &KMeansExtractor{
		seed:          DefaultSeed,
		maxIterations: 100,
		convergence:   0.01,
		maxSamples:    40000,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract samples the image and clusters its pixels.
func (e *KMeansExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	return e.ExtractPixels(SamplePixels(img, e.maxSamples), count)
}

// ExtractPixels partitions pixels into count clusters and returns the
// centroids, rounded to integer RGB and ordered by ascending luminance.
func (e *KMeansExtractor) ExtractPixels(pixels []RGB, count int) (*Palette, error) {
	if len(pixels) == 0 {
		return nil, fmt.Errorf("no pixels found in image")
	}
	if count < 1 {
		return nil, fmt.Errorf("colour count must be at least 1, got %d", count)
	}

	points := make([]point3D, len(pixels))
	for i, p := range pixels {
		points[i] = point3D{R: float64(p.R), G: float64(p.G), B: float64(p.B)}
	}

	rng := rand.New(rand.NewSource(e.seed)) // #nosec G404 -- reproducibility, not security
	centroids := e.kmeans(rng, points, count)

	colours := make([]RGB, len(centroids))
	for i, c := range centroids {
		colours[i] = RGB{R: roundChannel(c.R), G: roundChannel(c.G), B: roundChannel(c.B)}
	}
	return NewPalette(colours), nil
}

// SamplePixels flattens an image into row-major RGB pixels. Images with more
// than maxSamples pixels are grid sampled; maxSamples of zero reads them all.
func SamplePixels(img image.Image, maxSamples int) []RGB {
	bounds := img.Bounds()
	totalPixels := bounds.Dx() * bounds.Dy()
	if totalPixels <= 0 {
		return nil
	}

	step := 1
	if maxSamples > 0 && totalPixels > maxSamples {
		step = int(math.Ceil(math.Sqrt(float64(totalPixels) / float64(maxSamples))))
	}

	pixels := make([]RGB, 0, totalPixels/(step*step)+1)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			pixels = append(pixels, ToRGB(img.At(x, y)))
		}
	}
	return pixels
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

// distanceSq returns the squared Euclidean distance between two points.
func (p point3D) distanceSq(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return dr*dr + dg*dg + db*db
}

func roundChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// kmeans runs Lloyd's algorithm from a k-means++ start and returns the centroids.
func (e *KMeansExtractor) kmeans(rng *rand.Rand, points []point3D, k int) []point3D {
	centroids := initializeCentroidsKMeansPlusPlus(rng, points, k)
	assignments := make([]int, len(points))

	for iter := 0; iter < e.maxIterations; iter++ {
		changed := 0
		for i, point := range points {
			nearest := findNearestCentroid(point, centroids)
			if iter == 0 || assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}
		if iter > 0 && changed == 0 {
			break
		}

		newCentroids := recalculateCentroids(rng, points, assignments, k)

		movement := 0.0
		for i := range centroids {
			movement += math.Sqrt(centroids[i].distanceSq(newCentroids[i]))
		}
		centroids = newCentroids

		if movement/float64(k) < e.convergence {
			break
		}
	}

	return centroids
}

// initializeCentroidsKMeansPlusPlus picks starting centroids with
// probability proportional to squared distance from those already chosen.
func initializeCentroidsKMeansPlusPlus(rng *rand.Rand, points []point3D, k int) []point3D {
	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])

	distances := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, point := range points {
			minDist := math.MaxFloat64
			for _, c := range centroids {
				minDist = math.Min(minDist, point.distanceSq(c))
			}
			distances[i] = minDist
			total += minDist
		}

		if total == 0 {
			// Every point coincides with a centroid; nudge a copy of the last one.
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point3D{R: last.R + 0.1, G: last.G + 0.1, B: last.B + 0.1})
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(points) - 1
		for i, d := range distances {
			cumulative += d
			if d > 0 && cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}

	return centroids
}

// findNearestCentroid finds the index of the nearest centroid to a point.
func findNearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, c := range centroids {
		if d := point.distanceSq(c); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids averages the points assigned to each cluster.
// Empty clusters are re-seeded from a random point.
func recalculateCentroids(rng *rand.Rand, points []point3D, assignments []int, k int) []point3D {
	sums := make([]point3D, k)
	counts := make([]int, k)

	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].R += point.R
		sums[cluster].G += point.G
		sums[cluster].B += point.B
		counts[cluster]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] > 0 {
			n := float64(counts[i])
			centroids[i] = point3D{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
		} else {
			centroids[i] = points[rng.Intn(len(points))]
		}
	}

	return centroids
}
