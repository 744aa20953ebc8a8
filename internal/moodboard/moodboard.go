// Package moodboard runs the image flow: palette extraction, naming and
// tagging, then a brand brief from the language model.
package moodboard

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/moodboard/internal/apperr"
	"github.com/jmylchreest/moodboard/internal/colour"
	"github.com/jmylchreest/moodboard/internal/image"
	"github.com/jmylchreest/moodboard/internal/llm"
	"github.com/jmylchreest/moodboard/internal/prompt"
	"github.com/jmylchreest/moodboard/internal/response"
	"github.com/jmylchreest/moodboard/internal/util/palettecache"
)

// Board is the colour analysis of one image.
type Board struct {
	Name     string               `json:"name"`
	Count    int                  `json:"count"`
	Palette  *colour.Palette      `json:"palette"`
	Colours  []colour.NamedColour `json:"colours"`
	CacheHit bool                 `json:"cache_hit"`
}

// Result is a board together with its brand brief.
type Result struct {
	Board *Board          `json:"board"`
	Brief *response.Brief `json:"brief"`
}

// Options configures a Service. Only Generator is needed for Brief; a
// Service without one can still Analyse.
type Options struct {
	Generator llm.Generator
	Extractor *colour.KMeansExtractor
	Describer *colour.Describer
	Cache     *palettecache.Cache
	Logger    hclog.Logger
}

// Service runs the moodboard pipeline. It is safe for concurrent use.
type Service struct {
	gen       llm.Generator
	extractor *colour.KMeansExtractor
	describer *colour.Describer
	cache     *palettecache.Cache
	logger    hclog.Logger
}

// New creates a Service, filling unset options with defaults.
func New(opts Options) *Service {
	s := &Service{
		gen:       opts.Generator,
		extractor: opts.Extractor,
		describer: opts.Describer,
		cache:     opts.Cache,
		logger:    opts.Logger,
	}
	if s.extractor == nil {
		s.extractor = colour.NewKMeansExtractor()
	}
	if s.describer == nil {
		s.describer = colour.DefaultDescriber()
	}
	if s.cache == nil {
		s.cache = palettecache.New(palettecache.Options{})
	}
	if s.logger == nil {
		s.logger = hclog.NewNullLogger()
	}
	return s
}

// Cache returns the palette cache.
func (s *Service) Cache() *palettecache.Cache {
	return s.cache
}

// Analyse extracts, names and tags the dominant colours of raw image bytes.
// count is clamped to [colour.MinColours, colour.MaxColours]. Identical
// bytes and count are served from the cache without decoding again.
func (s *Service) Analyse(ctx context.Context, name string, data []byte, count int) (*Board, error) {
	const op = "moodboard.analyse"

	if len(data) == 0 {
		return nil, apperr.Input(op, "no image provided")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := colour.ClampCount(count)
	if k != count {
		s.logger.Debug("clamped colour count", "requested", count, "using", k)
	}

	key := palettecache.NewKey(data, k)
	start := time.Now()
	palette, hit, err := s.cache.GetOrCompute(key, func() (*colour.Palette, error) {
		src, err := image.Decode(name, data)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInput, op, err, "could not read image")
		}
		s.logger.Debug("decoded image", "name", name, "format", src.Format,
			"width", src.Image.Bounds().Dx(), "height", src.Image.Bounds().Dy())

		p, err := s.extractor.Extract(src.Image, k)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInput, op, err, "could not extract colours")
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("palette ready", "key", key.String(), "cache_hit", hit,
		"cache_entries", s.cache.Len(), "elapsed", time.Since(start))

	return &Board{
		Name:     name,
		Count:    k,
		Palette:  palette,
		Colours:  s.describer.DescribePalette(palette),
		CacheHit: hit,
	}, nil
}

// Brief asks the language model for a brand brief of the board's colours.
func (s *Service) Brief(ctx context.Context, board *Board) (*response.Brief, error) {
	const op = "moodboard.brief"

	if board == nil || len(board.Colours) == 0 {
		return nil, apperr.Input(op, "no colours to describe")
	}
	if s.gen == nil {
		return nil, apperr.Configuration(op, "no language model configured")
	}

	text, err := prompt.BrandBrief(board.Colours)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInput, op, err, "could not build prompt")
	}

	s.logger.Info("requesting brand brief", "colours", len(board.Colours))
	start := time.Now()
	raw, err := s.gen.Generate(ctx, llm.Request{Prompt: text})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("brand brief received", "elapsed", time.Since(start), "chars", len(raw))

	brief, err := response.ParseBrief(raw)
	if err != nil {
		s.logger.Warn("brand brief was not valid JSON", "error", err)
		return nil, err
	}
	return brief, nil
}

// Generate runs Analyse followed by Brief.
func (s *Service) Generate(ctx context.Context, name string, data []byte, count int) (*Result, error) {
	board, err := s.Analyse(ctx, name, data, count)
	if err != nil {
		return nil, err
	}
	brief, err := s.Brief(ctx, board)
	if err != nil {
		return &Result{Board: board}, err
	}
	return &Result{Board: board, Brief: brief}, nil
}
