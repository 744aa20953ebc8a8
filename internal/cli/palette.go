package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/moodboard/internal/colour"
	"github.com/jmylchreest/moodboard/internal/config"
	"github.com/jmylchreest/moodboard/internal/image"
	"github.com/jmylchreest/moodboard/internal/llm"
	"github.com/jmylchreest/moodboard/internal/moodboard"
	"github.com/jmylchreest/moodboard/internal/util/palettecache"
)

// imageFlags are shared by the palette and brief commands.
type imageFlags struct {
	colours int
	format  string
	output  string
	preview bool
}

func (f *imageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.colours, "colours", "c", colour.DefaultColours,
		fmt.Sprintf("number of colours to extract (%d-%d)", colour.MinColours, colour.MaxColours))
	cmd.Flags().StringVarP(&f.format, "format", "f", formatTable, "output format (table, json)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "show colour swatches (default: on when stdout is a terminal)")
}

func (f *imageFlags) validate() error {
	cfg := colour.ExtractorConfig{ColourCount: f.colours, Seed: colour.DefaultSeed}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return validateFormat(f.format)
}

// showPreview honours an explicit --preview, otherwise previews on a TTY.
func (a *app) showPreview(cmd *cobra.Command, f *imageFlags) bool {
	if cmd.Flags().Changed("preview") {
		return f.preview
	}
	return f.format == formatTable && f.output == "" && a.isTerminal(cmd.OutOrStdout())
}

func (a *app) newPaletteCmd() *cobra.Command {
	var flags imageFlags
	cmd := &cobra.Command{
		Use:   "palette <image>",
		Short: "Extract a named and tagged colour palette from an image",
		Long: `Extract the dominant colours of an image with k-means clustering, then name
and tag each colour. No API key is needed.

The image may be a local file, an http(s) URL, or - for stdin.
Supported image formats: JPEG, PNG, GIF, WebP, BMP

Examples:
  # Five colours (default) as a table
  moodboard palette photo.jpg

  # Eight colours as JSON
  moodboard palette -c 8 -f json photo.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			svc := a.moodboardService(cfg, nil)

			src, err := a.loadImage(cmd.Context(), cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			board, err := svc.Analyse(cmd.Context(), src.Name, src.Data, flags.colours)
			if err != nil {
				return err
			}

			return a.writeOutput(cmd, flags.output, func(w io.Writer) error {
				if flags.format == formatJSON {
					return writeJSON(w, board)
				}
				_, err := io.WriteString(w, formatBoard(board, a.showPreview(cmd, &flags)))
				return err
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) newBriefCmd() *cobra.Command {
	var flags imageFlags
	cmd := &cobra.Command{
		Use:   "brief <image>",
		Short: "Generate a brand moodboard brief from an image's colours",
		Long: `Extract the palette of an image and ask Gemini for brand keywords, a vibe
description and a short analysis of every colour.

Examples:
  moodboard brief photo.jpg
  moodboard brief -c 7 --format json https://example.com/photo.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			cfg, gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			svc := a.moodboardService(cfg, gen)

			src, err := a.loadImage(cmd.Context(), cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			a.logger.Info("generating brand brief", "image", src.Name, "colours", flags.colours)
			res, err := svc.Generate(cmd.Context(), src.Name, src.Data, flags.colours)
			if err != nil {
				writeRawOutput(cmd.ErrOrStderr(), err)
				return err
			}

			return a.writeOutput(cmd, flags.output, func(w io.Writer) error {
				if flags.format == formatJSON {
					return writeJSON(w, res)
				}
				preview := a.showPreview(cmd, &flags)
				var sb strings.Builder
				sb.WriteString(formatBoard(res.Board, preview))
				sb.WriteString("\n")
				sb.WriteString(formatBrief(moodboard.NewView(res.Brief), preview))
				_, err := io.WriteString(w, sb.String())
				return err
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) moodboardService(cfg *config.Config, gen llm.Generator) *moodboard.Service {
	return moodboard.New(moodboard.Options{
		Generator: gen,
		Extractor: colour.NewKMeansExtractor(colour.WithMaxSamples(cfg.SampleLimit)),
		Cache:     palettecache.New(palettecache.Options{MaxEntries: cfg.CacheMaxEntries}),
		Logger:    a.logger.Named("moodboard"),
	})
}

// loadImage reads an image from a path, a URL, or stdin when path is "-".
func (a *app) loadImage(ctx context.Context, stdin io.Reader, path string) (*image.Source, error) {
	if path == "-" {
		src, err := image.ReadAll("stdin", stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to load image: %w", err)
		}
		return src, nil
	}

	if err := image.ValidateImagePath(path); err != nil {
		return nil, fmt.Errorf("invalid image path: %w", err)
	}
	a.logger.Debug("loading image", "path", path)

	src, err := image.NewSmartLoader().Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	bounds := src.Image.Bounds()
	a.logger.Debug("image loaded", "format", src.Format, "width", bounds.Dx(), "height", bounds.Dy())
	return src, nil
}

// writeOutput sends rendered output to a file or stdout.
func (a *app) writeOutput(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	if path == "" {
		return render(cmd.OutOrStdout())
	}

	a.logger.Debug("writing output", "path", path)
	f, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	a.logger.Info("wrote output", "path", path)
	return nil
}
