// Package cli provides the command-line interface for moodboard.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/moodboard/internal/config"
	"github.com/jmylchreest/moodboard/internal/llm"
	"github.com/jmylchreest/moodboard/internal/llm/googlegenai"
	"github.com/jmylchreest/moodboard/internal/version"
)

// GeneratorFactory builds the language model client once configuration has
// been loaded.
type GeneratorFactory func(ctx context.Context, cfg *config.Config, logger hclog.Logger) (llm.Generator, error)

// Option customises the command tree, mainly for tests.
type Option func(*app)

// WithGeneratorFactory replaces the Gemini client factory.
func WithGeneratorFactory(f GeneratorFactory) Option {
	return func(a *app) { a.newGenerator = f }
}

// WithGetenv replaces os.Getenv for configuration lookups.
func WithGetenv(getenv func(string) string) Option {
	return func(a *app) { a.getenv = getenv }
}

// WithDotEnv controls whether ./.env is loaded into the environment.
func WithDotEnv(enabled bool) Option {
	return func(a *app) { a.dotEnv = enabled }
}

// app holds global flag values and injected dependencies for one command tree.
type app struct {
	verbose     bool
	quiet       bool
	secretsFile string
	model       string
	backend     string

	dotEnv       bool
	getenv       func(string) string
	newGenerator GeneratorFactory
	isTerminal   func(io.Writer) bool

	logger hclog.Logger
}

func defaultGenerator(ctx context.Context, cfg *config.Config, logger hclog.Logger) (llm.Generator, error) {
	gen, err := googlegenai.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return gen, nil
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{
		dotEnv:       true,
		getenv:       os.Getenv,
		newGenerator: defaultGenerator,
		isTerminal:   isTerminal,
		logger:       hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:   "moodboard",
		Short: "Colour moodboards and parent-message replies powered by Gemini",
		Long: `moodboard extracts a dominant colour palette from an image, names and tags
each colour, and asks Google Gemini for brand keywords, a vibe description
and a per-colour analysis.

It can also draft replies to difficult parent messages: a professional
reply, a sarcastic venting reply in one of four moods, or an emotion
classification followed by a professional reply.

The API key is read from GEMINI_API_KEY (or GOOGLE_API_KEY) in the secrets
file, a .env file or the environment.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.verbose && a.quiet {
				return fmt.Errorf("--verbose and --quiet cannot be used together")
			}
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose, a.quiet)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&a.secretsFile, "secrets", config.DefaultSecretsFile, "dotenv-format secrets file")
	rootCmd.PersistentFlags().StringVar(&a.model, "model", "", "Gemini model (default "+config.DefaultModel+")")
	rootCmd.PersistentFlags().StringVar(&a.backend, "genai-backend", "", "Gen AI backend (gemini-api, vertex-ai)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newVersionCmd(),
		a.newPaletteCmd(),
		a.newBriefCmd(),
		a.newReplyCmd(),
		a.newVentCmd(),
		a.newClassifyCmd(),
		a.newModelsCmd(),
		a.newServeCmd(),
	)

	return rootCmd
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose, quiet bool) hclog.Logger {
	level := hclog.Info
	switch {
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "moodboard",
		Output: w,
		Level:  level,
	})
}

// loadConfig resolves configuration and applies flag overrides.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		SecretsFile: a.secretsFile,
		DotEnv:      a.dotEnv,
		Getenv:      a.getenv,
	})
	if err != nil {
		return nil, err
	}
	if a.model != "" {
		cfg.Model = a.model
	}
	if a.backend != "" {
		cfg.Backend = strings.ToLower(a.backend)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a.logger.Debug("configuration loaded", "model", cfg.Model, "backend", cfg.Backend,
		"api_key_set", cfg.APIKey != "", "secrets_file", a.secretsFile)
	return cfg, nil
}

// generator loads configuration and builds the client. A missing API key
// fails here, before any input is read.
func (a *app) generator(ctx context.Context) (*config.Config, llm.Generator, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}
	gen, err := a.newGenerator(ctx, cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gen, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
