// Package config loads moodboard settings from a dotenv secrets file, an
// optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jmylchreest/moodboard/internal/apperr"
)

// Environment and secrets-file keys.
const (
	KeyGeminiAPIKey    = "GEMINI_API_KEY"
	KeyGoogleAPIKey    = "GOOGLE_API_KEY"
	KeyModel           = "MOODBOARD_MODEL"
	KeyBackend         = "MOODBOARD_GENAI_BACKEND"
	KeyHTTPAddr        = "HTTP_ADDR"
	KeySampleLimit     = "MOODBOARD_SAMPLE_LIMIT"
	KeyCacheMaxEntries = "MOODBOARD_CACHE_MAX_ENTRIES"
)

// Defaults.
const (
	DefaultSecretsFile = "secrets.env"
	DefaultModel       = "gemini-2.5-flash"
	DefaultHTTPAddr    = ":8080"
	DefaultSampleLimit = 40000

	BackendGeminiAPI = "gemini-api"
	BackendVertexAI  = "vertex-ai"
)

// Config holds resolved settings.
type Config struct {
	APIKey          string
	Model           string
	Backend         string
	HTTPAddr        string
	SampleLimit     int
	CacheMaxEntries int
}

// Options controls where Load looks for values.
type Options struct {
	// SecretsFile is a dotenv-format file consulted before the environment.
	// A missing file is not an error.
	SecretsFile string

	// DotEnv loads ./.env into the process environment first, without
	// overriding variables that are already set.
	DotEnv bool

	// Getenv reads the environment. Defaults to os.Getenv.
	Getenv func(string) string
}

// Load resolves the configuration. It does not require an API key; callers
// that talk to the remote service call RequireAPIKey.
func Load(opts Options) (*Config, error) {
	const op = "config.load"

	if opts.DotEnv {
		// Optional, so a missing .env is ignored.
		_ = godotenv.Load()
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	secrets := map[string]string{}
	if opts.SecretsFile != "" {
		values, err := godotenv.Read(opts.SecretsFile)
		switch {
		case err == nil:
			secrets = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, apperr.Wrap(apperr.KindConfiguration, op, err,
				fmt.Sprintf("failed to read secrets file %s", opts.SecretsFile))
		}
	}

	lookup := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(secrets[k]); v != "" {
				return v
			}
		}
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				return v
			}
		}
		return ""
	}

	cfg := &Config{
		APIKey:   lookup(KeyGeminiAPIKey, KeyGoogleAPIKey),
		Model:    orDefault(lookup(KeyModel), DefaultModel),
		Backend:  orDefault(lookup(KeyBackend), BackendGeminiAPI),
		HTTPAddr: orDefault(lookup(KeyHTTPAddr), DefaultHTTPAddr),
	}

	var err error
	if cfg.SampleLimit, err = intValue(lookup(KeySampleLimit), DefaultSampleLimit); err != nil {
		return nil, apperr.Wrap(apperr.KindConfiguration, op, err, KeySampleLimit)
	}
	if cfg.CacheMaxEntries, err = intValue(lookup(KeyCacheMaxEntries), 0); err != nil {
		return nil, apperr.Wrap(apperr.KindConfiguration, op, err, KeyCacheMaxEntries)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that do not depend on the API key.
func (c *Config) Validate() error {
	const op = "config.validate"
	switch c.Backend {
	case BackendGeminiAPI, BackendVertexAI:
	default:
		return apperr.Configuration(op, fmt.Sprintf("unknown genai backend %q (want %s or %s)",
			c.Backend, BackendGeminiAPI, BackendVertexAI))
	}
	if c.SampleLimit < 0 {
		return apperr.Configuration(op, fmt.Sprintf("%s must not be negative", KeySampleLimit))
	}
	if c.CacheMaxEntries < 0 {
		return apperr.Configuration(op, fmt.Sprintf("%s must not be negative", KeyCacheMaxEntries))
	}
	return nil
}

// RequireAPIKey returns a configuration error when the selected backend
// needs an API key and none was found. Vertex AI authenticates through
// application default credentials instead.
func (c *Config) RequireAPIKey() error {
	if c.Backend == BackendVertexAI || c.APIKey != "" {
		return nil
	}
	return apperr.Configuration("config.api_key",
		fmt.Sprintf("%s (or %s) is not set in the secrets file or environment\nGet one at: https://aistudio.google.com/api-keys",
			KeyGeminiAPIKey, KeyGoogleAPIKey))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intValue(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}
