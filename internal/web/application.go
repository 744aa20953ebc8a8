// Package web serves the moodboard and reply flows as a small browser UI
// and a JSON API.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/moodboard/internal/colour"
	"github.com/jmylchreest/moodboard/internal/moodboard"
	"github.com/jmylchreest/moodboard/internal/reply"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds server settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Application wires the pipelines to HTTP handlers.
type Application struct {
	Config    Config
	Moodboard *moodboard.Service
	Reply     *reply.Service

	logger    hclog.Logger
	templates *template.Template
}

// New creates an Application and parses its templates.
func New(cfg Config, mb *moodboard.Service, rs *reply.Service, logger hclog.Logger) (*Application, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 2 * time.Minute
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"displayName": colour.DisplayName,
		"tags":        joinTags,
		"textColour":  textColour,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Application{
		Config:    cfg,
		Moodboard: mb,
		Reply:     rs,
		logger:    logger,
		templates: tmpl,
	}, nil
}
